package service

import (
	"context"
	"fmt"

	"stock-order-dashboard/internal/dashboard/config"
	"stock-order-dashboard/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Poller drives the periodic refresh of the order view and the pending
// alert set. Each firing runs in its own goroutine and does not wait
// for the previous cycle's requests; the stores' sequence guards settle
// overlapping completions.
type Poller struct {
	cfg           *config.Config
	log           *logger.Logger
	orders        OrderService
	notifications NotificationService
	cron          *cron.Cron
}

// NewPoller creates the refresh loop.
func NewPoller(cfg *config.Config, log *logger.Logger, orders OrderService, notifications NotificationService) *Poller {
	return &Poller{
		cfg:           cfg,
		log:           log,
		orders:        orders,
		notifications: notifications,
	}
}

// Start runs one immediate refresh and then schedules the periodic one.
func (p *Poller) Start(ctx context.Context) error {
	p.RefreshNow(ctx)

	p.cron = cron.New()
	spec := fmt.Sprintf("@every %s", p.cfg.Poll.Interval)
	if _, err := p.cron.AddFunc(spec, func() {
		p.RefreshNow(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}
	p.cron.Start()

	p.log.Info("Poll loop started", logger.Field("interval", p.cfg.Poll.Interval))
	return nil
}

// RefreshNow triggers an immediate reconcile and alert refresh, used on
// startup and when a view that depends on fresh completed-order data
// becomes visible. Errors are already logged at their origin; a failed
// cycle leaves the last good state in place until the next tick.
func (p *Poller) RefreshNow(ctx context.Context) {
	_ = p.orders.Reconcile(ctx)
	_ = p.notifications.Refresh(ctx)
}

// Stop halts the schedule. In-flight refreshes are not cancelled; the
// timer is the only cancellable resource.
func (p *Poller) Stop() {
	if p.cron == nil {
		return
	}
	<-p.cron.Stop().Done()
	p.log.Info("Poll loop stopped")
}
