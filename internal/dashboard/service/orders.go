package service

import (
	"context"
	"fmt"
	"time"

	"stock-order-dashboard/internal/dashboard/dto"
	"stock-order-dashboard/internal/dashboard/repository"
	"stock-order-dashboard/internal/dashboard/store"
	"stock-order-dashboard/internal/entity"
	"stock-order-dashboard/pkg/logger"
)

// ErrOrderNotFound is returned when a symbol does not resolve against
// the reconciled order view.
var ErrOrderNotFound = fmt.Errorf("order not found")

// OrderService keeps the order store reconciled against the remote
// service and proxies user-initiated mutations. Every mutation is an
// optimistic local point operation followed by a mandatory reconcile;
// the local view is never trusted as final state.
type OrderService interface {
	Reconcile(ctx context.Context) error
	View() []entity.Order
	Active() []entity.Order
	Completed() []entity.Order
	Find(symbol string) (entity.Order, bool)
	Submit(ctx context.Context, draft dto.OrderDraft) error
	Update(ctx context.Context, symbol string, draft dto.OrderDraft) error
	Delete(ctx context.Context, symbol string) error
	DeleteCompleted(ctx context.Context) error
	Exit(ctx context.Context, symbol string) (entity.Order, error)
	Candles(ctx context.Context, symbol, interval string) (*dto.CandlesResponse, error)
}

type orderService struct {
	log     *logger.Logger
	gateway repository.OrdersGateway
	orders  *store.OrderStore
	seq     *store.Sequence
}

// NewOrderService creates the order lifecycle service.
func NewOrderService(log *logger.Logger, gateway repository.OrdersGateway, orders *store.OrderStore, seq *store.Sequence) OrderService {
	return &orderService{
		log:     log,
		gateway: gateway,
		orders:  orders,
		seq:     seq,
	}
}

// Reconcile replaces the local view with a fresh remote snapshot. A
// failed fetch is a no-op: the last good snapshot stays visible and the
// next poll cycle is the retry mechanism.
func (s *orderService) Reconcile(ctx context.Context) error {
	seq := s.seq.Next()
	snapshot, err := s.gateway.List(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch orders, keeping last good snapshot", logger.ErrorField(err))
		return err
	}

	if !s.orders.Reconcile(seq, snapshot) {
		s.log.DebugContext(ctx, "Discarded stale order snapshot",
			logger.Field("seq", seq),
			logger.Field("last_applied", s.orders.LastSequence()))
	}
	return nil
}

func (s *orderService) View() []entity.Order      { return s.orders.View() }
func (s *orderService) Active() []entity.Order    { return s.orders.Active() }
func (s *orderService) Completed() []entity.Order { return s.orders.Completed() }

func (s *orderService) Find(symbol string) (entity.Order, bool) {
	return s.orders.Find(symbol)
}

func (s *orderService) Submit(ctx context.Context, draft dto.OrderDraft) error {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return err
	}

	if err := s.gateway.Create(ctx, draft); err != nil {
		s.log.ErrorContext(ctx, "Failed to submit order", logger.ErrorField(err), logger.StringField("symbol", draft.Symbol))
		return err
	}

	return s.Reconcile(ctx)
}

func (s *orderService) Update(ctx context.Context, symbol string, draft dto.OrderDraft) error {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return err
	}

	if err := s.gateway.Update(ctx, symbol, draft); err != nil {
		s.log.ErrorContext(ctx, "Failed to update order", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return err
	}

	return s.Reconcile(ctx)
}

func (s *orderService) Delete(ctx context.Context, symbol string) error {
	s.orders.Remove(symbol)

	if err := s.gateway.Delete(ctx, symbol); err != nil {
		s.log.ErrorContext(ctx, "Failed to delete order", logger.ErrorField(err), logger.StringField("symbol", symbol))
		// The optimistic removal stands; the reconcile below restores
		// the authoritative view either way.
	}

	return s.Reconcile(ctx)
}

func (s *orderService) DeleteCompleted(ctx context.Context) error {
	s.orders.RemoveCompleted()

	if err := s.gateway.DeleteCompleted(ctx); err != nil {
		s.log.ErrorContext(ctx, "Failed to delete completed orders", logger.ErrorField(err))
	}

	return s.Reconcile(ctx)
}

// Exit closes the position at the remote service and returns the
// post-reconcile order so callers can inspect the realized profit.
func (s *orderService) Exit(ctx context.Context, symbol string) (entity.Order, error) {
	if err := s.gateway.Exit(ctx, symbol); err != nil {
		s.log.ErrorContext(ctx, "Failed to exit order, it remains holding", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return entity.Order{}, err
	}

	if err := s.Reconcile(ctx); err != nil {
		// Exit succeeded remotely; a failed reconcile only delays the
		// refreshed view until the next poll.
		if order, ok := s.orders.Find(symbol); ok {
			return order, nil
		}
		return entity.Order{}, nil
	}

	order, ok := s.orders.Find(symbol)
	if !ok {
		// The remote side may auto-remove exited orders.
		return entity.Order{}, nil
	}
	return order, nil
}

// Candles proxies the remote bar history and annotates it with the bar
// indices of the order's entry and exit timestamps for chart markers.
func (s *orderService) Candles(ctx context.Context, symbol, interval string) (*dto.CandlesResponse, error) {
	order, ok := s.orders.Find(symbol)
	if !ok {
		return nil, ErrOrderNotFound
	}

	candles, err := s.gateway.Candles(ctx, symbol, interval)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch candle data", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil, err
	}

	resp := &dto.CandlesResponse{
		Symbol:     symbol,
		Candles:    candles,
		EntryIndex: barIndexAtOrAfter(candles, order.EntryDatetime),
		ExitIndex:  -1,
	}
	if order.ExitDatetime != nil {
		resp.ExitIndex = barIndexAtOrAfter(candles, *order.ExitDatetime)
	}
	return resp, nil
}

func barIndexAtOrAfter(candles []entity.Candle, at time.Time) int {
	for i, c := range candles {
		if !c.Datetime.Before(at) {
			return i
		}
	}
	return -1
}
