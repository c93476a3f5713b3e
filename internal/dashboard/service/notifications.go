package service

import (
	"context"
	"sync"
	"time"

	"stock-order-dashboard/internal/dashboard/dto"
	"stock-order-dashboard/internal/dashboard/repository"
	"stock-order-dashboard/internal/dashboard/settings"
	"stock-order-dashboard/internal/dashboard/store"
	"stock-order-dashboard/internal/entity"
	"stock-order-dashboard/pkg/logger"
	"stock-order-dashboard/pkg/telegram"
	"stock-order-dashboard/pkg/utils"

	"github.com/patrickmn/go-cache"
)

// Feedback event kinds and their bounded durations.
const (
	FeedbackCelebration = "celebration"
	FeedbackFailure     = "failure"

	celebrationDuration = 5 * time.Second
	failureDuration     = 3 * time.Second

	// How long a symbol's Telegram alert stays deduplicated across
	// poll cycles before it may be re-sent.
	alertDedupeTTL = 10 * time.Minute
)

// PendingAlert is one unacknowledged notification joined with its
// backing order at the refresh boundary. Order is nil when the symbol
// does not resolve against the reconciled view.
type PendingAlert struct {
	Notification entity.Notification
	Order        *entity.Order
}

// ExitOutcome is the explicit confirmed/rejected result of an exit
// action. The pending-set removal is optimistic and holds in both
// cases; only a confirmed outcome carries realized profit and a
// feedback event.
type ExitOutcome struct {
	Symbol    string  `json:"symbol"`
	Confirmed bool    `json:"confirmed"`
	Profit    float64 `json:"profit"`
	Feedback  string  `json:"feedback,omitempty"`
}

// NotificationService holds the pending alert set and drives the
// exit/exit-all/edit action state machine.
type NotificationService interface {
	Refresh(ctx context.Context) error
	Pending() []PendingAlert
	SurfaceVisible() bool
	Feedback() dto.FeedbackResponse
	Exit(ctx context.Context, symbol string) ExitOutcome
	ExitAll(ctx context.Context) []ExitOutcome
	Edit(ctx context.Context, symbol string) (entity.Order, error)
}

type notificationService struct {
	log      *logger.Logger
	gateway  repository.OrdersGateway
	orders   OrderService
	settings *settings.Store
	notifier telegram.Notifier
	dedupe   *cache.Cache
	seq      *store.Sequence

	mu       sync.Mutex
	pending  []PendingAlert
	lastSeq  uint64
	feedback feedbackState
}

type feedbackState struct {
	kind     string
	symbol   string
	deadline time.Time
}

// NewNotificationService creates the alert controller. The notifier may
// be nil when Telegram is not configured.
func NewNotificationService(log *logger.Logger, gateway repository.OrdersGateway, orders OrderService, settingsStore *settings.Store, notifier telegram.Notifier) NotificationService {
	return &notificationService{
		log:      log,
		gateway:  gateway,
		orders:   orders,
		settings: settingsStore,
		notifier: notifier,
		dedupe:   cache.New(alertDedupeTTL, 2*alertDedupeTTL),
		seq:      &store.Sequence{},
	}
}

// Refresh replaces the entire pending set with the server's current
// alert list. A previously pending symbol missing from the new list is
// implicitly dropped; whether that is an "alert resolved" signal or a
// server-side artifact is undecided upstream, so the drop-on-absence
// behavior is kept as-is. A failed fetch is a no-op.
func (s *notificationService) Refresh(ctx context.Context) error {
	seq := s.seq.Next()
	alerts, err := s.gateway.Alerts(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch notifications, keeping pending set", logger.ErrorField(err))
		return err
	}

	joined := make([]PendingAlert, 0, len(alerts))
	for _, alert := range alerts {
		entry := PendingAlert{Notification: alert}
		if order, ok := s.orders.Find(alert.Symbol); ok {
			entry.Order = utils.ToPointer(order)
		}
		joined = append(joined, entry)
	}

	s.mu.Lock()
	if seq <= s.lastSeq {
		s.mu.Unlock()
		s.log.DebugContext(ctx, "Discarded stale alert snapshot", logger.Field("seq", seq))
		return nil
	}
	s.lastSeq = seq
	s.pending = joined
	s.mu.Unlock()

	s.pushTelegramAlerts(ctx, joined)
	return nil
}

// Pending returns a copy of the pending alert set in server order.
func (s *notificationService) Pending() []PendingAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PendingAlert, len(s.pending))
	copy(out, s.pending)
	return out
}

// SurfaceVisible reports whether the alert surface should be shown:
// pending set non-empty and sound alerts enabled. It auto-closes when
// the pending set empties from any action.
func (s *notificationService) SurfaceVisible() bool {
	if !s.settings.Get().Sound {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending) > 0
}

// Feedback returns the currently active feedback event, if its bounded
// duration has not elapsed.
func (s *notificationService) Feedback() dto.FeedbackResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.feedback.kind == "" || time.Now().After(s.feedback.deadline) {
		return dto.FeedbackResponse{}
	}
	return dto.FeedbackResponse{
		Active:    true,
		Kind:      s.feedback.kind,
		Symbol:    s.feedback.symbol,
		ExpiresAt: s.feedback.deadline,
	}
}

// Exit removes the symbol's notification immediately (optimistic, not
// rolled back on failure), invokes the remote exit, and on success
// records a celebration or failure feedback event depending on the
// realized profit.
func (s *notificationService) Exit(ctx context.Context, symbol string) ExitOutcome {
	s.removePending(symbol)

	outcome := ExitOutcome{Symbol: symbol}

	order, err := s.orders.Exit(ctx, symbol)
	if err != nil {
		// Already logged at the point of origin; the order remains
		// holding and the dropped notification stays dropped.
		return outcome
	}

	outcome.Confirmed = true
	outcome.Profit = order.Profit
	if order.Profit >= 0 {
		outcome.Feedback = FeedbackCelebration
		s.setFeedback(FeedbackCelebration, symbol, celebrationDuration)
	} else {
		outcome.Feedback = FeedbackFailure
		s.setFeedback(FeedbackFailure, symbol, failureDuration)
	}
	return outcome
}

// ExitAll exits every currently pending notification sequentially, in
// pending-list order, awaiting each call before starting the next. The
// pending set is empty afterward even when individual calls fail.
func (s *notificationService) ExitAll(ctx context.Context) []ExitOutcome {
	pending := s.Pending()

	outcomes := make([]ExitOutcome, 0, len(pending))
	for _, alert := range pending {
		outcomes = append(outcomes, s.Exit(ctx, alert.Notification.Symbol))
	}
	return outcomes
}

// Edit resolves the backing order for the order-editing collaborator.
// An absent order is a typed error and leaves the pending set
// unchanged; a present order acknowledges the notification.
func (s *notificationService) Edit(ctx context.Context, symbol string) (entity.Order, error) {
	order, ok := s.orders.Find(symbol)
	if !ok {
		s.log.ErrorContext(ctx, "Order to edit not found", logger.StringField("symbol", symbol))
		return entity.Order{}, ErrOrderNotFound
	}

	s.removePending(symbol)
	return order, nil
}

func (s *notificationService) removePending(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.pending[:0]
	for _, alert := range s.pending {
		if alert.Notification.Symbol != symbol {
			kept = append(kept, alert)
		}
	}
	s.pending = kept
}

func (s *notificationService) setFeedback(kind, symbol string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = feedbackState{
		kind:     kind,
		symbol:   symbol,
		deadline: time.Now().Add(d),
	}
}

// pushTelegramAlerts forwards newly seen alerts to Telegram when the
// user has the toggle on. The dedupe cache keeps a 25s poll cycle from
// re-sending the same alert every refresh; it is marked before the send
// so overlapping refreshes cannot double-send. The send itself runs off
// the refresh path.
func (s *notificationService) pushTelegramAlerts(ctx context.Context, alerts []PendingAlert) {
	if s.notifier == nil || !s.settings.Get().Telegram {
		return
	}

	for _, alert := range alerts {
		symbol := alert.Notification.Symbol
		if _, seen := s.dedupe.Get(symbol); seen {
			continue
		}
		s.dedupe.Set(symbol, struct{}{}, cache.DefaultExpiration)

		msg := telegram.FormatTradeAlertMessage(alert.Notification, alert.Order)
		utils.GoSafe(func() {
			if err := s.notifier.SendMessage(msg); err != nil {
				s.log.ErrorContext(ctx, "Failed to send telegram alert", logger.ErrorField(err), logger.StringField("symbol", symbol))
			}
		})
	}
}
