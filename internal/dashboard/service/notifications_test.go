package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock-order-dashboard/internal/dashboard/settings"
	"stock-order-dashboard/internal/dashboard/store"
	"stock-order-dashboard/internal/entity"
	"stock-order-dashboard/pkg/common"
	"stock-order-dashboard/pkg/logger"
	"stock-order-dashboard/pkg/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func holdingOrder(symbol string, profit float64) entity.Order {
	return entity.Order{
		Symbol:        symbol,
		Status:        common.OrderStatusHolding,
		Profit:        profit,
		EntryDatetime: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

type notificationFixture struct {
	gateway       *fakeGateway
	orders        OrderService
	notifications NotificationService
	settings      *settings.Store
}

func newNotificationFixture(t *testing.T, notifier telegram.Notifier) *notificationFixture {
	t.Helper()

	gateway := newFakeGateway()
	orderStore := store.NewOrderStore()
	orders := NewOrderService(logger.NewNop(), gateway, orderStore, &store.Sequence{})
	settingsStore := settings.NewStore(entity.Settings{Telegram: true, Sound: true, ColorIntensity: 2})

	return &notificationFixture{
		gateway:       gateway,
		orders:        orders,
		notifications: NewNotificationService(logger.NewNop(), gateway, orders, settingsStore, notifier),
		settings:      settingsStore,
	}
}

func (f *notificationFixture) refresh(t *testing.T, ctx context.Context) {
	t.Helper()
	require.NoError(t, f.orders.Reconcile(ctx))
	require.NoError(t, f.notifications.Refresh(ctx))
}

func TestRefreshJoinsOrders(t *testing.T) {
	ctx := context.Background()
	f := newNotificationFixture(t, nil)
	f.gateway.setOrders(holdingOrder("BBCA", 3.5))
	f.gateway.alerts = []entity.Notification{
		{Symbol: "BBCA", Message: "EMA cross down"},
		{Symbol: "GONE", Message: "stale symbol"},
	}

	f.refresh(t, ctx)

	pending := f.notifications.Pending()
	require.Len(t, pending, 2)

	require.NotNil(t, pending[0].Order)
	assert.Equal(t, "BBCA", pending[0].Order.Symbol)
	assert.Equal(t, 3.5, pending[0].Order.Profit)

	// The second alert's symbol resolves to nothing; the alert still shows.
	assert.Nil(t, pending[1].Order)
	assert.Equal(t, "GONE", pending[1].Notification.Symbol)
}

func TestRefreshFailureKeepsPendingSet(t *testing.T) {
	ctx := context.Background()
	f := newNotificationFixture(t, nil)
	f.gateway.alerts = []entity.Notification{{Symbol: "BBCA"}}
	f.refresh(t, ctx)
	require.Len(t, f.notifications.Pending(), 1)

	f.gateway.alertsErr = errors.New("upstream down")
	assert.Error(t, f.notifications.Refresh(ctx))
	assert.Len(t, f.notifications.Pending(), 1)
}

func TestRefreshReplacesWholePendingSet(t *testing.T) {
	ctx := context.Background()
	f := newNotificationFixture(t, nil)
	f.gateway.alerts = []entity.Notification{{Symbol: "BBCA"}, {Symbol: "TLKM"}}
	f.refresh(t, ctx)

	// A symbol absent from the next list is dropped without any action.
	f.gateway.alerts = []entity.Notification{{Symbol: "TLKM"}}
	require.NoError(t, f.notifications.Refresh(ctx))

	pending := f.notifications.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "TLKM", pending[0].Notification.Symbol)
}

func TestExitProfitableTradeCelebrates(t *testing.T) {
	ctx := context.Background()
	f := newNotificationFixture(t, nil)
	f.gateway.setOrders(holdingOrder("BBCA", 4.2))
	f.gateway.alerts = []entity.Notification{{Symbol: "BBCA"}}
	f.gateway.onExit = func(symbol string) {
		exit := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
		o := holdingOrder(symbol, 4.2)
		o.Status = common.OrderStatusExited
		o.ExitDatetime = &exit
		f.gateway.setOrders(o)
	}
	f.refresh(t, ctx)

	outcome := f.notifications.Exit(ctx, "BBCA")

	assert.True(t, outcome.Confirmed)
	assert.Equal(t, 4.2, outcome.Profit)
	assert.Equal(t, FeedbackCelebration, outcome.Feedback)
	assert.Empty(t, f.notifications.Pending())

	feedback := f.notifications.Feedback()
	assert.True(t, feedback.Active)
	assert.Equal(t, FeedbackCelebration, feedback.Kind)
	assert.Equal(t, "BBCA", feedback.Symbol)
}

func TestExitLosingTradeSignalsFailure(t *testing.T) {
	ctx := context.Background()
	f := newNotificationFixture(t, nil)
	f.gateway.setOrders(holdingOrder("BBCA", -2.1))
	f.gateway.alerts = []entity.Notification{{Symbol: "BBCA"}}
	f.gateway.onExit = func(symbol string) {
		exit := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
		o := holdingOrder(symbol, -2.1)
		o.Status = common.OrderStatusExited
		o.ExitDatetime = &exit
		f.gateway.setOrders(o)
	}
	f.refresh(t, ctx)

	outcome := f.notifications.Exit(ctx, "BBCA")

	assert.True(t, outcome.Confirmed)
	assert.Equal(t, FeedbackFailure, outcome.Feedback)
	assert.Equal(t, FeedbackFailure, f.notifications.Feedback().Kind)
}

func TestExitFailureDropsAlertWithoutFeedback(t *testing.T) {
	ctx := context.Background()
	f := newNotificationFixture(t, nil)
	f.gateway.setOrders(holdingOrder("BBCA", 4.2))
	f.gateway.alerts = []entity.Notification{{Symbol: "BBCA"}}
	f.gateway.exitErr["BBCA"] = errors.New("exit rejected")
	f.refresh(t, ctx)

	outcome := f.notifications.Exit(ctx, "BBCA")

	assert.False(t, outcome.Confirmed)
	assert.Empty(t, outcome.Feedback)
	// The optimistic removal is not rolled back.
	assert.Empty(t, f.notifications.Pending())
	assert.False(t, f.notifications.Feedback().Active)
}

func TestExitAllRunsSequentiallyInPendingOrder(t *testing.T) {
	ctx := context.Background()
	f := newNotificationFixture(t, nil)
	f.gateway.setOrders(
		holdingOrder("BBCA", 1),
		holdingOrder("TLKM", 2),
		holdingOrder("ASII", 3),
	)
	f.gateway.alerts = []entity.Notification{
		{Symbol: "BBCA"}, {Symbol: "TLKM"}, {Symbol: "ASII"},
	}
	f.gateway.exitErr["TLKM"] = errors.New("exit rejected")
	f.refresh(t, ctx)

	outcomes := f.notifications.ExitAll(ctx)

	require.Len(t, outcomes, 3)
	assert.Equal(t, []string{"BBCA", "TLKM", "ASII"}, f.gateway.exitCalls)
	assert.False(t, outcomes[1].Confirmed)

	// Failures do not leave their alerts behind.
	assert.Empty(t, f.notifications.Pending())
}

func TestEditResolvesOrderAndAcknowledges(t *testing.T) {
	ctx := context.Background()
	f := newNotificationFixture(t, nil)
	f.gateway.setOrders(holdingOrder("BBCA", 1))
	f.gateway.alerts = []entity.Notification{{Symbol: "BBCA"}}
	f.refresh(t, ctx)

	order, err := f.notifications.Edit(ctx, "BBCA")
	require.NoError(t, err)
	assert.Equal(t, "BBCA", order.Symbol)
	assert.Empty(t, f.notifications.Pending())
}

func TestEditUnknownSymbolLeavesPendingUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newNotificationFixture(t, nil)
	f.gateway.alerts = []entity.Notification{{Symbol: "GONE"}}
	f.refresh(t, ctx)

	_, err := f.notifications.Edit(ctx, "GONE")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Len(t, f.notifications.Pending(), 1)
}

func TestSurfaceVisibility(t *testing.T) {
	ctx := context.Background()
	f := newNotificationFixture(t, nil)
	assert.False(t, f.notifications.SurfaceVisible())

	f.gateway.alerts = []entity.Notification{{Symbol: "BBCA"}}
	f.refresh(t, ctx)
	assert.True(t, f.notifications.SurfaceVisible())

	// Sound alerts off suppresses the surface even with pending alerts.
	f.settings.Update(entity.Settings{Telegram: true, Sound: false, ColorIntensity: 2})
	assert.False(t, f.notifications.SurfaceVisible())

	// Emptying the pending set closes it regardless of settings.
	f.settings.Update(entity.Settings{Telegram: true, Sound: true, ColorIntensity: 2})
	f.gateway.alerts = nil
	require.NoError(t, f.notifications.Refresh(ctx))
	assert.False(t, f.notifications.SurfaceVisible())
}

func TestTelegramPushDeduplicatesAcrossRefreshes(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	f := newNotificationFixture(t, notifier)
	f.gateway.setOrders(holdingOrder("BBCA", 2))
	f.gateway.alerts = []entity.Notification{{Symbol: "BBCA", Message: "EMA cross down"}}

	f.refresh(t, ctx)
	require.NoError(t, f.notifications.Refresh(ctx))

	// The send runs off the refresh path; the dedupe mark is synchronous,
	// so the second refresh cannot queue another message.
	require.Eventually(t, func() bool { return len(notifier.sent()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Contains(t, notifier.sent()[0], "BBCA")
	assert.Contains(t, notifier.sent()[0], "EMA cross down")
}

func TestTelegramPushRespectsToggle(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	f := newNotificationFixture(t, notifier)
	f.settings.Update(entity.Settings{Telegram: false, Sound: true, ColorIntensity: 2})
	f.gateway.alerts = []entity.Notification{{Symbol: "BBCA"}}

	f.refresh(t, ctx)
	assert.Empty(t, notifier.sent())
}
