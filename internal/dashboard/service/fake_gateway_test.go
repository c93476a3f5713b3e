package service

import (
	"context"
	"sync"

	"stock-order-dashboard/internal/dashboard/dto"
	"stock-order-dashboard/internal/entity"
)

// fakeGateway is an in-memory stand-in for the remote order service.
// List/Alerts serve the configured snapshots; mutations record their
// calls and optionally fail per symbol.
type fakeGateway struct {
	mu sync.Mutex

	orders  []entity.Order
	alerts  []entity.Notification
	candles []entity.Candle

	listErr   error
	alertsErr error
	exitErr   map[string]error

	exitCalls   []string
	deleteCalls []string
	created     []dto.OrderDraft
	updated     map[string]dto.OrderDraft

	deletedCompleted int

	// onExit mutates the order snapshot when an exit succeeds, the way
	// the remote service marks the position exited.
	onExit func(symbol string)
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		exitErr: make(map[string]error),
		updated: make(map[string]dto.OrderDraft),
	}
}

func (f *fakeGateway) setOrders(orders ...entity.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = orders
}

func (f *fakeGateway) List(ctx context.Context) ([]entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]entity.Order, len(f.orders))
	copy(out, f.orders)
	return out, nil
}

func (f *fakeGateway) Create(ctx context.Context, draft dto.OrderDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, draft)
	return nil
}

func (f *fakeGateway) Update(ctx context.Context, symbol string, draft dto.OrderDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated[symbol] = draft
	return nil
}

func (f *fakeGateway) Delete(ctx context.Context, symbol string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, symbol)
	kept := f.orders[:0]
	for _, o := range f.orders {
		if o.Symbol != symbol {
			kept = append(kept, o)
		}
	}
	f.orders = kept
	return nil
}

func (f *fakeGateway) DeleteCompleted(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedCompleted++
	kept := f.orders[:0]
	for _, o := range f.orders {
		if !o.Exited() {
			kept = append(kept, o)
		}
	}
	f.orders = kept
	return nil
}

func (f *fakeGateway) Exit(ctx context.Context, symbol string) error {
	f.mu.Lock()
	f.exitCalls = append(f.exitCalls, symbol)
	err := f.exitErr[symbol]
	onExit := f.onExit
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if onExit != nil {
		onExit(symbol)
	}
	return nil
}

func (f *fakeGateway) Alerts(ctx context.Context) ([]entity.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.alertsErr != nil {
		return nil, f.alertsErr
	}
	out := make([]entity.Notification, len(f.alerts))
	copy(out, f.alerts)
	return out, nil
}

func (f *fakeGateway) Candles(ctx context.Context, symbol, interval string) ([]entity.Candle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.candles, nil
}

// recordingNotifier captures messages instead of talking to Telegram.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) SendMessage(text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
	return nil
}

func (n *recordingNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.messages))
	copy(out, n.messages)
	return out
}
