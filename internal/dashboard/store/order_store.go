package store

import (
	"sort"
	"sync"
	"time"

	"stock-order-dashboard/internal/entity"
)

// OrderStore holds the reconciled view of all orders, active and
// completed. Reconcile replaces the whole view from an authoritative
// remote snapshot; point operations exist for optimistic local
// mutations and are always followed by a fresh reconcile upstream.
//
// Active orders precede completed ones regardless of timestamp; within
// each partition the sort is entry time (active) or exit time
// (completed), newest first.
type OrderStore struct {
	mu      sync.RWMutex
	orders  []entity.Order
	lastSeq uint64
}

// NewOrderStore creates an empty order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{}
}

// Reconcile replaces the view with the given snapshot. Each reconcile
// carries the sequence number it was issued under; a snapshot whose
// sequence is not newer than the last applied one is discarded, so
// overlapping poll cycles cannot overwrite fresher data with stale
// responses. Returns whether the snapshot was applied.
func (s *OrderStore) Reconcile(seq uint64, snapshot []entity.Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.lastSeq {
		return false
	}
	s.lastSeq = seq
	s.orders = sortSnapshot(snapshot)
	return true
}

// View returns the merged order view, active-sorted ++ completed-sorted.
func (s *OrderStore) View() []entity.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Active returns the non-exited subset, newest entry first.
func (s *OrderStore) Active() []entity.Order {
	return s.filter(func(o entity.Order) bool { return !o.Exited() })
}

// Completed returns the exited subset, newest exit first.
func (s *OrderStore) Completed() []entity.Order {
	return s.filter(entity.Order.Exited)
}

// Find looks up an order by symbol.
func (s *OrderStore) Find(symbol string) (entity.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.Symbol == symbol {
			return o, true
		}
	}
	return entity.Order{}, false
}

// Upsert replaces the order with the same symbol or inserts a new one,
// then restores the partition ordering.
func (s *OrderStore) Upsert(order entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i, o := range s.orders {
		if o.Symbol == order.Symbol {
			s.orders[i] = order
			replaced = true
			break
		}
	}
	if !replaced {
		s.orders = append(s.orders, order)
	}
	s.orders = sortSnapshot(s.orders)
}

// Remove drops the order with the given symbol, if present.
func (s *OrderStore) Remove(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.orders[:0]
	for _, o := range s.orders {
		if o.Symbol != symbol {
			kept = append(kept, o)
		}
	}
	s.orders = kept
}

// RemoveCompleted drops every exited order.
func (s *OrderStore) RemoveCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.orders[:0]
	for _, o := range s.orders {
		if !o.Exited() {
			kept = append(kept, o)
		}
	}
	s.orders = kept
}

// LastSequence returns the sequence number of the last applied snapshot.
func (s *OrderStore) LastSequence() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeq
}

func (s *OrderStore) filter(keep func(entity.Order) bool) []entity.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Order
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

func sortSnapshot(snapshot []entity.Order) []entity.Order {
	var active, completed []entity.Order
	for _, o := range snapshot {
		if o.Exited() {
			completed = append(completed, o)
		} else {
			active = append(active, o)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].EntryDatetime.After(active[j].EntryDatetime)
	})
	sort.SliceStable(completed, func(i, j int) bool {
		return exitTime(completed[i]).After(exitTime(completed[j]))
	})

	merged := make([]entity.Order, 0, len(active)+len(completed))
	merged = append(merged, active...)
	merged = append(merged, completed...)
	return merged
}

func exitTime(o entity.Order) time.Time {
	if o.ExitDatetime == nil {
		return time.Time{}
	}
	return *o.ExitDatetime
}
