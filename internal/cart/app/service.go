package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrItemNotFound = errors.New("item not in cart")
)

// Service owns the in-memory cart. Every mutation persists the new state,
// refreshes the display, and may emit a notification. Persistence failures
// are logged and swallowed; the in-memory cart stays authoritative for the
// session.
type Service struct {
	mu    sync.Mutex
	items []domain.LineItem

	store SnapshotStore
	disp  Display
	notif Notifier
	log   *slog.Logger

	newID func() string
}

func NewService(store SnapshotStore, disp Display, notif Notifier, log *slog.Logger) *Service {
	return &Service{
		store: store,
		disp:  disp,
		notif: notif,
		log:   log,
		newID: uuid.NewString,
	}
}

// Hydrate replaces the cart with the persisted snapshot. Called once at
// startup, before any mutation.
func (s *Service) Hydrate(ctx context.Context) {
	items, err := s.store.Load(ctx)
	if err != nil {
		s.log.Error("load cart snapshot", slog.Any("err", err))
		return
	}

	s.mu.Lock()
	s.items = items
	snap := domain.NewSnapshot(s.items)
	s.mu.Unlock()

	s.disp.CartUpdated(snap)
}

// Add merges by name: an existing item's quantity goes up by one, a new
// name is appended with quantity 1 and a fresh id.
func (s *Service) Add(ctx context.Context, name string, unitPrice int64) (domain.LineItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.LineItem{}, fmt.Errorf("%w: item name is empty", ErrInvalidInput)
	}
	if unitPrice < 0 {
		return domain.LineItem{}, fmt.Errorf("%w: unit price cannot be negative, got %d", ErrInvalidInput, unitPrice)
	}

	s.mu.Lock()
	var added domain.LineItem
	found := false
	for i := range s.items {
		if s.items[i].Name == name {
			s.items[i].Quantity++
			added = s.items[i]
			found = true
			break
		}
	}
	if !found {
		added = domain.LineItem{
			ID:        s.newID(),
			Name:      name,
			UnitPrice: unitPrice,
			Quantity:  1,
		}
		s.items = append(s.items, added)
	}
	snap := s.flushLocked(ctx)
	s.mu.Unlock()

	s.disp.CartUpdated(snap)
	s.notif.Notify(fmt.Sprintf("%s added to cart!", name), NoticeSuccess)
	return added, nil
}

// Remove deletes the item with the given id. An absent id mutates nothing
// and reports ErrItemNotFound; the notification on the hit path is
// informational, not a failure.
func (s *Service) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.indexLocked(id) == -1 {
		s.mu.Unlock()
		return ErrItemNotFound
	}
	s.removeLocked(id)
	snap := s.flushLocked(ctx)
	s.mu.Unlock()

	s.disp.CartUpdated(snap)
	s.notif.Notify("Item removed from cart", NoticeError)
	return nil
}

// UpdateQuantity adds delta to the item's quantity. A result of zero or
// less removes the item instead; that path emits the removal notification
// exactly once. An absent id mutates nothing and reports ErrItemNotFound.
func (s *Service) UpdateQuantity(ctx context.Context, id string, delta int64) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx == -1 {
		s.mu.Unlock()
		return ErrItemNotFound
	}

	s.items[idx].Quantity += delta
	removed := false
	if s.items[idx].Quantity <= 0 {
		s.removeLocked(id)
		removed = true
	}
	snap := s.flushLocked(ctx)
	s.mu.Unlock()

	s.disp.CartUpdated(snap)
	if removed {
		s.notif.Notify("Item removed from cart", NoticeError)
	}
	return nil
}

// Clear empties the cart. Used after a successful checkout hand-off; emits
// no notification of its own.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	snap := s.flushLocked(ctx)
	s.mu.Unlock()

	s.disp.CartUpdated(snap)
}

// Snapshot returns a read-only copy of the cart with totals.
func (s *Service) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.NewSnapshot(s.items)
}

func (s *Service) indexLocked(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) removeLocked(id string) {
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
}

// flushLocked persists the current items and returns the snapshot to emit
// after the lock is released. Save errors never reach the caller.
func (s *Service) flushLocked(ctx context.Context) domain.Snapshot {
	if err := s.store.Save(ctx, s.items); err != nil {
		s.log.Error("persist cart snapshot", slog.Any("err", err))
	}
	return domain.NewSnapshot(s.items)
}
