package app

import (
	"context"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

// SnapshotStore persists the cart between sessions. Load fails soft: a
// missing or unreadable snapshot yields an empty item list, not an error.
type SnapshotStore interface {
	Save(ctx context.Context, items []domain.LineItem) error
	Load(ctx context.Context) ([]domain.LineItem, error)
}

const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// Notifier surfaces short user-facing messages. kind is NoticeSuccess or
// NoticeError.
type Notifier interface {
	Notify(message, kind string)
}

// Display receives the cart-updated signal after every mutation. The real
// renderer lives outside this package.
type Display interface {
	CartUpdated(snap domain.Snapshot)
}
