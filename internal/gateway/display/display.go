// Package display is the process-local implementation of the outbound UI
// signals. The real storefront renderer is an external collaborator; this
// one writes structured log lines so every signal stays observable.
package display

import (
	"log/slog"

	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
)

type Renderer struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Renderer {
	return &Renderer{log: log}
}

func (r *Renderer) CartUpdated(snap cartdomain.Snapshot) {
	r.log.Info("cart updated",
		slog.Int("lines", len(snap.Items)),
		slog.Int64("total_items", snap.TotalItems),
		slog.Int64("total_price", snap.TotalPrice),
	)
}

func (r *Renderer) Notify(message, kind string) {
	r.log.Info("notification",
		slog.String("kind", kind),
		slog.String("message", message),
	)
}

func (r *Renderer) FieldError(field, message string) {
	if message == "" {
		r.log.Debug("field error cleared", slog.String("field", field))
		return
	}
	r.log.Info("field error",
		slog.String("field", field),
		slog.String("message", message),
	)
}

func (r *Renderer) StateChanged(state checkoutapp.State) {
	r.log.Info("checkout state changed", slog.String("state", string(state)))
}
