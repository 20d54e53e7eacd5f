package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
)

// CartServiceGateway adapts the cart store service to the checkout
// composer's gateway port.
type CartServiceGateway struct {
	svc *cartapp.Service
}

func NewCartServiceGateway(svc *cartapp.Service) *CartServiceGateway {
	return &CartServiceGateway{svc: svc}
}

func (g *CartServiceGateway) Lines(ctx context.Context) ([]checkoutapp.CartLine, error) {
	snap := g.svc.Snapshot()

	lines := make([]checkoutapp.CartLine, 0, len(snap.Items))
	for _, it := range snap.Items {
		lines = append(lines, checkoutapp.CartLine{
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	return lines, nil
}

func (g *CartServiceGateway) Clear(ctx context.Context) error {
	g.svc.Clear(ctx)
	return nil
}
