package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dwikikusuma/storefront/internal/checkout/domain"
)

// CartLine is the composer's view of one cart entry.
type CartLine struct {
	Name      string
	UnitPrice int64
	Quantity  int64
}

// CartGateway is the composer's port onto the cart store.
type CartGateway interface {
	Lines(ctx context.Context) ([]CartLine, error)
	Clear(ctx context.Context) error
}

// Options carry the storefront literals hoisted out of the message
// templates.
type Options struct {
	RestaurantName     string
	Currency           string
	DestinationContact string
	DeliveryFee        int64
}

var ErrEmptyCart = errors.New("cart is empty")

// Service composes orders from the current cart and renders them into the
// outbound message format.
type Service struct {
	cart CartGateway
	opts Options

	now func() time.Time
}

func NewService(cart CartGateway, opts Options) *Service {
	return &Service{
		cart: cart,
		opts: opts,
		now:  time.Now,
	}
}

func (s *Service) Options() Options {
	return s.opts
}

// Compose builds an immutable Order from the cart and an already-validated
// customer. The cart must not be empty.
func (s *Service) Compose(ctx context.Context, customer domain.CustomerInfo) (domain.Order, error) {
	lines, err := s.cart.Lines(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("read cart: %w", err)
	}
	if len(lines) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	orderLines := make([]domain.OrderLine, 0, len(lines))
	var subtotal int64
	for i, l := range lines {
		if l.Quantity <= 0 {
			return domain.Order{}, fmt.Errorf("line %d: quantity must be positive, got %d", i, l.Quantity)
		}
		lineTotal := l.UnitPrice * l.Quantity
		orderLines = append(orderLines, domain.OrderLine{
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: lineTotal,
		})
		subtotal += lineTotal
	}

	return domain.Order{
		Customer:    customer,
		Lines:       orderLines,
		Currency:    s.opts.Currency,
		Subtotal:    subtotal,
		DeliveryFee: s.opts.DeliveryFee,
		GrandTotal:  subtotal + s.opts.DeliveryFee,
		PlacedAt:    s.now(),
	}, nil
}

// Format renders the order into the outbound message. Section order and
// labels are fixed; the receiving side reads this text as-is.
func (s *Service) Format(order domain.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*NEW ORDER - %s*\n\n", s.opts.RestaurantName)

	b.WriteString("*🧔 Customer Information:*\n")
	fmt.Fprintf(&b, "• Name: %s\n", order.Customer.Name)
	fmt.Fprintf(&b, "• Phone: %s\n", order.Customer.Phone)
	fmt.Fprintf(&b, "• Address: %s\n", order.Customer.Address)
	if order.Customer.Notes != "" {
		fmt.Fprintf(&b, "• Special Instructions: %s\n", order.Customer.Notes)
	}
	b.WriteString("\n")

	b.WriteString("*📦 Order Details:*\n")
	for i, l := range order.Lines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, l.Name)
		fmt.Fprintf(&b, "   Quantity: %d\n", l.Quantity)
		fmt.Fprintf(&b, "   Price: %d %s × %d = %d %s\n\n", l.UnitPrice, order.Currency, l.Quantity, l.LineTotal, order.Currency)
	}

	b.WriteString("*💰 Order Summary:*\n")
	fmt.Fprintf(&b, "• Subtotal: %d %s\n", order.Subtotal, order.Currency)
	fmt.Fprintf(&b, "• Delivery Fee: %d %s\n", order.DeliveryFee, order.Currency)
	fmt.Fprintf(&b, "• *Grand Total: %d %s*\n\n", order.GrandTotal, order.Currency)

	fmt.Fprintf(&b, "*🕒 Order Time:* %s\n\n", order.PlacedAt.Format("1/2/2006, 3:04:05 PM"))
	fmt.Fprintf(&b, "*Thank you for choosing %s! 🍽️*", s.opts.RestaurantName)

	return b.String()
}

// DirectMessage renders the short no-form variant: the itemized cart plus a
// request for the customer's details, used when checkout is handed off
// without the form.
func (s *Service) DirectMessage(ctx context.Context) (string, error) {
	lines, err := s.cart.Lines(ctx)
	if err != nil {
		return "", fmt.Errorf("read cart: %w", err)
	}
	if len(lines) == 0 {
		return "", ErrEmptyCart
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*New Order from %s*\n\n", s.opts.RestaurantName)
	b.WriteString("*Order Details:*\n")

	var total int64
	for i, l := range lines {
		fmt.Fprintf(&b, "%d. %s - %d × %d %s\n", i+1, l.Name, l.Quantity, l.UnitPrice, s.opts.Currency)
		total += l.UnitPrice * l.Quantity
	}

	fmt.Fprintf(&b, "\n*Total: %d %s*\n\n", total, s.opts.Currency)
	b.WriteString("*Please provide:*\n")
	b.WriteString("- Name\n")
	b.WriteString("- Address\n")
	b.WriteString("- Phone\n")
	b.WriteString("- Special Instructions\n\n")
	fmt.Fprintf(&b, "*Thank you for choosing %s! 🍽️*", s.opts.RestaurantName)

	return b.String(), nil
}

// BuildHandoffLink embeds the message in the messaging deep link. The
// destination is substituted literally, not validated.
func (s *Service) BuildHandoffLink(message, destination string) string {
	return "https://wa.me/" + destination + "?text=" + url.QueryEscape(message)
}
