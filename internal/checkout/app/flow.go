package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dwikikusuma/storefront/internal/checkout/domain"
)

type State string

const (
	StateIdle       State = "idle"
	StateOpen       State = "open"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
)

const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// Presenter receives the checkout flow's outbound UI signals. An empty
// FieldError message clears the field's error.
type Presenter interface {
	Notify(message, kind string)
	FieldError(field, message string)
	StateChanged(state State)
}

var (
	ErrNotOpen     = errors.New("checkout is not open")
	ErrAlreadyOpen = errors.New("checkout is already open")
	ErrInvalidForm = errors.New("form validation failed")
)

// Result is what a successful submission hands back: the composed order,
// its rendered message, and the deep link to open. On validation failure
// only Fields is populated.
type Result struct {
	Order      domain.Order
	Message    string
	HandoffURL string
	Fields     []domain.FieldResult
}

// Flow drives the checkout state machine:
//
//	Idle -> Open -> Submitting -> Success -> Idle
//	               \-> Open (validation failure)
//
// Cancel from Open discards the draft without touching the cart.
type Flow struct {
	mu        sync.Mutex
	state     State
	validator *Validator

	composer *Service
	cart     CartGateway
	pres     Presenter
	log      *slog.Logger
}

func NewFlow(composer *Service, cart CartGateway, pres Presenter, log *slog.Logger) *Flow {
	return &Flow{
		state:     StateIdle,
		validator: NewValidator(),
		composer:  composer,
		cart:      cart,
		pres:      pres,
		log:       log,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Open moves Idle to Open. An empty cart aborts before any state change.
func (f *Flow) Open(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateIdle {
		return ErrAlreadyOpen
	}

	lines, err := f.cart.Lines(ctx)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		f.pres.Notify("Your cart is empty!", NoticeError)
		return ErrEmptyCart
	}

	f.setState(StateOpen)
	return nil
}

// Cancel discards the draft form state and returns to Idle. The cart is
// never touched. A cancel while Idle is a no-op.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateIdle {
		return
	}
	f.validator.Reset()
	f.setState(StateIdle)
}

// FieldBlur validates a single field when it loses focus and surfaces the
// result.
func (f *Flow) FieldBlur(field, value string) domain.FieldResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	res := f.validator.Blur(field, value)
	if res.State == domain.FieldInvalid {
		f.pres.FieldError(field, res.Reason)
	} else {
		f.pres.FieldError(field, "")
	}
	return res
}

// FieldInput clears a field's error state on the next keystroke.
func (f *Flow) FieldInput(field string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.validator.Input(field)
	f.pres.FieldError(field, "")
}

// Submit validates the whole form, composes the order, builds the hand-off
// link and clears the cart. Validation failure returns to Open with every
// field error surfaced; the cart is untouched.
func (f *Flow) Submit(ctx context.Context, customer domain.CustomerInfo) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateOpen {
		return Result{}, ErrNotOpen
	}

	results, ok := f.validator.ValidateForm(customer)
	for _, res := range results {
		if res.State == domain.FieldInvalid {
			f.pres.FieldError(res.Field, res.Reason)
		} else {
			f.pres.FieldError(res.Field, "")
		}
	}
	if !ok {
		f.pres.Notify("Please fill all required fields correctly", NoticeError)
		return Result{Fields: results}, ErrInvalidForm
	}

	f.setState(StateSubmitting)

	order, err := f.composer.Compose(ctx, customer)
	if err != nil {
		f.setState(StateOpen)
		if errors.Is(err, ErrEmptyCart) {
			f.pres.Notify("Your cart is empty!", NoticeError)
		}
		return Result{}, err
	}

	message := f.composer.Format(order)
	link := f.composer.BuildHandoffLink(message, f.composer.Options().DestinationContact)

	if err := f.cart.Clear(ctx); err != nil {
		f.log.Error("clear cart after checkout", slog.Any("err", err))
	}

	f.setState(StateSuccess)
	f.pres.Notify("Order placed successfully! We will contact you soon.", NoticeSuccess)

	f.validator.Reset()
	f.setState(StateIdle)

	return Result{Order: order, Message: message, HandoffURL: link}, nil
}

// Direct is the no-form hand-off: it renders the short cart-only message,
// builds the deep link and clears the cart, without ever opening the form.
// Only available while the flow is Idle.
func (f *Flow) Direct(ctx context.Context) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateIdle {
		return Result{}, ErrAlreadyOpen
	}

	message, err := f.composer.DirectMessage(ctx)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			f.pres.Notify("Your cart is empty!", NoticeError)
		}
		return Result{}, err
	}

	link := f.composer.BuildHandoffLink(message, f.composer.Options().DestinationContact)

	if err := f.cart.Clear(ctx); err != nil {
		f.log.Error("clear cart after checkout", slog.Any("err", err))
	}
	f.pres.Notify("Redirecting to WhatsApp...", NoticeSuccess)

	return Result{Message: message, HandoffURL: link}, nil
}

func (f *Flow) setState(state State) {
	f.state = state
	f.pres.StateChanged(state)
}
