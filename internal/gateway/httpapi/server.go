// Package httpapi binds the inbound UI events to the cart and checkout
// services over a JSON API. It is the only rendering-technology-facing
// surface; the services never see HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	checkoutdomain "github.com/dwikikusuma/storefront/internal/checkout/domain"
)

// CartService is the narrow slice of the cart store the handlers need.
type CartService interface {
	Add(ctx context.Context, name string, unitPrice int64) (cartdomain.LineItem, error)
	Remove(ctx context.Context, id string) error
	UpdateQuantity(ctx context.Context, id string, delta int64) error
	Clear(ctx context.Context)
	Snapshot() cartdomain.Snapshot
}

// CheckoutFlow is the narrow slice of the checkout flow the handlers need.
type CheckoutFlow interface {
	Open(ctx context.Context) error
	Cancel()
	Submit(ctx context.Context, customer checkoutdomain.CustomerInfo) (checkoutapp.Result, error)
	Direct(ctx context.Context) (checkoutapp.Result, error)
	State() checkoutapp.State
}

type Handler struct {
	cart CartService
	flow CheckoutFlow
	log  *slog.Logger
}

func NewHandler(cart CartService, flow CheckoutFlow, log *slog.Logger) *Handler {
	return &Handler{cart: cart, flow: flow, log: log}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/api", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.getCart)
			r.Delete("/", h.clearCart)
			r.Post("/items", h.addItem)
			r.Patch("/items/{id}", h.updateQuantity)
			r.Delete("/items/{id}", h.removeItem)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/open", h.openCheckout)
			r.Post("/cancel", h.cancelCheckout)
			r.Post("/submit", h.submitCheckout)
			r.Post("/direct", h.directCheckout)
			r.Get("/state", h.checkoutState)
		})
	})

	return r
}

type addItemRequest struct {
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
}

type updateQuantityRequest struct {
	Delta int64 `json:"delta"`
}

type submitRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type fieldErrorJSON struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type submitResponse struct {
	HandoffURL string `json:"handoff_url"`
	Message    string `json:"message"`
	GrandTotal int64  `json:"grand_total"`
	PlacedAt   string `json:"placed_at"`
	ItemCount  int    `json:"item_count"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cart.Snapshot())
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(r.Context())
	writeJSON(w, http.StatusOK, h.cart.Snapshot())
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body")
		return
	}

	if _, err := h.cart.Add(r.Context(), req.Name, req.UnitPrice); err != nil {
		status, code := httpStatusFromErr(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.cart.Snapshot())
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body")
		return
	}

	if err := h.cart.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), req.Delta); err != nil {
		status, code := httpStatusFromErr(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.cart.Snapshot())
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		status, code := httpStatusFromErr(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.cart.Snapshot())
}

func (h *Handler) openCheckout(w http.ResponseWriter, r *http.Request) {
	if err := h.flow.Open(r.Context()); err != nil {
		status, code := httpStatusFromErr(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state": h.flow.State(),
		"cart":  h.cart.Snapshot(),
	})
}

func (h *Handler) cancelCheckout(w http.ResponseWriter, r *http.Request) {
	h.flow.Cancel()
	writeJSON(w, http.StatusOK, map[string]any{"state": h.flow.State()})
}

func (h *Handler) submitCheckout(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body")
		return
	}

	customer := checkoutdomain.CustomerInfo{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	}

	result, err := h.flow.Submit(r.Context(), customer)
	if err != nil {
		if errors.Is(err, checkoutapp.ErrInvalidForm) {
			fieldErrs := make([]fieldErrorJSON, 0, len(result.Fields))
			for _, fr := range result.Fields {
				if fr.State == checkoutdomain.FieldInvalid {
					fieldErrs = append(fieldErrs, fieldErrorJSON{Field: fr.Field, Message: fr.Reason})
				}
			}
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":        "VALIDATION_FAILED",
				"field_errors": fieldErrs,
			})
			return
		}
		h.log.Error("checkout submit failed", slog.Any("err", err))
		status, code := httpStatusFromErr(err)
		writeError(w, status, code, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		HandoffURL: result.HandoffURL,
		Message:    result.Message,
		GrandTotal: result.Order.GrandTotal,
		PlacedAt:   result.Order.PlacedAt.Format("2006-01-02T15:04:05Z07:00"),
		ItemCount:  len(result.Order.Lines),
	})
}

func (h *Handler) directCheckout(w http.ResponseWriter, r *http.Request) {
	result, err := h.flow.Direct(r.Context())
	if err != nil {
		status, code := httpStatusFromErr(err)
		writeError(w, status, code, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"handoff_url": result.HandoffURL,
		"message":     result.Message,
	})
}

func (h *Handler) checkoutState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"state": h.flow.State()})
}

// httpStatusFromErr translates service errors into HTTP status codes and
// stable error codes.
func httpStatusFromErr(err error) (int, string) {
	switch {
	case errors.Is(err, cartapp.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_ARGUMENT"
	case errors.Is(err, cartapp.ErrItemNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, checkoutapp.ErrEmptyCart):
		return http.StatusConflict, "EMPTY_CART"
	case errors.Is(err, checkoutapp.ErrNotOpen):
		return http.StatusConflict, "CHECKOUT_NOT_OPEN"
	case errors.Is(err, checkoutapp.ErrAlreadyOpen):
		return http.StatusConflict, "CHECKOUT_ALREADY_OPEN"
	case errors.Is(err, checkoutapp.ErrInvalidForm):
		return http.StatusUnprocessableEntity, "VALIDATION_FAILED"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error":   code,
		"message": message,
	})
}
