package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	"github.com/dwikikusuma/storefront/internal/checkout/infra/adapter"
	"github.com/dwikikusuma/storefront/internal/gateway/display"
)

type memStore struct {
	items []cartdomain.LineItem
}

func (m *memStore) Save(_ context.Context, items []cartdomain.LineItem) error {
	m.items = append([]cartdomain.LineItem(nil), items...)
	return nil
}

func (m *memStore) Load(_ context.Context) ([]cartdomain.LineItem, error) {
	return m.items, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer := display.New(log)

	cart := cartapp.NewService(&memStore{}, renderer, renderer, log)
	gateway := adapter.NewCartServiceGateway(cart)
	composer := checkoutapp.NewService(gateway, checkoutapp.Options{
		RestaurantName:     "Levant House",
		Currency:           "EGP",
		DestinationContact: "+201279102786",
		DeliveryFee:        15,
	})
	flow := checkoutapp.NewFlow(composer, gateway, renderer, log)

	srv := httptest.NewServer(NewHandler(cart, flow, log).Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCartEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/cart/items", map[string]any{"name": "Hummus", "unit_price": 50})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decode[cartdomain.Snapshot](t, resp)
	require.Len(t, snap.Items, 1)
	require.Equal(t, int64(50), snap.TotalPrice)

	resp = postJSON(t, srv.URL+"/api/cart/items", map[string]any{"name": "Hummus", "unit_price": 50})
	snap = decode[cartdomain.Snapshot](t, resp)
	require.Len(t, snap.Items, 1)
	require.Equal(t, int64(2), snap.Items[0].Quantity)

	id := snap.Items[0].ID

	req, err := http.NewRequest(http.MethodPatch, srv.URL+"/api/cart/items/"+id, bytes.NewReader([]byte(`{"delta":-1}`)))
	require.NoError(t, err)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	snap = decode[cartdomain.Snapshot](t, resp2)
	require.Equal(t, int64(1), snap.Items[0].Quantity)

	req, err = http.NewRequest(http.MethodDelete, srv.URL+"/api/cart/items/"+id, nil)
	require.NoError(t, err)
	resp3, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	snap = decode[cartdomain.Snapshot](t, resp3)
	require.Empty(t, snap.Items)
}

func TestUnknownItemIDReturnsNotFound(t *testing.T) {
	srv := newTestServer(t)

	postJSON(t, srv.URL+"/api/cart/items", map[string]any{"name": "Hummus", "unit_price": 50}).Body.Close()

	req, err := http.NewRequest(http.MethodPatch, srv.URL+"/api/cart/items/no-such-id", bytes.NewReader([]byte(`{"delta":1}`)))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	require.Equal(t, "NOT_FOUND", body["error"])

	req, err = http.NewRequest(http.MethodDelete, srv.URL+"/api/cart/items/no-such-id", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// the miss left the cart alone
	resp2, err := http.Get(srv.URL + "/api/cart")
	require.NoError(t, err)
	snap := decode[cartdomain.Snapshot](t, resp2)
	require.Len(t, snap.Items, 1)
}

func TestAddItemRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/cart/items", map[string]any{"name": "", "unit_price": 50})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/cart/items", map[string]any{"name": "Hummus", "unit_price": -1})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCheckoutOpenEmptyCart(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/checkout/open", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	require.Equal(t, "EMPTY_CART", body["error"])
}

func TestCheckoutSubmitValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	postJSON(t, srv.URL+"/api/cart/items", map[string]any{"name": "Hummus", "unit_price": 50}).Body.Close()
	postJSON(t, srv.URL+"/api/checkout/open", nil).Body.Close()

	resp := postJSON(t, srv.URL+"/api/checkout/submit", map[string]any{"phone": "123"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decode[struct {
		Error       string           `json:"error"`
		FieldErrors []fieldErrorJSON `json:"field_errors"`
	}](t, resp)
	require.Equal(t, "VALIDATION_FAILED", body.Error)
	require.Len(t, body.FieldErrors, 3)

	// cart untouched by a failed submit
	resp2, err := http.Get(srv.URL + "/api/cart")
	require.NoError(t, err)
	snap := decode[cartdomain.Snapshot](t, resp2)
	require.Len(t, snap.Items, 1)
}

func TestCheckoutHappyPath(t *testing.T) {
	srv := newTestServer(t)

	postJSON(t, srv.URL+"/api/cart/items", map[string]any{"name": "Hummus", "unit_price": 50}).Body.Close()
	postJSON(t, srv.URL+"/api/cart/items", map[string]any{"name": "Hummus", "unit_price": 50}).Body.Close()
	postJSON(t, srv.URL+"/api/cart/items", map[string]any{"name": "Kibbeh", "unit_price": 80}).Body.Close()
	postJSON(t, srv.URL+"/api/checkout/open", nil).Body.Close()

	resp := postJSON(t, srv.URL+"/api/checkout/submit", map[string]any{
		"name":    "Amina Khalil",
		"phone":   "+20 127 910 2786",
		"address": "12 Tahrir Sq, Cairo",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[submitResponse](t, resp)
	require.Equal(t, int64(195), body.GrandTotal)
	require.Equal(t, 2, body.ItemCount)
	require.Contains(t, body.HandoffURL, "https://wa.me/+201279102786?text=")

	resp2, err := http.Get(srv.URL + "/api/cart")
	require.NoError(t, err)
	snap := decode[cartdomain.Snapshot](t, resp2)
	require.Empty(t, snap.Items)
}

func TestDirectCheckout(t *testing.T) {
	srv := newTestServer(t)

	postJSON(t, srv.URL+"/api/cart/items", map[string]any{"name": "Hummus", "unit_price": 50}).Body.Close()

	resp := postJSON(t, srv.URL+"/api/checkout/direct", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	require.Contains(t, body["handoff_url"], "https://wa.me/+201279102786?text=")
	require.Contains(t, body["message"], "*Please provide:*")

	resp2, err := http.Get(srv.URL + "/api/cart")
	require.NoError(t, err)
	snap := decode[cartdomain.Snapshot](t, resp2)
	require.Empty(t, snap.Items)
}

func TestDirectCheckoutEmptyCart(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/checkout/direct", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	require.Equal(t, "EMPTY_CART", body["error"])
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
