package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Nicko-rgb/client-ecomerse-sub000/internal/cartstore"
	"github.com/Nicko-rgb/client-ecomerse-sub000/internal/catalog"
	"github.com/Nicko-rgb/client-ecomerse-sub000/internal/checkout"
)

// fakeCatalog is a minimal catalog backend serving three pages of two
// products each, with p3 duplicated across pages 2 and 3.
func fakeCatalog(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products":
			page, _ := strconv.Atoi(r.URL.Query().Get("page"))
			if page < 1 {
				page = 1
			}
			pages := map[int]string{
				1: `{"success":true,"hasMore":true,"data":[{"id":"p1","name":"Mug","price":8.99},{"id":"p2","name":"Vase","price":32}]}`,
				2: `{"success":true,"hasMore":true,"data":[{"id":"p3","name":"Jar","price":5.49},{"id":"p2","name":"Vase","price":32}]}`,
				3: `{"success":true,"hasMore":false,"data":[{"id":"p3","name":"Jar","price":5.49},{"id":"p4","name":"Beanie","price":14.99}]}`,
			}
			fmt.Fprint(w, pages[page])
		case "/products/p1":
			fmt.Fprint(w, `{"success":true,"data":{"id":"p1","name":"Mug","price":8.99}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"success":false,"error":"product not found"}`)
		}
	}))
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	backend := fakeCatalog(t)
	t.Cleanup(backend.Close)

	store := cartstore.NewLocalCartStore(nil)
	fe := &frontendServer{
		log:       log,
		store:     store,
		checkout:  checkout.NewService(store, log),
		catalog:   catalog.NewClient(backend.URL, nil),
		feedLimit: 2,
	}
	srv := httptest.NewServer(ensureSessionID(newRouter(fe)))
	t.Cleanup(srv.Close)
	return srv
}

// call issues a request carrying a fixed session cookie and decodes the
// response envelope.
func call(t *testing.T, srv *httptest.Server, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.AddCookie(&http.Cookie{Name: cookieSessionID, Value: "test-session"})

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return resp.StatusCode, decoded
}

func cartData(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("no data object in response: %v", body)
	}
	return data
}

func TestAddToCartAggregates(t *testing.T) {
	srv := newTestServer(t)

	item := map[string]any{"productId": "p1", "name": "Mug", "price": 20.0}
	call(t, srv, http.MethodPost, "/api/cart/items", item)
	status, body := call(t, srv, http.MethodPost, "/api/cart/items", item)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}

	data := cartData(t, body)
	items := data["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("got %d lines, want 1", len(items))
	}
	line := items[0].(map[string]any)
	if line["quantity"] != float64(2) {
		t.Errorf("quantity = %v, want 2", line["quantity"])
	}
	if data["subtotal"] != float64(40) {
		t.Errorf("subtotal = %v, want 40", data["subtotal"])
	}
	if data["totalItems"] != float64(2) {
		t.Errorf("totalItems = %v, want 2", data["totalItems"])
	}
}

func TestAddToCartValidation(t *testing.T) {
	srv := newTestServer(t)

	status, _ := call(t, srv, http.MethodPost, "/api/cart/items", map[string]any{"price": 5.0})
	if status != http.StatusBadRequest {
		t.Errorf("missing productId: status = %d, want 400", status)
	}
	status, _ = call(t, srv, http.MethodPost, "/api/cart/items", map[string]any{"productId": "p1", "price": -1.0})
	if status != http.StatusBadRequest {
		t.Errorf("negative price: status = %d, want 400", status)
	}
}

func TestCartQuantityEndpoints(t *testing.T) {
	srv := newTestServer(t)

	call(t, srv, http.MethodPost, "/api/cart/items", map[string]any{"productId": "p1", "price": 10.0})
	call(t, srv, http.MethodPost, "/api/cart/items/p1/increment", nil)
	_, body := call(t, srv, http.MethodPut, "/api/cart/items/p1", map[string]any{"quantity": 5})
	data := cartData(t, body)
	if data["subtotal"] != float64(50) {
		t.Errorf("subtotal = %v, want 50", data["subtotal"])
	}

	// Decrementing from 1 removes the line entirely.
	call(t, srv, http.MethodPut, "/api/cart/items/p1", map[string]any{"quantity": 1})
	_, body = call(t, srv, http.MethodPost, "/api/cart/items/p1/decrement", nil)
	data = cartData(t, body)
	if items := data["items"].([]any); len(items) != 0 {
		t.Errorf("got %d lines after decrement-to-zero, want 0", len(items))
	}
}

func TestCheckoutPlacesOrderAndEmptiesCart(t *testing.T) {
	srv := newTestServer(t)

	call(t, srv, http.MethodPost, "/api/cart/items", map[string]any{"productId": "p1", "price": 30.0, "quantity": 2})

	exp := time.Now().AddDate(2, 0, 0)
	order := map[string]any{
		"email": "a@b.c",
		"card": map[string]any{
			"number":          "4432801561520454",
			"cvv":             672,
			"expirationMonth": int(exp.Month()),
			"expirationYear":  exp.Year(),
		},
	}
	status, body := call(t, srv, http.MethodPost, "/api/checkout", order)
	if status != http.StatusOK {
		t.Fatalf("status = %d: %v", status, body)
	}
	data := cartData(t, body)
	quote := data["quote"].(map[string]any)
	if quote["subtotal"] != float64(60) {
		t.Errorf("subtotal = %v, want 60", quote["subtotal"])
	}
	if quote["shipping"] != float64(0) {
		t.Errorf("shipping = %v, want 0", quote["shipping"])
	}
	if quote["total"] != float64(66) {
		t.Errorf("total = %v, want 66", quote["total"])
	}
	if id, _ := data["orderId"].(string); id == "" {
		t.Error("no order id")
	}

	_, body = call(t, srv, http.MethodGet, "/api/cart", nil)
	if items := cartData(t, body)["items"].([]any); len(items) != 0 {
		t.Errorf("cart not emptied after checkout: %d lines", len(items))
	}
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	srv := newTestServer(t)
	status, _ := call(t, srv, http.MethodPost, "/api/checkout", map[string]any{})
	if status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
}

func TestFeedEndpoints(t *testing.T) {
	srv := newTestServer(t)

	_, body := call(t, srv, http.MethodGet, "/api/feed", nil)
	data := cartData(t, body)
	if data["page"] != float64(1) {
		t.Fatalf("page = %v, want 1 after initial view", data["page"])
	}

	// Two load-mores: p2 and p3 repeat across pages and must not duplicate.
	call(t, srv, http.MethodPost, "/api/feed/more", nil)
	_, body = call(t, srv, http.MethodPost, "/api/feed/more", nil)
	data = cartData(t, body)

	items := data["items"].([]any)
	var got []string
	for _, it := range items {
		got = append(got, it.(map[string]any)["id"].(string))
	}
	want := []string{"p1", "p2", "p3", "p4"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("feed items mismatch (-want +got):\n%s", diff)
	}
	if data["hasMore"] != false {
		t.Error("hasMore = true after final page")
	}
	if data["page"] != float64(3) {
		t.Errorf("page = %v, want 3", data["page"])
	}
}

func TestProductProxyNotFound(t *testing.T) {
	srv := newTestServer(t)
	status, body := call(t, srv, http.MethodGet, "/api/products/missing", nil)
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want 404: %v", status, body)
	}
	if body["success"] != false {
		t.Error("success != false for missing product")
	}
}

func TestSessionCookieAssigned(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/api/cart")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == cookieSessionID && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("no session cookie assigned to a fresh client")
	}
}
