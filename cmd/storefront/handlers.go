package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Nicko-rgb/client-ecomerse-sub000/internal/cartstore"
	"github.com/Nicko-rgb/client-ecomerse-sub000/internal/catalog"
	"github.com/Nicko-rgb/client-ecomerse-sub000/internal/checkout"
	"github.com/Nicko-rgb/client-ecomerse-sub000/internal/feed"
)

// frontendServer holds the collaborators behind the storefront API.
type frontendServer struct {
	log      *logrus.Logger
	store    cartstore.ICartStore
	checkout *checkout.Service
	catalog  *catalog.Client

	feedLimit int
	feeds     sync.Map // session id -> *feed.Controller
}

// cartView is the cart plus its derived totals, as rendered to clients.
type cartView struct {
	Items      []*cartstore.CartItem `json:"items"`
	Subtotal   float64               `json:"subtotal"`
	TotalItems int                   `json:"totalItems"`
	Quote      checkout.Quote        `json:"quote"`
}

// addItemRequest is the payload of POST /api/cart/items. Quantity
// defaults to 1 when omitted.
type addItemRequest struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

func (fe *frontendServer) viewCartHandler(w http.ResponseWriter, r *http.Request) {
	cart, err := fe.store.GetCart(r.Context(), sessionID(r.Context()))
	if err != nil {
		fe.renderError(w, r, http.StatusInternalServerError, errors.Wrap(err, "could not retrieve cart"))
		return
	}
	fe.renderData(w, cartView{
		Items:      cart.Items,
		Subtotal:   cart.Subtotal(),
		TotalItems: cart.TotalItems(),
		Quote:      checkout.NewQuote(cart.Subtotal()),
	})
}

func (fe *frontendServer) addToCartHandler(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fe.renderError(w, r, http.StatusBadRequest, errors.Wrap(err, "invalid request body"))
		return
	}
	if req.ProductID == "" {
		fe.renderError(w, r, http.StatusBadRequest, errors.New("productId is required"))
		return
	}
	if req.Price < 0 {
		fe.renderError(w, r, http.StatusBadRequest, errors.New("price must not be negative"))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		fe.renderError(w, r, http.StatusBadRequest, errors.New("quantity must be positive"))
		return
	}

	item := cartstore.CartItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		Image:     req.Image,
		Category:  req.Category,
		Price:     req.Price,
		Quantity:  req.Quantity,
	}
	if err := fe.store.AddItem(r.Context(), sessionID(r.Context()), item); err != nil {
		fe.renderError(w, r, http.StatusInternalServerError, errors.Wrap(err, "could not add to cart"))
		return
	}
	fe.viewCartHandler(w, r)
}

func (fe *frontendServer) setQuantityHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fe.renderError(w, r, http.StatusBadRequest, errors.Wrap(err, "invalid request body"))
		return
	}
	productID := mux.Vars(r)["id"]
	if err := fe.store.SetQuantity(r.Context(), sessionID(r.Context()), productID, req.Quantity); err != nil {
		fe.renderError(w, r, http.StatusInternalServerError, errors.Wrap(err, "could not update quantity"))
		return
	}
	fe.viewCartHandler(w, r)
}

func (fe *frontendServer) incrementHandler(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]
	if err := fe.store.IncrementQuantity(r.Context(), sessionID(r.Context()), productID); err != nil {
		fe.renderError(w, r, http.StatusInternalServerError, errors.Wrap(err, "could not increment quantity"))
		return
	}
	fe.viewCartHandler(w, r)
}

func (fe *frontendServer) decrementHandler(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]
	if err := fe.store.DecrementQuantity(r.Context(), sessionID(r.Context()), productID); err != nil {
		fe.renderError(w, r, http.StatusInternalServerError, errors.Wrap(err, "could not decrement quantity"))
		return
	}
	fe.viewCartHandler(w, r)
}

func (fe *frontendServer) removeItemHandler(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]
	if err := fe.store.RemoveItem(r.Context(), sessionID(r.Context()), productID); err != nil {
		fe.renderError(w, r, http.StatusInternalServerError, errors.Wrap(err, "could not remove item"))
		return
	}
	fe.viewCartHandler(w, r)
}

func (fe *frontendServer) emptyCartHandler(w http.ResponseWriter, r *http.Request) {
	if err := fe.store.EmptyCart(r.Context(), sessionID(r.Context())); err != nil {
		fe.renderError(w, r, http.StatusInternalServerError, errors.Wrap(err, "could not empty cart"))
		return
	}
	fe.viewCartHandler(w, r)
}

func (fe *frontendServer) placeOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req checkout.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fe.renderError(w, r, http.StatusBadRequest, errors.Wrap(err, "invalid request body"))
		return
	}
	order, err := fe.checkout.PlaceOrder(r.Context(), sessionID(r.Context()), req)
	if err == checkout.ErrEmptyCart {
		fe.renderError(w, r, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		fe.renderError(w, r, http.StatusBadRequest, errors.Wrap(err, "failed to place order"))
		return
	}
	fe.renderData(w, order)
}

func (fe *frontendServer) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	products, hasMore, err := fe.catalog.List(r.Context(), catalog.ListParams{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		fe.renderError(w, r, http.StatusBadGateway, errors.Wrap(err, "could not retrieve products"))
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Data: products, HasMore: hasMore})
}

func (fe *frontendServer) featuredHandler(w http.ResponseWriter, r *http.Request) {
	products, err := fe.catalog.Featured(r.Context())
	if err != nil {
		fe.renderError(w, r, http.StatusBadGateway, errors.Wrap(err, "could not retrieve featured products"))
		return
	}
	fe.renderData(w, products)
}

func (fe *frontendServer) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := fe.catalog.Categories(r.Context())
	if err != nil {
		fe.renderError(w, r, http.StatusBadGateway, errors.Wrap(err, "could not retrieve categories"))
		return
	}
	fe.renderData(w, categories)
}

func (fe *frontendServer) productHandler(w http.ResponseWriter, r *http.Request) {
	product, err := fe.catalog.Get(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, catalog.ErrNotFound) {
		fe.renderError(w, r, http.StatusNotFound, err)
		return
	}
	if err != nil {
		fe.renderError(w, r, http.StatusBadGateway, errors.Wrap(err, "could not retrieve product"))
		return
	}
	fe.renderData(w, product)
}

func (fe *frontendServer) relatedHandler(w http.ResponseWriter, r *http.Request) {
	products, err := fe.catalog.Related(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, catalog.ErrNotFound) {
		fe.renderError(w, r, http.StatusNotFound, err)
		return
	}
	if err != nil {
		fe.renderError(w, r, http.StatusBadGateway, errors.Wrap(err, "could not retrieve related products"))
		return
	}
	fe.renderData(w, products)
}

// feedFor returns the session's feed controller, creating it on first use.
// Controllers are disposable; an eviction pass is unnecessary at this
// scale because they hold one page slice each.
func (fe *frontendServer) feedFor(session string) *feed.Controller {
	if v, ok := fe.feeds.Load(session); ok {
		return v.(*feed.Controller)
	}
	c := feed.NewController(&feed.CatalogFetcher{Client: fe.catalog}, fe.feedLimit)
	actual, _ := fe.feeds.LoadOrStore(session, c)
	return actual.(*feed.Controller)
}

func (fe *frontendServer) viewFeedHandler(w http.ResponseWriter, r *http.Request) {
	c := fe.feedFor(sessionID(r.Context()))
	if c.State().Page == 0 {
		c.Load(r.Context())
	}
	fe.renderData(w, c.State())
}

func (fe *frontendServer) feedFiltersHandler(w http.ResponseWriter, r *http.Request) {
	var filters feed.Filters
	if err := json.NewDecoder(r.Body).Decode(&filters); err != nil {
		fe.renderError(w, r, http.StatusBadRequest, errors.Wrap(err, "invalid request body"))
		return
	}
	c := fe.feedFor(sessionID(r.Context()))
	c.SetFilters(r.Context(), filters)
	fe.renderData(w, c.State())
}

// feedRefreshHandler refreshes with the current filters, or with an
// override when the request carries a filter body.
func (fe *frontendServer) feedRefreshHandler(w http.ResponseWriter, r *http.Request) {
	c := fe.feedFor(sessionID(r.Context()))

	var filters feed.Filters
	if err := json.NewDecoder(r.Body).Decode(&filters); err == nil {
		c.RefreshWith(r.Context(), filters)
	} else {
		c.Refresh(r.Context())
	}
	fe.renderData(w, c.State())
}

func (fe *frontendServer) feedMoreHandler(w http.ResponseWriter, r *http.Request) {
	c := fe.feedFor(sessionID(r.Context()))
	c.LoadMore(r.Context())
	fe.renderData(w, c.State())
}

func (fe *frontendServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	if !fe.store.Ping(r.Context()) {
		fe.renderError(w, r, http.StatusServiceUnavailable, errors.New("cart store unavailable"))
		return
	}
	fe.renderData(w, "ok")
}

func (fe *frontendServer) renderData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: data})
}

func (fe *frontendServer) renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	fe.log.WithFields(logrus.Fields{
		"http.req.path": r.URL.Path,
		"status":        status,
	}).Warnf("request failed: %v", err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// Response envelopes shared with the catalog API.
type listResponse struct {
	Success bool              `json:"success"`
	Data    []catalog.Product `json:"data"`
	HasMore bool              `json:"hasMore"`
}

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
