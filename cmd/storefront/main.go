package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Nicko-rgb/client-ecomerse-sub000/internal/cartstore"
	"github.com/Nicko-rgb/client-ecomerse-sub000/internal/catalog"
	"github.com/Nicko-rgb/client-ecomerse-sub000/internal/checkout"
	"github.com/Nicko-rgb/client-ecomerse-sub000/internal/tracing"
)

const (
	defaultPort       = "8080"
	defaultCatalogURL = "http://localhost:3030"
	defaultFeedLimit  = 20
)

var log *logrus.Logger

func init() {
	log = logrus.New()
	log.Level = logrus.DebugLevel
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	log.Out = os.Stdout
}

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	tp, err := tracing.InitTracerProvider(ctx, "storefront")
	if err != nil {
		log.Fatalf("failed to initialize tracer provider: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Errorf("error shutting down tracer provider: %v", err)
		}
	}()

	events := cartstore.NewEvents()
	events.Subscribe(func(ev cartstore.AddedEvent) {
		log.WithFields(logrus.Fields{
			"session":  ev.UserID,
			"product":  ev.ProductID,
			"quantity": ev.Quantity,
		}).Debug("item added to cart")
	})

	store := newCartStore(ctx, events)

	catalogURL := os.Getenv("CATALOG_URL")
	if catalogURL == "" {
		catalogURL = defaultCatalogURL
	}

	fe := &frontendServer{
		log:       log,
		store:     store,
		checkout:  checkout.NewService(store, log),
		catalog:   catalog.NewClient(catalogURL, nil),
		feedLimit: defaultFeedLimit,
	}

	var handler http.Handler = newRouter(fe)
	handler = ensureSessionID(handler)
	handler = &logHandler{log: log, next: handler}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	httpSrv := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Info("received shutdown signal, draining connections...")
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("shutdown error: %v", err)
		}
	}()

	log.Infof("storefront listening on :%s (catalog %s)", port, catalogURL)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("failed to serve: %v", err)
	}
}

// newRouter wires the storefront routes.
func newRouter(fe *frontendServer) *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("storefront"))

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/cart", fe.viewCartHandler).Methods(http.MethodGet)
	api.HandleFunc("/cart", fe.emptyCartHandler).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items", fe.addToCartHandler).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{id}", fe.setQuantityHandler).Methods(http.MethodPut)
	api.HandleFunc("/cart/items/{id}", fe.removeItemHandler).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items/{id}/increment", fe.incrementHandler).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{id}/decrement", fe.decrementHandler).Methods(http.MethodPost)
	api.HandleFunc("/checkout", fe.placeOrderHandler).Methods(http.MethodPost)
	api.HandleFunc("/products", fe.listProductsHandler).Methods(http.MethodGet)
	api.HandleFunc("/products/featured", fe.featuredHandler).Methods(http.MethodGet)
	api.HandleFunc("/products/categories", fe.categoriesHandler).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", fe.productHandler).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}/related", fe.relatedHandler).Methods(http.MethodGet)
	api.HandleFunc("/feed", fe.viewFeedHandler).Methods(http.MethodGet)
	api.HandleFunc("/feed/filters", fe.feedFiltersHandler).Methods(http.MethodPost)
	api.HandleFunc("/feed/refresh", fe.feedRefreshHandler).Methods(http.MethodPost)
	api.HandleFunc("/feed/more", fe.feedMoreHandler).Methods(http.MethodPost)
	r.HandleFunc("/healthz", fe.healthHandler).Methods(http.MethodGet)
	return r
}

// newCartStore selects the Redis-backed store when REDIS_ADDR is set and
// the in-memory store otherwise.
func newCartStore(ctx context.Context, events *cartstore.Events) cartstore.ICartStore {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		log.Info("using in-memory cart store")
		store := cartstore.NewLocalCartStore(events)
		if err := store.Initialize(ctx); err != nil {
			log.Fatalf("failed to initialize cart store: %v", err)
		}
		return store
	}

	if !strings.Contains(redisAddr, ":") && !strings.HasPrefix(redisAddr, "redis://") {
		redisAddr += ":6379"
	}
	log.Infof("using Redis cart store at %s", redisAddr)
	store, err := cartstore.NewRedisCartStore(redisAddr, log, events)
	if err != nil {
		log.Fatalf("failed to create Redis cart store: %v", err)
	}
	if err := store.Initialize(ctx); err != nil {
		log.Fatalf("failed to initialize Redis cart store: %v", err)
	}
	return store
}
