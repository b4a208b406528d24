package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Nicko-rgb/client-ecomerse-sub000/internal/tracing"
)

const (
	defaultPort        = "3030"
	defaultCatalogFile = "data/products.json"
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

	tp, err := tracing.InitTracerProvider(ctx, "catalogapi")
	if err != nil {
		log.Fatalf("failed to initialize tracer provider: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Errorf("error shutting down tracer provider: %v", err)
		}
	}()

	catalogFile := os.Getenv("CATALOG_FILE")
	if catalogFile == "" {
		catalogFile = defaultCatalogFile
	}
	loaded, err := loadCatalog(catalogFile)
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}
	log.Infof("loaded catalog from %s", catalogFile)

	srv := &server{catalog: loaded}

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("catalogapi"))
	r.HandleFunc("/products", srv.listProductsHandler).Methods(http.MethodGet)
	r.HandleFunc("/products/featured", srv.featuredHandler).Methods(http.MethodGet)
	r.HandleFunc("/products/categories", srv.categoriesHandler).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", srv.getProductHandler).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}/related", srv.relatedHandler).Methods(http.MethodGet)
	r.HandleFunc("/healthz", srv.healthHandler).Methods(http.MethodGet)

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	httpSrv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
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

	log.Infof("catalogapi listening on :%s", port)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("failed to serve: %v", err)
	}
}
