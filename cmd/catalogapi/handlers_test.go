package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func testRouter() *mux.Router {
	srv := &server{catalog: testCatalog()}
	r := mux.NewRouter()
	r.HandleFunc("/products", srv.listProductsHandler).Methods(http.MethodGet)
	r.HandleFunc("/products/featured", srv.featuredHandler).Methods(http.MethodGet)
	r.HandleFunc("/products/categories", srv.categoriesHandler).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", srv.getProductHandler).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}/related", srv.relatedHandler).Methods(http.MethodGet)
	return r
}

func doRequest(t *testing.T, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return rec, body
}

func TestListProductsEnvelope(t *testing.T) {
	rec, body := doRequest(t, "/products?page=1&limit=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["success"] != true {
		t.Error("success != true")
	}
	if body["hasMore"] != true {
		t.Error("hasMore != true for first of three pages")
	}
	data, ok := body["data"].([]any)
	if !ok || len(data) != 2 {
		t.Errorf("data = %v, want 2 products", body["data"])
	}
}

func TestGetProductNotFoundEnvelope(t *testing.T) {
	rec, body := doRequest(t, "/products/missing")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body["success"] != false {
		t.Error("success != false on unknown id")
	}
	if body["error"] != "product not found" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestFeaturedRouteNotShadowedByID(t *testing.T) {
	// "featured" must hit the featured handler, not be treated as an id.
	rec, body := doRequest(t, "/products/featured")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data, ok := body["data"].([]any)
	if !ok || len(data) != 1 {
		t.Errorf("data = %v, want the single featured product", body["data"])
	}
}

func TestRelatedEnvelope(t *testing.T) {
	rec, body := doRequest(t, "/products/p4/related")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := body["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("data = %v, want one related product", data)
	}
	first := data[0].(map[string]any)
	if first["id"] != "p5" {
		t.Errorf("related id = %v, want p5", first["id"])
	}
}
