package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Nicko-rgb/client-ecomerse-sub000/internal/catalog"
)

// listResponse is the envelope for paginated product lists.
type listResponse struct {
	Success bool              `json:"success"`
	Data    []catalog.Product `json:"data"`
	HasMore bool              `json:"hasMore"`
}

// dataResponse is the envelope for every non-paginated payload.
type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type server struct {
	catalog *productCatalog
}

func (s *server) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	products, hasMore := s.catalog.List(q.Get("category"), q.Get("search"), page, limit)
	writeJSON(w, http.StatusOK, listResponse{Success: true, Data: products, HasMore: hasMore})
}

func (s *server) featuredHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: s.catalog.Featured()})
}

func (s *server) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: s.catalog.Categories()})
}

func (s *server) getProductHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	product, ok := s.catalog.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "product not found"})
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: product})
}

func (s *server) relatedHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	related, ok := s.catalog.Related(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "product not found"})
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: related})
}

func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}
