package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"storecatalog/internal/inventory/internal/business"
	"storecatalog/internal/inventory/internal/models"
	"storecatalog/pkg/live"
	"storecatalog/pkg/logger"
)

// CatalogObserver - живой запрос всего каталога.
type CatalogObserver interface {
	ObserveAll(ctx context.Context) *live.Subscription[[]models.Product]
}

type ProductHandler struct {
	service  *business.ProductService
	observer CatalogObserver
	currency string
	log      logger.Logger
}

func NewProductHandler(service *business.ProductService, observer CatalogObserver, currency string, log logger.Logger) *ProductHandler {
	return &ProductHandler{service: service, observer: observer, currency: currency, log: log}
}

func (h *ProductHandler) Register(r *mux.Router, _ func(http.Handler) http.Handler) {
	r.HandleFunc("/api/products", h.SearchHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/products/stream", h.StreamHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id}", h.GetProductHandler).Methods(http.MethodGet)
}

type productDetail struct {
	models.Product
	FormattedPrices [4]string `json:"formatted_prices"`
}

func (h *ProductHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.log.Error("Search failed: %v", err)
		http.Error(w, "Failed to fetch products", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, products, h.log)
}

func (h *ProductHandler) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.log.Error("Failed to get product %s: %v", id, err)
		http.Error(w, "Failed to fetch product", http.StatusInternalServerError)
		return
	}
	if product == nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.detail(product), h.log)
}

func (h *ProductHandler) detail(p *models.Product) productDetail {
	d := productDetail{Product: *p}
	for i, price := range p.Prices() {
		d.FormattedPrices[i] = business.FormatMoney(h.currency, price)
	}
	return d
}

// StreamHandler отдаёт живой список товаров как Server-Sent Events: событие products
// сразу при подключении и после каждой синхронизации. Параметр q фильтрует как поиск.
func (h *ProductHandler) StreamHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	query := r.URL.Query().Get("q")

	sub := h.observer.ObserveAll(r.Context())
	defer sub.Cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case products, ok := <-sub.C():
			if !ok {
				return
			}
			payload, err := json.Marshal(h.service.Filter(products, query))
			if err != nil {
				h.log.Error("Failed to encode stream event: %v", err)
				return
			}
			if _, err := fmt.Fprintf(w, "event: products\ndata: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
