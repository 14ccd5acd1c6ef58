package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"storecatalog/internal/inventory/internal/business"
	"storecatalog/pkg/logger"
)

// BarcodeHandler - поиск товара по отсканированному коду.
type BarcodeHandler struct {
	service *business.ProductService
	log     logger.Logger
}

func NewBarcodeHandler(service *business.ProductService, log logger.Logger) *BarcodeHandler {
	return &BarcodeHandler{service: service, log: log}
}

func (h *BarcodeHandler) Register(r *mux.Router, _ func(http.Handler) http.Handler) {
	r.HandleFunc("/api/barcodes/{code}", h.LookupHandler).Methods(http.MethodGet)
}

func (h *BarcodeHandler) LookupHandler(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	product, err := h.service.LookupBarcode(r.Context(), code)
	if err != nil {
		h.log.Error("Barcode lookup failed: %v", err)
		http.Error(w, "Failed to look up barcode", http.StatusInternalServerError)
		return
	}
	if product == nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, product, h.log)
}
