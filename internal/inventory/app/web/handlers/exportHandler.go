package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"storecatalog/internal/inventory/internal/business"
	"storecatalog/internal/inventory/internal/models"
	"storecatalog/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CatalogReader interface {
	GetAll(ctx context.Context) ([]models.Product, error)
}

type ExportHandler struct {
	store CatalogReader
	log   logger.Logger
}

func NewExportHandler(store CatalogReader, log logger.Logger) *ExportHandler {
	return &ExportHandler{store: store, log: log}
}

func (h *ExportHandler) Register(r *mux.Router, _ func(http.Handler) http.Handler) {
	r.HandleFunc("/api/export.xlsx", h.ExportHandler).Methods(http.MethodGet)
}

func (h *ExportHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	products, err := h.store.GetAll(r.Context())
	if err != nil {
		h.log.Error("Export failed: %v", err)
		http.Error(w, "Failed to fetch products", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := business.ExportProducts(&buf, products); err != nil {
		h.log.Error("Export failed: %v", err)
		http.Error(w, "Failed to build workbook", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("catalog-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Error("Failed to send export: %v", err)
		return
	}
	h.log.Log("Exported %d products in %v", len(products), time.Since(startTime))
}
