package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"storecatalog/pkg/logger"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db  Pinger
	log logger.Logger
}

func NewHealthHandler(db Pinger, log logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

func (h *HealthHandler) Register(r *mux.Router, _ func(http.Handler) http.Handler) {
	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
}

func (h *HealthHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.log.Warn("Health check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}, h.log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.log)
}
