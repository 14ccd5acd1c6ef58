package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"storecatalog/internal/inventory/internal/business"
	"storecatalog/internal/inventory/internal/models"
	"storecatalog/metrics"
	"storecatalog/pkg/logger"
)

type SyncHandler struct {
	service *business.SyncService
	// baseCtx живёт дольше запроса: фоновый прогон не должен обрываться вместе с ответом 202.
	baseCtx context.Context
	log     logger.Logger
}

func NewSyncHandler(baseCtx context.Context, service *business.SyncService, log logger.Logger) *SyncHandler {
	return &SyncHandler{service: service, baseCtx: baseCtx, log: log}
}

func (h *SyncHandler) Register(r *mux.Router, protect func(http.Handler) http.Handler) {
	r.HandleFunc("/api/sync", h.StatusHandler).Methods(http.MethodGet)
	r.Handle("/api/sync", protect(http.HandlerFunc(h.StartHandler))).Methods(http.MethodPost)
	r.Handle("/api/sync/error", protect(http.HandlerFunc(h.ClearErrorHandler))).Methods(http.MethodDelete)
}

type syncStatusResponse struct {
	models.SyncStatus
	Metrics metrics.SyncMetricsSnapshot `json:"metrics"`
}

func (h *SyncHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, syncStatusResponse{
		SyncStatus: h.service.Status(),
		Metrics:    h.service.Metrics(),
	}, h.log)
}

func (h *SyncHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.TryStart(h.baseCtx); err != nil {
		if errors.Is(err, business.ErrSyncInProgress) {
			writeJSON(w, http.StatusConflict, h.service.Status(), h.log)
			return
		}
		http.Error(w, "Failed to start sync", http.StatusInternalServerError)
		return
	}
	h.log.Log("Sync requested by %s", r.RemoteAddr)
	writeJSON(w, http.StatusAccepted, h.service.Status(), h.log)
}

func (h *SyncHandler) ClearErrorHandler(w http.ResponseWriter, r *http.Request) {
	h.service.ClearError()
	w.WriteHeader(http.StatusNoContent)
}
