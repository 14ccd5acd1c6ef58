package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"storecatalog/pkg/logger"
)

// Handler регистрирует свои маршруты. protect оборачивает административные маршруты.
type Handler interface {
	Register(r *mux.Router, protect func(http.Handler) http.Handler)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, log logger.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response: %v", err)
	}
}
