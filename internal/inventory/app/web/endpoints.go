package web

import (
	"net/http"

	"github.com/gorilla/mux"
	"storecatalog/internal/inventory/app/web/handlers"
	"storecatalog/metrics"
	"storecatalog/pkg/middleware"
)

// SetupRoutes собирает роутер API. protect оборачивает административные маршруты (синхронизация).
func SetupRoutes(protect func(http.Handler) http.Handler, hs ...handlers.Handler) *mux.Router {
	if protect == nil {
		protect = func(next http.Handler) http.Handler { return next }
	}

	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMiddleware(routeName))

	for _, h := range hs {
		h.Register(r, protect)
	}
	r.Handle("/metrics", metrics.MetricsHandler()).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})
	return r
}

// routeName - шаблон маршрута вместо пути, чтобы id и штрихкоды не попадали в метки.
func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
