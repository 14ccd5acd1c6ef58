package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"storecatalog/metrics"
)

// responseWriter оборачивает http.ResponseWriter для сохранения кода ответа.
type responseWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader перехватывает вызов WriteHeader, сохраняя код ответа.
func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush нужен SSE-обработчикам за этим middleware.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// PrometheusMiddleware оборачивает HTTP-обработчик для сбора метрик.
// Метка endpoint берётся из routeName, чтобы id и штрихкоды не раздували кардинальность.
func PrometheusMiddleware(routeName func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK} // По умолчанию статус 200

			next.ServeHTTP(rw, r)

			endpoint := r.URL.Path
			if routeName != nil {
				endpoint = routeName(r)
			}
			metrics.RecordRequest(r.Method, endpoint, rw.status, time.Since(start))
		})
	}
}

const RequestIDHeader = "X-Request-ID"

// RequestID проставляет X-Request-ID, если клиент его не прислал.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
