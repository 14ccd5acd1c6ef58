package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storecatalog/metrics"
	"storecatalog/pkg/logger"
)

// RequestFunc - сигнатура исходящего JSON-запроса клиента.
type RequestFunc func(ctx context.Context, method, endpoint string, requestBody, response interface{}) error

type Middleware func(next RequestFunc) RequestFunc

// Chain оборачивает next так, что первый middleware вызывается первым.
func Chain(next RequestFunc, mws ...Middleware) RequestFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		next = mws[i](next)
	}
	return next
}

type opKey struct{}

// WithOp помечает запрос логическим именем операции. Эндпоинт в логи не пишем: в нём бывает токен.
func WithOp(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, opKey{}, op)
}

func OpFromContext(ctx context.Context) string {
	if op, ok := ctx.Value(opKey{}).(string); ok && op != "" {
		return op
	}
	return "request"
}

// StatusCoder отдаёт HTTP-статус, с которым завершился запрос.
type StatusCoder interface {
	StatusCode() int
}

func statusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return 0
}

func LogRequests(log logger.Logger) Middleware {
	return func(next RequestFunc) RequestFunc {
		return func(ctx context.Context, method, endpoint string, requestBody, response interface{}) error {
			op := OpFromContext(ctx)
			start := time.Now()
			err := next(ctx, method, endpoint, requestBody, response)
			if err != nil {
				log.Warn("%s %s failed after %v: %v", method, op, time.Since(start), err)
				return err
			}
			log.Log("%s %s done in %v", method, op, time.Since(start))
			return nil
		}
	}
}

func MeasureRequests() Middleware {
	return func(next RequestFunc) RequestFunc {
		return func(ctx context.Context, method, endpoint string, requestBody, response interface{}) error {
			start := time.Now()
			err := next(ctx, method, endpoint, requestBody, response)
			metrics.RecordRemoteRequest(OpFromContext(ctx), statusOf(err), time.Since(start))
			return err
		}
	}
}
