package clients

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"storecatalog/pkg/logger"
	"storecatalog/pkg/middleware"
)

type BaseClient struct {
	ApiURL  string
	log     logger.Logger
	client  *http.Client
	limiter *rate.Limiter
	session *Session
	do      middleware.RequestFunc
}

type Option func(c *BaseClient)

func WithTimeout(timeout time.Duration) Option {
	return func(c *BaseClient) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *BaseClient) {
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithInsecureTLS отключает проверку сертификата. Только для dev-серверов с самоподписанным сертификатом.
func WithInsecureTLS() Option {
	return func(c *BaseClient) {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		c.client.Transport = transport
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *BaseClient) {
		c.client = client
	}
}

func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(c *BaseClient) {
		c.do = middleware.Chain(c.do, mws...)
	}
}

func NewBaseClient(apiURL string, session *Session, log logger.Logger, opts ...Option) *BaseClient {
	c := &BaseClient{
		ApiURL:  apiURL,
		log:     log,
		client:  &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(rate.Inf, 1),
		session: session,
	}
	c.do = c.send
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type authKey struct{}

// withAuthorization подменяет заголовок Authorization для одного запроса (Basic при логине).
func withAuthorization(ctx context.Context, value string) context.Context {
	return context.WithValue(ctx, authKey{}, value)
}

func (c *BaseClient) doRequest(ctx context.Context, method, endpoint string, requestBody interface{}, response interface{}) error {
	return c.do(ctx, method, endpoint, requestBody, response)
}

func (c *BaseClient) send(ctx context.Context, method, endpoint string, requestBody interface{}, response interface{}) error {
	op := middleware.OpFromContext(ctx)

	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	var body io.Reader
	if requestBody != nil {
		bodyBytes, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.ApiURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth, ok := ctx.Value(authKey{}).(string); ok && auth != "" {
		req.Header.Set("Authorization", auth)
	} else if c.session != nil {
		c.session.Authorize(req)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		select {
		case <-ctx.Done():
			return &TransportError{Op: op, Err: fmt.Errorf("request was cancelled: %w", ctx.Err())}
		default:
			return &TransportError{Op: op, Err: err}
		}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env envelope
		_ = json.Unmarshal(payload, &env)
		return &TransportError{Op: op, Status: resp.StatusCode, Messages: env.Messages}
	}

	if response == nil || len(payload) == 0 {
		return nil
	}
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	if err := decoder.Decode(response); err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}
	return nil
}

func statusOf(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Status
	}
	return 0
}
