package clients

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"storecatalog/config"
	"storecatalog/pkg/logger"
	"storecatalog/pkg/middleware"
)

const apiPath = "/fmi/data/vLatest"

// RecordsClient читает весь каталог из удалённого Data API постранично.
type RecordsClient struct {
	*BaseClient
	session  *Session
	database string
	layout   string
	username string
	password string
	pageSize int
	log      logger.Logger
}

func NewRecordsClient(cfg config.RemoteConfig, session *Session, log logger.Logger, opts ...Option) *RecordsClient {
	base := []Option{
		WithTimeout(cfg.Timeout),
		WithMiddleware(middleware.LogRequests(log), middleware.MeasureRequests()),
	}
	if cfg.RequestsPerSecond > 0 {
		base = append(base, WithRateLimit(cfg.RequestsPerSecond, cfg.Burst))
	}
	if cfg.InsecureSkipVerify {
		log.Warn("TLS certificate verification is disabled for %s", cfg.Host)
		base = append(base, WithInsecureTLS())
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	return &RecordsClient{
		BaseClient: NewBaseClient(strings.TrimRight(cfg.Host, "/")+apiPath, session, log, append(base, opts...)...),
		session:    session,
		database:   cfg.Database,
		layout:     cfg.Layout,
		username:   cfg.Username,
		password:   cfg.Password,
		pageSize:   pageSize,
		log:        log,
	}
}

func (c *RecordsClient) PageSize() int { return c.pageSize }

// EnsureSession возвращает закэшированный токен или логинится заново.
func (c *RecordsClient) EnsureSession(ctx context.Context) (string, error) {
	if token := c.session.Token(); strings.TrimSpace(token) != "" {
		return token, nil
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(c.username + ":" + c.password))
	ctx = withAuthorization(middleware.WithOp(ctx, "login"), "Basic "+credentials)

	var resp LoginResponse
	endpoint := fmt.Sprintf("/databases/%s/sessions", url.PathEscape(c.database))
	if err := c.doRequest(ctx, http.MethodPost, endpoint, struct{}{}, &resp); err != nil {
		if status := statusOf(err); status == http.StatusUnauthorized || status == http.StatusForbidden {
			var te *TransportError
			errors.As(err, &te)
			return "", &AuthenticationError{Status: status, Messages: te.Messages, Err: err}
		}
		return "", err
	}

	token := resp.token()
	if strings.TrimSpace(token) == "" {
		return "", &AuthenticationError{Messages: resp.Messages, Err: ErrNoToken}
	}
	c.session.SetToken(token)
	c.log.Log("Opened session for database %s", c.database)
	return token, nil
}

// ListRecords - одна страница: limit записей начиная с offset (нумерация с 1).
func (c *RecordsClient) ListRecords(ctx context.Context, limit, offset int) (*ListResponse, error) {
	ctx = middleware.WithOp(ctx, "list records")
	endpoint := fmt.Sprintf("/databases/%s/layouts/%s/records?_limit=%d&_offset=%d",
		url.PathEscape(c.database), url.PathEscape(c.layout), limit, offset)

	var resp ListResponse
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		var te *TransportError
		if errors.As(err, &te) {
			te.Offset = offset
			if te.Status == http.StatusUnauthorized {
				// токен протух на сервере: следующий прогон залогинится заново
				c.session.Clear()
			}
		}
		return nil, err
	}
	return &resp, nil
}

// FetchAllRecords выкачивает все страницы по очереди. progress получает 0 до первой страницы,
// floor(накоплено/всего*100) после каждой страницы при известном total и ровно 100 в конце.
func (c *RecordsClient) FetchAllRecords(ctx context.Context, progress func(int)) ([]map[string]interface{}, error) {
	if _, err := c.EnsureSession(ctx); err != nil {
		return nil, err
	}

	report := monotonicProgress(progress)
	out := make([]map[string]interface{}, 0, c.pageSize)
	offset := 1
	limit := c.pageSize
	total := -1
	cumulative := 0

	report(0)
	for {
		page, err := c.ListRecords(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
		items := page.records()
		info := page.dataInfo()
		if total < 0 {
			total = info.Total()
		}

		for _, item := range items {
			fields := item.FieldData
			if fields == nil {
				fields = map[string]interface{}{}
			}
			out = append(out, fields)
		}

		returned := len(items)
		if info != nil && info.ReturnedCount != nil {
			returned = *info.ReturnedCount
		}
		cumulative += returned
		offset += returned

		if total > 0 {
			report(cumulative * 100 / total)
		}

		if returned < limit || len(items) == 0 {
			break
		}
	}
	report(100)

	c.log.Log("Fetched %d records from layout %s", len(out), c.layout)
	return out, nil
}

// Logout закрывает сессию на сервере. Токен сбрасывается в любом случае.
func (c *RecordsClient) Logout(ctx context.Context) error {
	token := c.session.Token()
	if strings.TrimSpace(token) == "" {
		return nil
	}
	defer c.session.Clear()

	ctx = middleware.WithOp(ctx, "logout")
	endpoint := fmt.Sprintf("/databases/%s/sessions/%s", url.PathEscape(c.database), url.PathEscape(token))
	return c.doRequest(ctx, http.MethodDelete, endpoint, nil, &LoginResponse{})
}

// monotonicProgress зажимает значения в [0,100] и не даёт им убывать.
func monotonicProgress(progress func(int)) func(int) {
	if progress == nil {
		return func(int) {}
	}
	last := 0
	return func(pct int) {
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		if pct < last {
			pct = last
		}
		last = pct
		progress(pct)
	}
}
