package clients

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storecatalog/config"
	"storecatalog/pkg/logger"
)

// fakeDataAPI имитирует Data API: логин, постраничный список и закрытие сессии.
type fakeDataAPI struct {
	t          *testing.T
	records    []map[string]interface{}
	token      *string
	loginCode  int
	listFail   map[int]int // offset -> HTTP status
	hideTotal  bool
	logins     atomic.Int32
	listCalls  atomic.Int32
	logouts    atomic.Int32
	lastOffset atomic.Int32
}

func newFakeDataAPI(t *testing.T, n int) *fakeDataAPI {
	records := make([]map[string]interface{}, n)
	for i := range records {
		records[i] = map[string]interface{}{
			"CCProducto":  strconv.Itoa(i + 1),
			"CodigoBarra": fmt.Sprintf("75000%04d", i+1),
			"Existencia":  i + 1,
		}
	}
	token := "tok-123"
	return &fakeDataAPI{t: t, records: records, token: &token, loginCode: http.StatusOK, listFail: map[int]int{}}
}

func (f *fakeDataAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/fmi/data/vLatest/databases/Inventario/sessions":
		f.logins.Add(1)
		want := "Basic " + base64.StdEncoding.EncodeToString([]byte("reader:secret"))
		assert.Equal(f.t, want, r.Header.Get("Authorization"))
		assert.Equal(f.t, "application/json", r.Header.Get("Content-Type"))
		if f.loginCode != http.StatusOK {
			w.WriteHeader(f.loginCode)
			_, _ = w.Write([]byte(`{"response":{},"messages":[{"code":"212","message":"Invalid user account and/or password"}]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"response": map[string]interface{}{"token": f.token},
			"messages": []map[string]string{{"code": "0", "message": "OK"}},
		})

	case r.Method == http.MethodGet && r.URL.Path == "/fmi/data/vLatest/databases/Inventario/layouts/Productos/records":
		f.listCalls.Add(1)
		assert.Equal(f.t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(f.t, "application/json", r.Header.Get("Accept"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("_limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("_offset"))
		f.lastOffset.Store(int32(offset))
		if code, ok := f.listFail[offset]; ok {
			w.WriteHeader(code)
			_, _ = w.Write([]byte(`{"messages":[{"code":"952","message":"Invalid FileMaker Data API token"}]}`))
			return
		}

		start := offset - 1
		end := start + limit
		if start > len(f.records) {
			start = len(f.records)
		}
		if end > len(f.records) {
			end = len(f.records)
		}
		data := make([]map[string]interface{}, 0, end-start)
		for i, rec := range f.records[start:end] {
			data = append(data, map[string]interface{}{"fieldData": rec, "recordId": strconv.Itoa(start + i + 1), "modId": "0"})
		}
		info := map[string]interface{}{
			"database":      "Inventario",
			"layout":        "Productos",
			"returnedCount": len(data),
		}
		if !f.hideTotal {
			info["totalRecordCount"] = len(f.records)
			info["foundCount"] = len(f.records)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"response": map[string]interface{}{"data": data, "dataInfo": info},
			"messages": []map[string]string{{"code": "0", "message": "OK"}},
		})

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/fmi/data/vLatest/databases/Inventario/sessions/"):
		f.logouts.Add(1)
		assert.True(f.t, strings.HasSuffix(r.URL.Path, "/tok-123"))
		_, _ = w.Write([]byte(`{"response":{},"messages":[{"code":"0","message":"OK"}]}`))

	default:
		f.t.Errorf("unexpected request %s %s", r.Method, r.URL.String())
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, api *fakeDataAPI, pageSize int) (*RecordsClient, *Session) {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	session := NewSession()
	cfg := config.RemoteConfig{
		Host:     srv.URL + "/",
		Database: "Inventario",
		Layout:   "Productos",
		Username: "reader",
		Password: "secret",
		PageSize: pageSize,
	}
	return NewRecordsClient(cfg, session, logger.NewLogger(nil, "[RecordsClient]")), session
}

func TestFetchAllRecords_PaginationAndProgress(t *testing.T) {
	api := newFakeDataAPI(t, 140)
	client, session := newTestClient(t, api, 100)

	var progress []int
	records, err := client.FetchAllRecords(context.Background(), func(p int) { progress = append(progress, p) })
	require.NoError(t, err)

	assert.Len(t, records, 140)
	assert.Equal(t, int32(2), api.listCalls.Load())
	assert.Equal(t, int32(101), api.lastOffset.Load())
	assert.Equal(t, []int{0, 71, 100, 100}, progress)
	assert.Equal(t, "tok-123", session.Token())

	assert.Equal(t, "1", records[0]["CCProducto"])
	assert.Equal(t, json.Number("1"), records[0]["Existencia"])
	assert.Equal(t, "750000140", records[139]["CodigoBarra"])
}

func TestFetchAllRecords_ExactMultipleStopsOnEmptyPage(t *testing.T) {
	api := newFakeDataAPI(t, 200)
	client, _ := newTestClient(t, api, 100)

	records, err := client.FetchAllRecords(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, records, 200)
	assert.Equal(t, int32(3), api.listCalls.Load())
}

func TestFetchAllRecords_UnknownTotal(t *testing.T) {
	api := newFakeDataAPI(t, 30)
	api.hideTotal = true
	client, _ := newTestClient(t, api, 20)

	var progress []int
	records, err := client.FetchAllRecords(context.Background(), func(p int) { progress = append(progress, p) })
	require.NoError(t, err)
	assert.Len(t, records, 30)
	assert.Equal(t, []int{0, 100}, progress)
}

func TestFetchAllRecords_ReusesSession(t *testing.T) {
	api := newFakeDataAPI(t, 5)
	client, _ := newTestClient(t, api, 100)

	_, err := client.FetchAllRecords(context.Background(), nil)
	require.NoError(t, err)
	_, err = client.FetchAllRecords(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), api.logins.Load())
}

func TestEnsureSession_NullToken(t *testing.T) {
	api := newFakeDataAPI(t, 5)
	api.token = nil
	client, session := newTestClient(t, api, 100)

	_, err := client.FetchAllRecords(context.Background(), nil)

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Empty(t, session.Token())
	assert.Zero(t, api.listCalls.Load())
}

func TestEnsureSession_RejectedCredentials(t *testing.T) {
	api := newFakeDataAPI(t, 5)
	api.loginCode = http.StatusUnauthorized
	client, _ := newTestClient(t, api, 100)

	_, err := client.EnsureSession(context.Background())

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.Status)
	assert.Contains(t, err.Error(), "Invalid user account")
}

func TestEnsureSession_ServerError(t *testing.T) {
	api := newFakeDataAPI(t, 5)
	api.loginCode = http.StatusBadGateway
	client, _ := newTestClient(t, api, 100)

	_, err := client.EnsureSession(context.Background())

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusBadGateway, te.Status)
	assert.Equal(t, "login", te.Op)
}

func TestFetchAllRecords_PageFailure(t *testing.T) {
	api := newFakeDataAPI(t, 250)
	api.listFail[101] = http.StatusInternalServerError
	client, _ := newTestClient(t, api, 100)

	records, err := client.FetchAllRecords(context.Background(), nil)
	assert.Nil(t, records)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusInternalServerError, te.Status)
	assert.Equal(t, 101, te.Offset)
	assert.Equal(t, int32(2), api.listCalls.Load())
}

func TestFetchAllRecords_ExpiredTokenClearsSession(t *testing.T) {
	api := newFakeDataAPI(t, 10)
	api.listFail[1] = http.StatusUnauthorized
	client, session := newTestClient(t, api, 100)

	_, err := client.FetchAllRecords(context.Background(), nil)
	require.Error(t, err)
	assert.Empty(t, session.Token())

	delete(api.listFail, 1)
	_, err = client.FetchAllRecords(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), api.logins.Load())
}

func TestFetchAllRecords_NetworkError(t *testing.T) {
	session := NewSession()
	session.SetToken("tok-123")
	client := NewRecordsClient(config.RemoteConfig{
		Host: "http://127.0.0.1:1", Database: "Inventario", Layout: "Productos", PageSize: 10,
	}, session, logger.NewLogger(nil, ""))

	_, err := client.FetchAllRecords(context.Background(), nil)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.Status)
}

func TestFetchAllRecords_Cancelled(t *testing.T) {
	api := newFakeDataAPI(t, 10)
	client, session := newTestClient(t, api, 100)
	session.SetToken("tok-123")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchAllRecords(ctx, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLogout(t *testing.T) {
	api := newFakeDataAPI(t, 1)
	client, session := newTestClient(t, api, 100)

	require.NoError(t, client.Logout(context.Background()))
	assert.Zero(t, api.logouts.Load())

	_, err := client.EnsureSession(context.Background())
	require.NoError(t, err)
	require.NoError(t, client.Logout(context.Background()))
	assert.Equal(t, int32(1), api.logouts.Load())
	assert.Empty(t, session.Token())
}

func TestMonotonicProgress(t *testing.T) {
	var got []int
	report := monotonicProgress(func(p int) { got = append(got, p) })
	for _, p := range []int{-5, 10, 7, 150, 100} {
		report(p)
	}
	assert.Equal(t, []int{0, 10, 10, 100, 100}, got)
}
