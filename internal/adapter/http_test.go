// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Krupin

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKrupin/go-stock-keeper/internal/config"
	"github.com/MKrupin/go-stock-keeper/internal/logger"
	"github.com/MKrupin/go-stock-keeper/models"
)

// fakeServer — минимальный REST-сервер склада для проверки адаптера:
// фиксирует заголовки запросов и отдаёт заранее заданные ответы.
type fakeServer struct {
	mu             sync.Mutex
	lastIdemKey    string
	lastAuthHeader string
	failStatus     int
	delay          time.Duration
}

func (f *fakeServer) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastIdemKey = r.Header.Get("Idempotency-Key")
	f.lastAuthHeader = r.Header.Get("Authorization")
}

func newFakeServer(t *testing.T, f *fakeServer) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	r.Get("/api/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "correct" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Authorization", "Bearer test-token")
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/api/items", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if f.delay > 0 {
			time.Sleep(f.delay)
		}
		if f.failStatus != 0 {
			w.WriteHeader(f.failStatus)
			return
		}
		writeJSON(w, models.MutationResult{ID: "srv-1"})
	})
	r.Post("/api/inventory/{id}/adjust", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, models.MutationResult{ID: chi.URLParam(r, "id")})
	})
	r.Put("/api/inventory/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, models.MutationResult{ID: chi.URLParam(r, "id")})
	})
	r.Get("/api/items", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, []models.Item{{ID: "item-1", SKU: "SKU-1", Name: "Drill"}})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestAdapter(t *testing.T, baseURL string) ServerAdapter {
	t.Helper()

	a, err := NewHTTPServerAdapter(config.ClientAdapter{
		HTTPAddress:    baseURL,
		RequestTimeout: 5 * time.Second,
	}, logger.Nop())
	require.NoError(t, err)
	return a
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "bare host gets scheme", in: "localhost:8080", want: "http://localhost:8080"},
		{name: "explicit scheme kept", in: "https://stock.example.com/", want: "https://stock.example.com"},
		{name: "empty", in: "", wantErr: true},
		{name: "whitespace only", in: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTTPServerAdapter_Login(t *testing.T) {
	f := &fakeServer{}
	srv := newFakeServer(t, f)
	a := newTestAdapter(t, srv.URL)

	session, err := a.Login(context.Background(), models.Credentials{Login: "storekeeper", Password: "correct"})
	require.NoError(t, err)

	assert.Equal(t, "storekeeper", session.Login)
	assert.Equal(t, "test-token", session.Token)
	assert.Equal(t, "test-token", a.Token())
}

func TestHTTPServerAdapter_Login_BadPassword(t *testing.T) {
	f := &fakeServer{}
	srv := newFakeServer(t, f)
	a := newTestAdapter(t, srv.URL)

	_, err := a.Login(context.Background(), models.Credentials{Login: "storekeeper", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, a.Token())
}

func TestHTTPServerAdapter_CreateItem_SendsIdempotencyKeyAndToken(t *testing.T) {
	f := &fakeServer{}
	srv := newFakeServer(t, f)
	a := newTestAdapter(t, srv.URL)
	a.SetToken("test-token")

	res, err := a.CreateItem(context.Background(), models.CreateItemPayload{SKU: "SKU-1", Name: "Drill"}, "idem-123")
	require.NoError(t, err)

	assert.Equal(t, "srv-1", res.ID)
	assert.Equal(t, "idem-123", f.lastIdemKey)
	assert.Equal(t, "Bearer test-token", f.lastAuthHeader)
}

func TestHTTPServerAdapter_AdjustStock_TargetsRecordByPath(t *testing.T) {
	f := &fakeServer{}
	srv := newFakeServer(t, f)
	a := newTestAdapter(t, srv.URL)

	res, err := a.AdjustStock(context.Background(), models.AdjustStockPayload{ID: "inv-7", Adjustment: -3}, "idem-1")
	require.NoError(t, err)

	assert.Equal(t, "inv-7", res.ID)
	assert.Equal(t, "idem-1", f.lastIdemKey)
}

// 5xx — сервер ответил, но не подтвердил: это ErrServerError, а не
// «сервер недоступен».
func TestHTTPServerAdapter_FiveXXIsServerError(t *testing.T) {
	f := &fakeServer{failStatus: http.StatusServiceUnavailable}
	srv := newFakeServer(t, f)
	a := newTestAdapter(t, srv.URL)

	_, err := a.CreateItem(context.Background(), models.CreateItemPayload{SKU: "SKU-1", Name: "Drill"}, "idem-1")
	assert.ErrorIs(t, err, ErrServerError)
	assert.NotErrorIs(t, err, ErrServerUnavailable)
}

// Таймаут — запрос мог дойти до сервера, классифицируется как ErrServerError.
func TestHTTPServerAdapter_TimeoutIsServerError(t *testing.T) {
	f := &fakeServer{delay: 200 * time.Millisecond}
	srv := newFakeServer(t, f)

	a, err := NewHTTPServerAdapter(config.ClientAdapter{
		HTTPAddress:    srv.URL,
		RequestTimeout: 20 * time.Millisecond,
	}, logger.Nop())
	require.NoError(t, err)

	_, err = a.CreateItem(context.Background(), models.CreateItemPayload{SKU: "SKU-1", Name: "Drill"}, "idem-1")
	assert.ErrorIs(t, err, ErrServerError)
}

// Обрыв соединения — сервер запрос точно не видел: ErrServerUnavailable.
func TestHTTPServerAdapter_TransportErrorIsUnavailable(t *testing.T) {
	f := &fakeServer{}
	srv := newFakeServer(t, f)
	a := newTestAdapter(t, srv.URL)
	srv.Close()

	err := a.Ping(context.Background())
	assert.ErrorIs(t, err, ErrServerUnavailable)

	_, err = a.CreateItem(context.Background(), models.CreateItemPayload{SKU: "SKU-1", Name: "Drill"}, "idem-1")
	assert.ErrorIs(t, err, ErrServerUnavailable)
	assert.NotErrorIs(t, err, ErrServerError)
}

func TestHTTPServerAdapter_ListItems(t *testing.T) {
	f := &fakeServer{}
	srv := newFakeServer(t, f)
	a := newTestAdapter(t, srv.URL)

	items, err := a.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Drill", items[0].Name)
}

func TestHTTPServerAdapter_RejectsBadAddress(t *testing.T) {
	_, err := NewHTTPServerAdapter(config.ClientAdapter{HTTPAddress: ""}, logger.Nop())
	assert.Error(t, err)
}
