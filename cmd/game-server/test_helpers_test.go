package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"fairplay-casino/internal/config"
	"fairplay-casino/internal/session"
	"fairplay-casino/internal/store"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(st *store.Store, cfg config.ServerConfig) *chi.Mux {
	if cfg.MinWagerCC == 0 {
		cfg.MinWagerCC = 10
	}
	if cfg.MaxWagerCC == 0 {
		cfg.MaxWagerCC = 100000
	}
	svc := session.NewService(st, cfg.MinWagerCC, cfg.MaxWagerCC)
	return newRouter(st, svc, cfg)
}

func createTestPlayer(t *testing.T, st *store.Store, name string, initialCC int64) (string, string) {
	t.Helper()
	apiKey := "fpc_test_" + strconv.FormatInt(time.Now().UnixNano(), 10)
	id, err := st.CreatePlayer(context.Background(), store.PlayerKindAccount, name, apiKey, initialCC)
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	return id, apiKey
}

func doJSON(t *testing.T, router *chi.Mux, method, path, apiKey string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}
