package main

import (
	"context"
	"encoding/json"
	"net/http"

	"fairplay-casino/internal/store"
)

type playerContextKey struct{}

func playerFromContext(ctx context.Context) *store.Player {
	p, _ := ctx.Value(playerContextKey{}).(*store.Player)
	return p
}

func playerAuthMiddleware(st *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := bearerToken(r)
			if apiKey == "" {
				writeHTTPError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			player, err := st.GetPlayerByAPIKey(r.Context(), apiKey)
			if err != nil {
				writeHTTPError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			ctx := context.WithValue(r.Context(), playerContextKey{}, player)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func adminAuthMiddleware(adminKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey != "" && !checkAdminAuth(r, adminKey) {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func checkAdminAuth(r *http.Request, adminKey string) bool {
	if v := r.Header.Get("X-Admin-Key"); v == adminKey {
		return true
	}
	return bearerToken(r) == adminKey
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}
