package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fairplay-casino/internal/session"
	"fairplay-casino/internal/store"
)

func healthHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
	}
}

func publicLeaderboardHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := parsePagination(r)
		items, err := st.ListLeaderboard(r.Context(), limit, offset)
		if err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		out := make([]map[string]any, 0, len(items))
		for _, it := range items {
			out = append(out, map[string]any{
				"player_id": it.PlayerID,
				"name":      it.Name,
				"kind":      it.Kind,
				"net_cc":    it.NetCC,
			})
		}
		writeJSON(w, map[string]any{
			"items":  out,
			"limit":  limit,
			"offset": offset,
		})
	}
}

// publicVerifyHandler recomputes one sub-outcome from revealed seeds so
// anyone can audit a completed round without trusting the server.
func publicVerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		secret := q.Get("secret")
		visible := q.Get("visible")
		if secret == "" || visible == "" {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		index, err := strconv.Atoi(q.Get("index"))
		if err != nil || index < 0 {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		lo, hi := 0, 1
		if v := q.Get("lo"); v != "" {
			if lo, err = strconv.Atoi(v); err != nil {
				writeHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
		}
		if v := q.Get("hi"); v != "" {
			if hi, err = strconv.Atoi(v); err != nil {
				writeHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
		}
		if hi < lo {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		value, drawn := session.Verify(secret, visible, index, lo, hi)
		writeJSON(w, map[string]any{
			"index": index,
			"value": value,
			"lo":    lo,
			"hi":    hi,
			"drawn": drawn,
		})
	}
}
