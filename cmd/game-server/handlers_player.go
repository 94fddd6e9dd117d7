package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fairplay-casino/internal/config"
	"fairplay-casino/internal/store"
)

func newAPIKey() (string, error) {
	var b [24]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return "fpc_" + hex.EncodeToString(b[:]), nil
}

func registerPlayerHandler(st *store.Store, cfg config.ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
			Kind string `json:"kind"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.Kind == "" {
			body.Kind = store.PlayerKindAccount
		}
		if body.Name == "" || (body.Kind != store.PlayerKindAccount && body.Kind != store.PlayerKindAgent) {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		apiKey, err := newAPIKey()
		if err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		id, err := st.CreatePlayer(r.Context(), body.Kind, body.Name, apiKey, cfg.InitialBalanceCC)
		if err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, map[string]any{
			"player_id":  id,
			"kind":       body.Kind,
			"api_key":    apiKey,
			"balance_cc": cfg.InitialBalanceCC,
		})
	}
}

func playerMeHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r.Context())
		balance, err := st.GetBalance(r.Context(), player.ID)
		if err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, map[string]any{
			"player_id":  player.ID,
			"kind":       player.Kind,
			"name":       player.Name,
			"balance_cc": balance,
			"created_at": player.CreatedAt,
		})
	}
}

func grantHandler(st *store.Store, cfg config.ServerConfig) http.HandlerFunc {
	interval := time.Duration(cfg.GrantIntervalMins) * time.Minute
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r.Context())
		bal, err := st.GrantIfDue(r.Context(), player.ID, player.Kind, cfg.GrantAmountCC, interval)
		if err != nil {
			if errors.Is(err, store.ErrGrantNotDue) {
				writeHTTPError(w, http.StatusTooManyRequests, "grant_not_due")
				return
			}
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		grantsIssuedTotal.Add(1)
		writeJSON(w, map[string]any{
			"granted_cc": cfg.GrantAmountCC,
			"balance_cc": bal,
		})
	}
}

func playerTransactionsHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r.Context())
		limit, offset := parsePagination(r)
		f := store.TransactionFilter{
			PlayerID: player.ID,
			RoundID:  r.URL.Query().Get("round_id"),
			Kind:     r.URL.Query().Get("kind"),
		}
		items, err := st.ListTransactions(r.Context(), f, limit, offset)
		if err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, map[string]any{
			"items":  items,
			"limit":  limit,
			"offset": offset,
		})
	}
}

func playerRoundsHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r.Context())
		limit, offset := parsePagination(r)
		items, err := st.ListRounds(r.Context(), player.ID, limit, offset)
		if err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		// List rows hide seeds and state; the per-round endpoint applies
		// the full reveal rules.
		out := make([]map[string]any, 0, len(items))
		for _, it := range items {
			out = append(out, map[string]any{
				"id":           it.ID,
				"game":         it.Game,
				"status":       it.Status,
				"wager_cc":     it.WagerCC,
				"payout_cc":    it.PayoutCC,
				"seed_hash":    it.SeedHash,
				"visible_seed": it.VisibleSeed,
				"created_at":   it.CreatedAt,
				"completed_at": it.CompletedAt,
			})
		}
		writeJSON(w, map[string]any{
			"items":  out,
			"limit":  limit,
			"offset": offset,
		})
	}
}
