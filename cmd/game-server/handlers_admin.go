package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fairplay-casino/internal/store"
)

func playersHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := parsePagination(r)
		items, err := st.ListPlayers(r.Context(), limit, offset)
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

func ledgerHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := parsePagination(r)
		f := store.TransactionFilter{
			PlayerID: r.URL.Query().Get("player_id"),
			RoundID:  r.URL.Query().Get("round_id"),
			Kind:     r.URL.Query().Get("kind"),
		}
		if v := r.URL.Query().Get("from"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				f.From = &t
			}
		}
		if v := r.URL.Query().Get("to"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				f.To = &t
			}
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

func topupHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			PlayerID string `json:"player_id"`
			AmountCC int64  `json:"amount_cc"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.PlayerID == "" || body.AmountCC == 0 {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		player, err := st.GetPlayerByID(r.Context(), body.PlayerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeHTTPError(w, http.StatusNotFound, "player_not_found")
				return
			}
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		bal, err := st.ApplyDelta(r.Context(), player.ID, player.Kind, body.AmountCC, store.TxAdjustment, "", "admin topup")
		if err != nil {
			if errors.Is(err, store.ErrInsufficientBalance) {
				writeHTTPError(w, http.StatusBadRequest, "insufficient_balance")
				return
			}
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, map[string]any{"ok": true, "balance_cc": bal})
	}
}
