package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"fairplay-casino/internal/session"

	"github.com/go-chi/chi/v5"
)

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidRequest):
		writeHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, session.ErrInsufficientBalance):
		writeHTTPError(w, http.StatusPaymentRequired, "insufficient_balance")
	case errors.Is(err, session.ErrRoundNotFound):
		writeHTTPError(w, http.StatusNotFound, "round_not_found")
	case errors.Is(err, session.ErrRoundCompleted):
		writeHTTPError(w, http.StatusConflict, "round_already_completed")
	case errors.Is(err, session.ErrCommitmentIntegrity):
		writeHTTPError(w, http.StatusInternalServerError, "commitment_integrity")
	default:
		writeHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}

func openRoundHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r.Context())
		var req session.OpenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := svc.Open(r.Context(), player.ID, req)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		roundsOpenedTotal.Add(1)
		wageredCCTotal.Add(resp.WagerCC)
		writeJSON(w, resp)
	}
}

func playRoundHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r.Context())
		var req session.OpenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := svc.Play(r.Context(), player.ID, req)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		roundsOpenedTotal.Add(1)
		roundsClosedTotal.Add(1)
		wageredCCTotal.Add(resp.Open.WagerCC)
		payoutCCTotal.Add(resp.Close.PayoutCC)
		writeJSON(w, resp)
	}
}

func supplyRoundHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r.Context())
		var req session.SupplyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := svc.Supply(r.Context(), player.ID, chi.URLParam(r, "round_id"), req)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func closeRoundHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r.Context())
		var req session.CloseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := svc.Close(r.Context(), player.ID, chi.URLParam(r, "round_id"), req)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		roundsClosedTotal.Add(1)
		payoutCCTotal.Add(resp.PayoutCC)
		writeJSON(w, resp)
	}
}

func getRoundHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r.Context())
		view, err := svc.Get(r.Context(), player.ID, chi.URLParam(r, "round_id"))
		if err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, view)
	}
}
