package main

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"fairplay-casino/internal/config"
	"fairplay-casino/internal/session"
	"fairplay-casino/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func newRouter(st *store.Store, svc *session.Service, cfg config.ServerConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(apiLogMiddleware()).Get("/healthz", healthHandler(st))

	r.Route("/api", func(r chi.Router) {
		r.Use(apiLogMiddleware())
		r.Use(bodyCaptureMiddleware(cfg.MaxCaptureBytes))

		r.Get("/public/leaderboard", publicLeaderboardHandler(st))
		r.Get("/public/verify", publicVerifyHandler())

		r.Post("/players/register", registerPlayerHandler(st, cfg))

		r.Group(func(r chi.Router) {
			r.Use(playerAuthMiddleware(st))
			r.Get("/players/me", playerMeHandler(st))
			r.Post("/players/me/grant", grantHandler(st, cfg))
			r.Get("/players/me/transactions", playerTransactionsHandler(st))
			r.Get("/players/me/rounds", playerRoundsHandler(st))

			r.Post("/rounds", openRoundHandler(svc))
			r.Post("/rounds/play", playRoundHandler(svc))
			r.Get("/rounds/{round_id}", getRoundHandler(svc))
			r.Post("/rounds/{round_id}/supply", supplyRoundHandler(svc))
			r.Post("/rounds/{round_id}/close", closeRoundHandler(svc))
		})

		r.Group(func(r chi.Router) {
			r.Use(adminAuthMiddleware(cfg.AdminAPIKey))
			r.Get("/players", playersHandler(st))
			r.Get("/ledger", ledgerHandler(st))
			r.Post("/topup", topupHandler(st))
			r.Get("/debug/vars", expvar.Handler().ServeHTTP)
		})
	})

	return r
}

func logRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 32)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
