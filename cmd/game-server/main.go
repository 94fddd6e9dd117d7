package main

import (
	"context"
	"expvar"
	"net/http"
	"time"

	"fairplay-casino/internal/config"
	"fairplay-casino/internal/logging"
	"fairplay-casino/internal/session"
	"fairplay-casino/internal/store"

	"github.com/rs/zerolog/log"
)

var (
	roundsOpenedTotal = expvar.NewInt("rounds_opened_total")
	roundsClosedTotal = expvar.NewInt("rounds_closed_total")
	wageredCCTotal    = expvar.NewInt("wagered_cc_total")
	payoutCCTotal     = expvar.NewInt("payout_cc_total")
	grantsIssuedTotal = expvar.NewInt("grants_issued_total")
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("load server config failed")
	}

	st, err := store.New(cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	svc := session.NewService(st, cfg.MinWagerCC, cfg.MaxWagerCC)
	r := newRouter(st, svc, cfg)
	logRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
