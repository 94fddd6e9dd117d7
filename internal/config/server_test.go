package config

import "testing"

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/fpc?sslmode=disable")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.InitialBalanceCC != 100000 {
		t.Fatalf("InitialBalanceCC = %d, want 100000", cfg.InitialBalanceCC)
	}
	if cfg.GrantIntervalMins != 1440 {
		t.Fatalf("GrantIntervalMins = %d, want 1440", cfg.GrantIntervalMins)
	}
}

func TestLoadServerRequiresPostgresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	_, err := LoadServer()
	if err == nil {
		t.Fatal("LoadServer() expected error, got nil")
	}
}

func TestLoadServerParseTypes(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/fpc?sslmode=disable")
	t.Setenv("GRANT_AMOUNT_CC", "2500")
	t.Setenv("MIN_WAGER_CC", "1")
	t.Setenv("GRANT_INTERVAL_MINUTES", "30")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.GrantAmountCC != 2500 {
		t.Fatalf("GrantAmountCC = %v, want 2500", cfg.GrantAmountCC)
	}
	if cfg.MinWagerCC != 1 {
		t.Fatalf("MinWagerCC = %v, want 1", cfg.MinWagerCC)
	}
	if cfg.GrantIntervalMins != 30 {
		t.Fatalf("GrantIntervalMins = %d, want 30", cfg.GrantIntervalMins)
	}
}
