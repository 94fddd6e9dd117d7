package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// CreatePlayer inserts a player of either kind plus its account row in
// one transaction and returns the new id.
func (s *Store) CreatePlayer(ctx context.Context, kind, name, apiKey string, initialCC int64) (string, error) {
	if kind != PlayerKindAccount && kind != PlayerKindAgent {
		return "", errors.New("unknown player kind")
	}
	id := NewID()
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO players (id, kind, name, api_key_hash) VALUES ($1,$2,$3,$4)`,
		id, kind, name, HashAPIKey(apiKey)); err != nil {
		return "", err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO accounts (player_id, balance_cc) VALUES ($1, 0)`, id); err != nil {
		return "", err
	}
	if initialCC > 0 {
		if _, err := applyDeltaTx(ctx, tx, id, kind, initialCC, TxAdjustment, "", "registration seed"); err != nil {
			return "", err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetPlayerByID(ctx context.Context, id string) (*Player, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT id, kind, name, api_key_hash, created_at FROM players WHERE id = $1`, id)
	return scanPlayer(row)
}

func (s *Store) GetPlayerByAPIKey(ctx context.Context, apiKey string) (*Player, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT id, kind, name, api_key_hash, created_at FROM players WHERE api_key_hash = $1`,
		HashAPIKey(apiKey))
	return scanPlayer(row)
}

func scanPlayer(row pgx.Row) (*Player, error) {
	var p Player
	if err := row.Scan(&p.ID, &p.Kind, &p.Name, &p.APIKeyHash, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListPlayers(ctx context.Context, limit, offset int) ([]Player, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT id, kind, name, api_key_hash, created_at FROM players ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Player{}
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Kind, &p.Name, &p.APIKeyHash, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ListLeaderboard(ctx context.Context, limit, offset int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT p.id, p.name, p.kind, a.balance_cc,
		       COALESCE(SUM(t.amount_cc) FILTER (WHERE t.kind IN ('wager_debit','payout_credit')), 0) AS net_cc
		FROM players p
		JOIN accounts a ON a.player_id = p.id
		LEFT JOIN transactions t ON t.player_id = p.id
		GROUP BY p.id, p.name, p.kind, a.balance_cc
		ORDER BY net_cc DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerID, &e.Name, &e.Kind, &e.BalanceCC, &e.NetCC); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
