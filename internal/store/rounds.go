package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type OpenRoundParams struct {
	Game        string
	PlayerID    string
	PlayerKind  string
	WagerCC     int64
	SeedHash    string
	SecretSeed  string
	VisibleSeed string
	GameState   json.RawMessage
}

// OpenRound debits the wager, writes its transaction row and persists
// the active round as one atomic unit: a round either exists with its
// debit applied, or nothing happened.
func (s *Store) OpenRound(ctx context.Context, p OpenRoundParams) (*Round, error) {
	id := NewID()
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := applyDeltaTx(ctx, tx, p.PlayerID, p.PlayerKind, -p.WagerCC, TxWagerDebit, id,
		fmt.Sprintf("%s wager", p.Game)); err != nil {
		return nil, err
	}
	row := tx.QueryRow(ctx, `
		INSERT INTO rounds (id, game, player_id, player_kind, status, wager_cc, seed_hash, secret_seed, visible_seed, game_state)
		VALUES ($1,$2,$3,$4,'active',$5,$6,$7,$8,$9)
		RETURNING id, game, player_id, player_kind, status, wager_cc, payout_cc, seed_hash, secret_seed, visible_seed, game_state, result, created_at, completed_at
	`, id, p.Game, p.PlayerID, p.PlayerKind, p.WagerCC, p.SeedHash, p.SecretSeed, p.VisibleSeed, p.GameState)
	round, err := scanRound(row)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return round, nil
}

func (s *Store) GetRound(ctx context.Context, id string) (*Round, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, game, player_id, player_kind, status, wager_cc, payout_cc, seed_hash, secret_seed, visible_seed, game_state, result, created_at, completed_at
		FROM rounds WHERE id = $1
	`, id)
	return scanRound(row)
}

func scanRound(row pgx.Row) (*Round, error) {
	var r Round
	if err := row.Scan(&r.ID, &r.Game, &r.PlayerID, &r.PlayerKind, &r.Status, &r.WagerCC, &r.PayoutCC,
		&r.SeedHash, &r.SecretSeed, &r.VisibleSeed, &r.GameState, &r.Result, &r.CreatedAt, &r.CompletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// UpdateRoundState replaces the game-state blob of a still-active round,
// conditional on the state the caller read. Completed rounds are
// immutable; a stale prev reports ErrStateConflict so two concurrent
// writers cannot silently drop each other's update.
func (s *Store) UpdateRoundState(ctx context.Context, id string, prev, next json.RawMessage) error {
	tag, err := s.Pool.Exec(ctx,
		`UPDATE rounds SET game_state = $3 WHERE id = $1 AND status = 'active' AND game_state = $2`,
		id, prev, next)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var status string
		err := s.Pool.QueryRow(ctx, `SELECT status FROM rounds WHERE id = $1`, id).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if status != RoundStatusActive {
			return ErrRoundNotActive
		}
		return ErrStateConflict
	}
	return nil
}

type CloseRoundParams struct {
	ID         string
	PlayerID   string
	PlayerKind string
	PayoutCC   int64
	Result     json.RawMessage
}

// CloseRound transitions active -> completed with a single conditional
// update; the payout credit rides the same DB transaction, so two
// concurrent closes can never both pay. The losing call reports the
// round as not active.
func (s *Store) CloseRound(ctx context.Context, p CloseRoundParams) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE rounds
		SET status = 'completed', payout_cc = $2, result = $3, completed_at = now()
		WHERE id = $1 AND status = 'active'
	`, p.ID, p.PayoutCC, p.Result)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.roundMissingOrClosed(ctx, p.ID)
	}
	if p.PayoutCC > 0 {
		if _, err := applyDeltaTx(ctx, tx, p.PlayerID, p.PlayerKind, p.PayoutCC, TxPayoutCredit, p.ID, "payout"); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) roundMissingOrClosed(ctx context.Context, id string) error {
	var exists bool
	if err := s.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM rounds WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrRoundNotActive
}

func (s *Store) ListRounds(ctx context.Context, playerID string, limit, offset int) ([]Round, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, game, player_id, player_kind, status, wager_cc, payout_cc, seed_hash, secret_seed, visible_seed, game_state, result, created_at, completed_at
		FROM rounds
		WHERE ($1 = '' OR player_id = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, playerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Round{}
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}
