package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

func (s *Store) GetBalance(ctx context.Context, playerID string) (int64, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT balance_cc FROM accounts WHERE player_id = $1`, playerID)
	var bal int64
	if err := row.Scan(&bal); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return bal, nil
}

// ApplyDelta applies one signed balance change and its transaction row
// in a single DB transaction.
func (s *Store) ApplyDelta(ctx context.Context, playerID, playerKind string, amountCC int64, kind, roundID, description string) (int64, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	newBal, err := applyDeltaTx(ctx, tx, playerID, playerKind, amountCC, kind, roundID, description)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newBal, nil
}

// applyDeltaTx is the single balance-mutation primitive: an atomic
// in-place increment guarded by the non-negative constraint, never a
// read followed by a write, plus the append-only transaction row.
func applyDeltaTx(ctx context.Context, tx pgx.Tx, playerID, playerKind string, amountCC int64, kind, roundID, description string) (int64, error) {
	row := tx.QueryRow(ctx, `
		UPDATE accounts
		SET balance_cc = balance_cc + $2, updated_at = now()
		WHERE player_id = $1 AND balance_cc + $2 >= 0
		RETURNING balance_cc
	`, playerID, amountCC)
	var newBal int64
	if err := row.Scan(&newBal); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, err
		}
		// No row updated: either the player is unknown or the debit
		// would go negative.
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM accounts WHERE player_id = $1)`, playerID).Scan(&exists); err != nil {
			return 0, err
		}
		if !exists {
			return 0, ErrNotFound
		}
		return 0, ErrInsufficientBalance
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO transactions (id, player_id, player_kind, kind, amount_cc, balance_after_cc, round_id, description)
		VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''),$8)
	`, NewID(), playerID, playerKind, kind, amountCC, newBal, roundID, description); err != nil {
		return 0, err
	}
	return newBal, nil
}

// GrantIfDue credits the periodic grant unless one was already granted
// inside the interval. The check and the credit share one transaction so
// concurrent claims cannot double-grant.
func (s *Store) GrantIfDue(ctx context.Context, playerID, playerKind string, amountCC int64, interval time.Duration) (int64, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	// Lock the account row so two concurrent claims serialize on the
	// due check.
	var locked int64
	if err := tx.QueryRow(ctx,
		`SELECT balance_cc FROM accounts WHERE player_id = $1 FOR UPDATE`, playerID).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	var due bool
	if err := tx.QueryRow(ctx, `
		SELECT NOT EXISTS (
			SELECT 1 FROM transactions
			WHERE player_id = $1 AND kind = $2 AND created_at > now() - make_interval(secs => $3)
		)
	`, playerID, TxPeriodicGrant, interval.Seconds()).Scan(&due); err != nil {
		return 0, err
	}
	if !due {
		return 0, ErrGrantNotDue
	}
	newBal, err := applyDeltaTx(ctx, tx, playerID, playerKind, amountCC, TxPeriodicGrant, "", "periodic grant")
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newBal, nil
}
