package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type TransactionFilter struct {
	PlayerID string
	RoundID  string
	Kind     string
	From     *time.Time
	To       *time.Time
}

func (s *Store) ListTransactions(ctx context.Context, f TransactionFilter, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	where := "WHERE 1=1"
	args := []any{}
	if f.PlayerID != "" {
		args = append(args, f.PlayerID)
		where += fmt.Sprintf(" AND player_id = $%d", len(args))
	}
	if f.RoundID != "" {
		args = append(args, f.RoundID)
		where += fmt.Sprintf(" AND round_id = $%d", len(args))
	}
	if f.Kind != "" {
		args = append(args, f.Kind)
		where += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	args = append(args, limit, offset)
	q := `SELECT id, player_id, player_kind, kind, amount_cc, balance_after_cc, round_id, description, created_at FROM transactions ` +
		where + fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := s.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Transaction{}
	for rows.Next() {
		var t Transaction
		var roundID sql.NullString
		if err := rows.Scan(&t.ID, &t.PlayerID, &t.PlayerKind, &t.Kind, &t.AmountCC, &t.BalanceAfterCC, &roundID, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.RoundID = roundID.String
		out = append(out, t)
	}
	return out, rows.Err()
}

// SumTransactions totals a player's ledger lines. For any player this
// must always equal the live balance; audits and tests lean on it.
func (s *Store) SumTransactions(ctx context.Context, playerID string) (int64, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_cc), 0) FROM transactions WHERE player_id = $1`, playerID)
	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}
