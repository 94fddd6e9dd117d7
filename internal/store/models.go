package store

import (
	"encoding/json"
	"time"
)

// Player kinds. Registered accounts and autonomous agents are identical
// to the ledger; the kind only tags rows for audit.
const (
	PlayerKindAccount = "account"
	PlayerKindAgent   = "agent"
)

// Round statuses. A round is born active and completes exactly once.
const (
	RoundStatusActive    = "active"
	RoundStatusCompleted = "completed"
)

// Transaction kinds.
const (
	TxWagerDebit    = "wager_debit"
	TxPayoutCredit  = "payout_credit"
	TxPeriodicGrant = "periodic_grant"
	TxAdjustment    = "adjustment"
)

type Player struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Name       string    `json:"name"`
	APIKeyHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

type Account struct {
	PlayerID  string    `json:"player_id"`
	BalanceCC int64     `json:"balance_cc"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Round struct {
	ID          string          `json:"id"`
	Game        string          `json:"game"`
	PlayerID    string          `json:"player_id"`
	PlayerKind  string          `json:"player_kind"`
	Status      string          `json:"status"`
	WagerCC     int64           `json:"wager_cc"`
	PayoutCC    int64           `json:"payout_cc"`
	SeedHash    string          `json:"seed_hash"`
	SecretSeed  string          `json:"secret_seed,omitempty"`
	VisibleSeed string          `json:"visible_seed"`
	GameState   json.RawMessage `json:"game_state,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

type Transaction struct {
	ID             string    `json:"id"`
	PlayerID       string    `json:"player_id"`
	PlayerKind     string    `json:"player_kind"`
	Kind           string    `json:"kind"`
	AmountCC       int64     `json:"amount_cc"`
	BalanceAfterCC int64     `json:"balance_after_cc"`
	RoundID        string    `json:"round_id,omitempty"`
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type LeaderboardEntry struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	BalanceCC int64  `json:"balance_cc"`
	NetCC     int64  `json:"net_cc"`
}
