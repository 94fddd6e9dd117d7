package session

import (
	"encoding/json"
	"time"

	"fairplay-casino/internal/games"
	"fairplay-casino/internal/store"
)

type OpenRequest struct {
	Game    string `json:"game"`
	WagerCC int64  `json:"wager_cc"`

	// slots
	Lines int `json:"lines,omitempty"`
	// shell
	Difficulty int `json:"difficulty,omitempty"`
	// roulette; the round wager is the sum of bet amounts
	Bets []games.RouletteBet `json:"bets,omitempty"`
}

type OpenResponse struct {
	RoundID     string `json:"round_id"`
	Game        string `json:"game"`
	WagerCC     int64  `json:"wager_cc"`
	SeedHash    string `json:"seed_hash"`
	VisibleSeed string `json:"visible_seed"`
	PublicState any    `json:"public_state,omitempty"`
}

type SupplyRequest struct {
	// shell only: extend the shuffle before guessing
	ExtraSwaps int `json:"extra_swaps"`
}

type SupplyResponse struct {
	RoundID     string `json:"round_id"`
	PublicState any    `json:"public_state,omitempty"`
}

type CloseRequest struct {
	// shell
	Guess *int `json:"guess,omitempty"`
	// claw: client-declared physical outcome, clamped server-side
	Won             *bool `json:"won,omitempty"`
	DeclaredValueCC int64 `json:"declared_value_cc,omitempty"`
}

type CloseResponse struct {
	RoundID     string          `json:"round_id"`
	Game        string          `json:"game"`
	WagerCC     int64           `json:"wager_cc"`
	PayoutCC    int64           `json:"payout_cc"`
	Result      json.RawMessage `json:"result"`
	SecretSeed  string          `json:"secret_seed"`
	SeedHash    string          `json:"seed_hash"`
	VisibleSeed string          `json:"visible_seed"`
}

type PlayResponse struct {
	Open  OpenResponse  `json:"open"`
	Close CloseResponse `json:"close"`
}

// RoundView is the read shape of a round: the secret seed and any state
// that would leak the outcome are withheld while the round is active.
type RoundView struct {
	ID          string     `json:"id"`
	Game        string     `json:"game"`
	PlayerID    string     `json:"player_id"`
	Status      string     `json:"status"`
	WagerCC     int64      `json:"wager_cc"`
	PayoutCC    int64      `json:"payout_cc"`
	SeedHash    string     `json:"seed_hash"`
	SecretSeed  string     `json:"secret_seed,omitempty"`
	VisibleSeed string     `json:"visible_seed"`
	PublicState any        `json:"public_state,omitempty"`
	Result      any        `json:"result,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Per-variant round state, decoded once at the ledger boundary so the
// resolvers never touch loosely-typed payloads.

type slotsState struct {
	Lines       int   `json:"lines"`
	LineWagerCC int64 `json:"line_wager_cc"`
}

type shellState struct {
	games.ShellShuffle
	Difficulty int `json:"difficulty"`
}

type rouletteState struct {
	Bets []games.RouletteBet `json:"bets"`
}

// ShellPublicState is what a shell player may see before guessing: the
// swap sequence, never the starting cup.
type ShellPublicState struct {
	Cups  int      `json:"cups"`
	Swaps [][2]int `json:"swaps"`
}

type SlotsPublicState struct {
	Lines       int   `json:"lines"`
	LineWagerCC int64 `json:"line_wager_cc"`
}

type RoulettePublicState struct {
	Bets []games.RouletteBet `json:"bets"`
}

func decodeState[T any](r *store.Round) (T, error) {
	var out T
	if len(r.GameState) == 0 {
		return out, ErrRoundNotResolvable
	}
	if err := json.Unmarshal(r.GameState, &out); err != nil {
		return out, ErrRoundNotResolvable
	}
	return out, nil
}
