package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"fairplay-casino/internal/store"
)

// MemStore is an in-memory stand-in for the Postgres store that still
// honors the two contracts the ledger leans on: balance changes are
// atomic conditional deltas, and round completion is a compare-and-swap
// on status. Everything runs under one mutex.
type MemStore struct {
	mu           sync.Mutex
	players      map[string]*store.Player
	balances     map[string]int64
	rounds       map[string]*store.Round
	transactions []store.Transaction
}

func NewMemStore() *MemStore {
	return &MemStore{
		players:  map[string]*store.Player{},
		balances: map[string]int64{},
		rounds:   map[string]*store.Round{},
	}
}

// AddPlayer seeds a player with a starting balance and returns its id.
// The seed is recorded as an adjustment so the sum-of-transactions
// invariant holds from the start.
func (m *MemStore) AddPlayer(kind, name string, balanceCC int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := store.NewID()
	m.players[id] = &store.Player{ID: id, Kind: kind, Name: name, CreatedAt: time.Now()}
	m.balances[id] = 0
	if balanceCC > 0 {
		m.applyDeltaLocked(id, kind, balanceCC, store.TxAdjustment, "", "seed")
	}
	return id
}

func (m *MemStore) GetPlayerByID(_ context.Context, id string) (*store.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemStore) GetRound(_ context.Context, id string) (*store.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rounds[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MemStore) OpenRound(_ context.Context, p store.OpenRoundParams) (*store.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.balances[p.PlayerID]; !ok {
		return nil, store.ErrNotFound
	}
	id := store.NewID()
	if _, err := m.applyDeltaLocked(p.PlayerID, p.PlayerKind, -p.WagerCC, store.TxWagerDebit, id, p.Game+" wager"); err != nil {
		return nil, err
	}
	r := &store.Round{
		ID:          id,
		Game:        p.Game,
		PlayerID:    p.PlayerID,
		PlayerKind:  p.PlayerKind,
		Status:      store.RoundStatusActive,
		WagerCC:     p.WagerCC,
		SeedHash:    p.SeedHash,
		SecretSeed:  p.SecretSeed,
		VisibleSeed: p.VisibleSeed,
		GameState:   append(json.RawMessage(nil), p.GameState...),
		CreatedAt:   time.Now(),
	}
	m.rounds[id] = r
	cp := *r
	return &cp, nil
}

func (m *MemStore) UpdateRoundState(_ context.Context, id string, prev, next json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rounds[id]
	if !ok {
		return store.ErrNotFound
	}
	if r.Status != store.RoundStatusActive {
		return store.ErrRoundNotActive
	}
	if !bytes.Equal(r.GameState, prev) {
		return store.ErrStateConflict
	}
	r.GameState = append(json.RawMessage(nil), next...)
	return nil
}

func (m *MemStore) CloseRound(_ context.Context, p store.CloseRoundParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rounds[p.ID]
	if !ok {
		return store.ErrNotFound
	}
	if r.Status != store.RoundStatusActive {
		return store.ErrRoundNotActive
	}
	if p.PayoutCC > 0 {
		if _, err := m.applyDeltaLocked(p.PlayerID, p.PlayerKind, p.PayoutCC, store.TxPayoutCredit, p.ID, "payout"); err != nil {
			return err
		}
	}
	r.Status = store.RoundStatusCompleted
	r.PayoutCC = p.PayoutCC
	r.Result = append(json.RawMessage(nil), p.Result...)
	now := time.Now()
	r.CompletedAt = &now
	return nil
}

func (m *MemStore) applyDeltaLocked(playerID, playerKind string, amountCC int64, kind, roundID, description string) (int64, error) {
	bal, ok := m.balances[playerID]
	if !ok {
		return 0, store.ErrNotFound
	}
	if bal+amountCC < 0 {
		return 0, store.ErrInsufficientBalance
	}
	bal += amountCC
	m.balances[playerID] = bal
	m.transactions = append(m.transactions, store.Transaction{
		ID:             store.NewID(),
		PlayerID:       playerID,
		PlayerKind:     playerKind,
		Kind:           kind,
		AmountCC:       amountCC,
		BalanceAfterCC: bal,
		RoundID:        roundID,
		Description:    description,
		CreatedAt:      time.Now(),
	})
	return bal, nil
}

func (m *MemStore) Balance(playerID string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[playerID]
}

func (m *MemStore) Transactions(playerID string) []store.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []store.Transaction{}
	for _, t := range m.transactions {
		if playerID == "" || t.PlayerID == playerID {
			out = append(out, t)
		}
	}
	return out
}
