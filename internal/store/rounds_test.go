package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
)

func openTestRound(t *testing.T, st *Store, ctx context.Context, playerID string, wagerCC int64) *Round {
	t.Helper()
	round, err := st.OpenRound(ctx, OpenRoundParams{
		Game:        "slots",
		PlayerID:    playerID,
		PlayerKind:  PlayerKindAccount,
		WagerCC:     wagerCC,
		SeedHash:    "hash",
		SecretSeed:  "secret",
		VisibleSeed: "visible",
		GameState:   json.RawMessage(`{"lines":1}`),
	})
	if err != nil {
		t.Fatalf("open round: %v", err)
	}
	return round
}

func TestOpenRoundDebitsAtomically(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	id := mustCreatePlayer(t, st, ctx, PlayerKindAccount, "alice", "key-a", 1000)
	round := openTestRound(t, st, ctx, id, 300)

	if round.Status != RoundStatusActive || round.WagerCC != 300 {
		t.Fatalf("unexpected round: %+v", round)
	}
	bal, err := st.GetBalance(ctx, id)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if bal != 700 {
		t.Fatalf("balance = %d, want 700", bal)
	}
	txs, err := st.ListTransactions(ctx, TransactionFilter{RoundID: round.ID}, 10, 0)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Kind != TxWagerDebit || txs[0].AmountCC != -300 {
		t.Fatalf("unexpected round transactions: %+v", txs)
	}
}

func TestOpenRoundInsufficientBalanceWritesNothing(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	id := mustCreatePlayer(t, st, ctx, PlayerKindAccount, "alice", "key-a", 100)

	_, err := st.OpenRound(ctx, OpenRoundParams{
		Game:       "slots",
		PlayerID:   id,
		PlayerKind: PlayerKindAccount,
		WagerCC:    500,
		SeedHash:   "hash",
		GameState:  json.RawMessage(`{}`),
	})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	rounds, err := st.ListRounds(ctx, id, 10, 0)
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(rounds) != 0 {
		t.Fatalf("rejected open persisted %d rounds", len(rounds))
	}
	bal, err := st.GetBalance(ctx, id)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if bal != 100 {
		t.Fatalf("balance changed to %d", bal)
	}
}

func TestCloseRoundPaysOnce(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	id := mustCreatePlayer(t, st, ctx, PlayerKindAccount, "alice", "key-a", 1000)
	round := openTestRound(t, st, ctx, id, 200)

	params := CloseRoundParams{
		ID:         round.ID,
		PlayerID:   id,
		PlayerKind: PlayerKindAccount,
		PayoutCC:   400,
		Result:     json.RawMessage(`{"won":true}`),
	}
	if err := st.CloseRound(ctx, params); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := st.CloseRound(ctx, params); !errors.Is(err, ErrRoundNotActive) {
		t.Fatalf("expected ErrRoundNotActive, got %v", err)
	}

	got, err := st.GetRound(ctx, round.ID)
	if err != nil {
		t.Fatalf("get round: %v", err)
	}
	if got.Status != RoundStatusCompleted || got.PayoutCC != 400 || got.CompletedAt == nil {
		t.Fatalf("unexpected closed round: %+v", got)
	}
	bal, err := st.GetBalance(ctx, id)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if bal != 1200 {
		t.Fatalf("balance = %d, want 1200", bal)
	}
}

func TestCloseRoundConcurrentSingleSettlement(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	id := mustCreatePlayer(t, st, ctx, PlayerKindAgent, "bot", "key-b", 1000)
	round := openTestRound(t, st, ctx, id, 100)

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = st.CloseRound(ctx, CloseRoundParams{
				ID:         round.ID,
				PlayerID:   id,
				PlayerKind: PlayerKindAgent,
				PayoutCC:   200,
				Result:     json.RawMessage(`{"won":true}`),
			})
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrRoundNotActive):
		default:
			t.Fatalf("unexpected close error: %v", err)
		}
	}
	if won != 1 {
		t.Fatalf("%d closes succeeded, want 1", won)
	}
	bal, err := st.GetBalance(ctx, id)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if bal != 1100 {
		t.Fatalf("balance = %d, want 1100", bal)
	}
}

func TestCloseRoundZeroPayoutSkipsCredit(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	id := mustCreatePlayer(t, st, ctx, PlayerKindAccount, "alice", "key-a", 1000)
	round := openTestRound(t, st, ctx, id, 100)

	if err := st.CloseRound(ctx, CloseRoundParams{
		ID:         round.ID,
		PlayerID:   id,
		PlayerKind: PlayerKindAccount,
		Result:     json.RawMessage(`{"won":false}`),
	}); err != nil {
		t.Fatalf("close: %v", err)
	}
	txs, err := st.ListTransactions(ctx, TransactionFilter{RoundID: round.ID, Kind: TxPayoutCredit}, 10, 0)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("losing round wrote %d payout credits", len(txs))
	}
}

func TestUpdateRoundState(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	id := mustCreatePlayer(t, st, ctx, PlayerKindAccount, "alice", "key-a", 1000)
	round := openTestRound(t, st, ctx, id, 100)

	if err := st.UpdateRoundState(ctx, round.ID, round.GameState, json.RawMessage(`{"lines":2}`)); err != nil {
		t.Fatalf("update state: %v", err)
	}
	got, err := st.GetRound(ctx, round.ID)
	if err != nil {
		t.Fatalf("get round: %v", err)
	}
	if string(got.GameState) != `{"lines": 2}` && string(got.GameState) != `{"lines":2}` {
		t.Fatalf("state = %s", got.GameState)
	}

	// A write against a state that was since replaced must not land.
	if err := st.UpdateRoundState(ctx, round.ID, round.GameState, json.RawMessage(`{"lines":3}`)); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict, got %v", err)
	}
	got, err = st.GetRound(ctx, round.ID)
	if err != nil {
		t.Fatalf("get round: %v", err)
	}
	if string(got.GameState) != `{"lines": 2}` && string(got.GameState) != `{"lines":2}` {
		t.Fatalf("conflicting write changed state to %s", got.GameState)
	}

	if err := st.CloseRound(ctx, CloseRoundParams{
		ID: round.ID, PlayerID: id, PlayerKind: PlayerKindAccount,
		Result: json.RawMessage(`{}`),
	}); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := st.UpdateRoundState(ctx, round.ID, got.GameState, json.RawMessage(`{}`)); !errors.Is(err, ErrRoundNotActive) {
		t.Fatalf("expected ErrRoundNotActive, got %v", err)
	}
	if err := st.UpdateRoundState(ctx, "missing", nil, json.RawMessage(`{}`)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetRoundNotFound(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	if _, err := st.GetRound(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
