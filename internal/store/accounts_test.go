package store

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestApplyDeltaWritesTransaction(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	id := mustCreatePlayer(t, st, ctx, PlayerKindAccount, "alice", "key-a", 1000)

	newBal, err := st.ApplyDelta(ctx, id, PlayerKindAccount, -250, TxWagerDebit, "", "wager")
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if newBal != 750 {
		t.Fatalf("balance = %d, want 750", newBal)
	}

	txs, err := st.ListTransactions(ctx, TransactionFilter{PlayerID: id}, 10, 0)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].AmountCC != -250 || txs[0].BalanceAfterCC != 750 {
		t.Fatalf("unexpected latest transaction: %+v", txs[0])
	}

	sum, err := st.SumTransactions(ctx, id)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != 750 {
		t.Fatalf("transaction sum = %d, want 750", sum)
	}
}

func TestApplyDeltaRejectsOverdraft(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	id := mustCreatePlayer(t, st, ctx, PlayerKindAccount, "alice", "key-a", 100)

	if _, err := st.ApplyDelta(ctx, id, PlayerKindAccount, -101, TxWagerDebit, "", "wager"); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	bal, err := st.GetBalance(ctx, id)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if bal != 100 {
		t.Fatalf("balance changed to %d", bal)
	}
	txs, err := st.ListTransactions(ctx, TransactionFilter{PlayerID: id, Kind: TxWagerDebit}, 10, 0)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("rejected debit wrote %d transactions", len(txs))
	}

	if _, err := st.ApplyDelta(ctx, "missing", PlayerKindAccount, -1, TxWagerDebit, "", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentDeltasAllApply(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	id := mustCreatePlayer(t, st, ctx, PlayerKindAgent, "bot", "key-b", 10000)

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := st.ApplyDelta(ctx, id, PlayerKindAgent, -100, TxWagerDebit, "", "wager"); err != nil {
				t.Errorf("debit: %v", err)
			}
			if _, err := st.ApplyDelta(ctx, id, PlayerKindAgent, 50, TxPayoutCredit, "", "payout"); err != nil {
				t.Errorf("credit: %v", err)
			}
		}()
	}
	wg.Wait()

	bal, err := st.GetBalance(ctx, id)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if want := int64(10000 - workers*100 + workers*50); bal != want {
		t.Fatalf("balance = %d, want %d", bal, want)
	}
	sum, err := st.SumTransactions(ctx, id)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != bal {
		t.Fatalf("transaction sum %d != balance %d", sum, bal)
	}
}

func TestGrantIfDueOncePerInterval(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	id := mustCreatePlayer(t, st, ctx, PlayerKindAccount, "alice", "key-a", 0)

	bal, err := st.GrantIfDue(ctx, id, PlayerKindAccount, 500, time.Hour)
	if err != nil {
		t.Fatalf("first grant: %v", err)
	}
	if bal != 500 {
		t.Fatalf("balance = %d, want 500", bal)
	}

	if _, err := st.GrantIfDue(ctx, id, PlayerKindAccount, 500, time.Hour); !errors.Is(err, ErrGrantNotDue) {
		t.Fatalf("expected ErrGrantNotDue, got %v", err)
	}

	// A zero-length interval makes the previous grant stale immediately.
	if _, err := st.GrantIfDue(ctx, id, PlayerKindAccount, 500, 0); err != nil {
		t.Fatalf("grant after interval: %v", err)
	}
}
