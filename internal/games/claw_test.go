package games

import "testing"

func TestResolveClawWithinCap(t *testing.T) {
	payout, res := ResolveClaw(100, true, 500)
	if payout != 500 || res.Clamped {
		t.Fatalf("payout = %d clamped = %v, want 500 unclamped", payout, res.Clamped)
	}
}

func TestResolveClawClampsDeclaredValue(t *testing.T) {
	payout, res := ResolveClaw(100, true, 5000)
	if payout != 1000 {
		t.Fatalf("payout = %d, want 1000", payout)
	}
	if !res.Clamped {
		t.Fatal("expected clamp flag")
	}
}

func TestResolveClawLossPaysNothing(t *testing.T) {
	payout, res := ResolveClaw(100, false, 5000)
	if payout != 0 || res.PayoutCC != 0 {
		t.Fatalf("payout = %d, want 0", payout)
	}
}

func TestResolveClawRejectsNonPositiveValue(t *testing.T) {
	if payout, _ := ResolveClaw(100, true, 0); payout != 0 {
		t.Fatalf("payout = %d, want 0", payout)
	}
	if payout, _ := ResolveClaw(100, true, -50); payout != 0 {
		t.Fatalf("payout = %d, want 0", payout)
	}
}
