package games

import "errors"

// Variant tags one game type across rounds, transactions and the API.
type Variant string

const (
	VariantSlots    Variant = "slots"
	VariantShell    Variant = "shell"
	VariantRoulette Variant = "roulette"
	VariantClaw     Variant = "claw"
)

var ErrInvalidBet = errors.New("invalid_bet")

func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case VariantSlots, VariantShell, VariantRoulette, VariantClaw:
		return Variant(s), true
	default:
		return "", false
	}
}

// TwoPhase reports whether a variant needs a second player input after
// the wager before it can resolve.
func TwoPhase(v Variant) bool {
	return v == VariantShell || v == VariantClaw
}
