package games

import "fairplay-casino/internal/fair"

// European wheel: pockets 0-36, single zero.
const RoulettePockets = 37

type RouletteBetType string

const (
	BetStraight RouletteBetType = "straight"
	BetRed      RouletteBetType = "red"
	BetBlack    RouletteBetType = "black"
	BetOdd      RouletteBetType = "odd"
	BetEven     RouletteBetType = "even"
	BetLow      RouletteBetType = "low"  // 1-18
	BetHigh     RouletteBetType = "high" // 19-36
	BetDozen    RouletteBetType = "dozen"
	BetColumn   RouletteBetType = "column"
)

// RouletteBet is one independently evaluated bet. Target is the pocket
// for straight bets and the 1-based group for dozen/column bets.
type RouletteBet struct {
	Type     RouletteBetType `json:"type"`
	Target   int             `json:"target,omitempty"`
	AmountCC int64           `json:"amount_cc"`
}

var rouletteMultiplier = map[RouletteBetType]int64{
	BetStraight: 35,
	BetRed:      2,
	BetBlack:    2,
	BetOdd:      2,
	BetEven:     2,
	BetLow:      2,
	BetHigh:     2,
	BetDozen:    3,
	BetColumn:   3,
}

// Color is derived from parity, not drawn and not the physical wheel
// layout: odd pockets are red, even non-zero pockets are black.
func redPocket(pocket int) bool {
	return pocket != 0 && pocket%2 == 1
}

// ValidateRouletteBets checks shape and returns the round's total wager.
func ValidateRouletteBets(bets []RouletteBet) (int64, error) {
	if len(bets) == 0 {
		return 0, ErrInvalidBet
	}
	var total int64
	for _, b := range bets {
		if b.AmountCC <= 0 {
			return 0, ErrInvalidBet
		}
		switch b.Type {
		case BetStraight:
			if b.Target < 0 || b.Target >= RoulettePockets {
				return 0, ErrInvalidBet
			}
		case BetDozen, BetColumn:
			if b.Target < 1 || b.Target > 3 {
				return 0, ErrInvalidBet
			}
		case BetRed, BetBlack, BetOdd, BetEven, BetLow, BetHigh:
		default:
			return 0, ErrInvalidBet
		}
		total += b.AmountCC
	}
	return total, nil
}

// DrawPocket draws the winning pocket; the wheel reserves index 0.
func DrawPocket(secret, visible string) int {
	return fair.DeriveRange(secret, visible, 0, 0, RoulettePockets-1)
}

// PocketColor is derived from the pocket, never drawn.
func PocketColor(pocket int) string {
	switch {
	case pocket == 0:
		return "green"
	case redPocket(pocket):
		return "red"
	default:
		return "black"
	}
}

func betWins(b RouletteBet, pocket int) bool {
	if pocket == 0 {
		// The house pocket loses every outside bet.
		return b.Type == BetStraight && b.Target == 0
	}
	switch b.Type {
	case BetStraight:
		return b.Target == pocket
	case BetRed:
		return redPocket(pocket)
	case BetBlack:
		return !redPocket(pocket)
	case BetOdd:
		return pocket%2 == 1
	case BetEven:
		return pocket%2 == 0
	case BetLow:
		return pocket <= 18
	case BetHigh:
		return pocket >= 19
	case BetDozen:
		return (pocket-1)/12+1 == b.Target
	case BetColumn:
		return (pocket-1)%3+1 == b.Target
	default:
		return false
	}
}

type RouletteBetOutcome struct {
	Bet      RouletteBet `json:"bet"`
	Won      bool        `json:"won"`
	PayoutCC int64       `json:"payout_cc"`
}

type RouletteResult struct {
	Pocket        int                  `json:"pocket"`
	Color         string               `json:"color"`
	Bets          []RouletteBetOutcome `json:"bets"`
	TotalPayoutCC int64                `json:"total_payout_cc"`
}

// ResolveRouletteBets evaluates every bet against one drawn pocket.
func ResolveRouletteBets(pocket int, bets []RouletteBet) (int64, RouletteResult) {
	res := RouletteResult{
		Pocket: pocket,
		Color:  PocketColor(pocket),
		Bets:   make([]RouletteBetOutcome, 0, len(bets)),
	}
	for _, b := range bets {
		out := RouletteBetOutcome{Bet: b}
		if betWins(b, pocket) {
			out.Won = true
			out.PayoutCC = b.AmountCC * rouletteMultiplier[b.Type]
		}
		res.Bets = append(res.Bets, out)
		res.TotalPayoutCC += out.PayoutCC
	}
	return res.TotalPayoutCC, res
}

// ResolveRoulette draws the pocket from the round's seeds and settles
// the bets.
func ResolveRoulette(secret, visible string, bets []RouletteBet) (int64, RouletteResult) {
	return ResolveRouletteBets(DrawPocket(secret, visible), bets)
}
