package games

import "fairplay-casino/internal/fair"

// SlotSymbol is one reel symbol: its draw weight and the wager
// multipliers for 3, 4 and 5 consecutive matches from the left.
type SlotSymbol struct {
	Name   string
	Weight int
	Pay    [3]int64
}

// Rarer symbols pay more. Weights sum to 80.
var reelSymbols = []SlotSymbol{
	{Name: "cherry", Weight: 20, Pay: [3]int64{2, 5, 10}},
	{Name: "lemon", Weight: 16, Pay: [3]int64{3, 6, 15}},
	{Name: "orange", Weight: 13, Pay: [3]int64{4, 8, 20}},
	{Name: "plum", Weight: 10, Pay: [3]int64{5, 10, 25}},
	{Name: "bell", Weight: 8, Pay: [3]int64{8, 15, 40}},
	{Name: "bar", Weight: 6, Pay: [3]int64{10, 25, 60}},
	{Name: "seven", Weight: 4, Pay: [3]int64{15, 50, 150}},
	{Name: "diamond", Weight: 3, Pay: [3]int64{25, 100, 500}},
}

const (
	ReelCount = 5
	MaxLines  = 5
)

func totalReelWeight() int {
	sum := 0
	for _, s := range reelSymbols {
		sum += s.Weight
	}
	return sum
}

// SymbolName resolves a symbol id for result records.
func SymbolName(id int) string {
	if id < 0 || id >= len(reelSymbols) {
		return ""
	}
	return reelSymbols[id].Name
}

// SpinLine draws the reel symbols for one payline. Line l reel i
// consumes derivation index l*ReelCount+i, so every reel is replayable
// from the revealed seeds alone.
func SpinLine(secret, visible string, line int) []int {
	total := totalReelWeight()
	out := make([]int, ReelCount)
	for reel := 0; reel < ReelCount; reel++ {
		roll := fair.DeriveRange(secret, visible, line*ReelCount+reel, 0, total-1)
		out[reel] = symbolAt(roll)
	}
	return out
}

func symbolAt(roll int) int {
	acc := 0
	for id, s := range reelSymbols {
		acc += s.Weight
		if roll < acc {
			return id
		}
	}
	return len(reelSymbols) - 1
}

// ScoreLine counts consecutive matches of the first reel's symbol and
// pays the tiered multiplier. Fewer than 3 matches pays nothing.
func ScoreLine(symbols []int, lineWagerCC int64) (payoutCC int64, matches, symbolID int) {
	if len(symbols) == 0 {
		return 0, 0, -1
	}
	symbolID = symbols[0]
	matches = 1
	for _, s := range symbols[1:] {
		if s != symbolID {
			break
		}
		matches++
	}
	if matches < 3 {
		return 0, matches, symbolID
	}
	mult := reelSymbols[symbolID].Pay[matches-3]
	return lineWagerCC * mult, matches, symbolID
}

type SlotsLine struct {
	Symbols  []int `json:"symbols"`
	Matches  int   `json:"matches"`
	SymbolID int   `json:"symbol_id"`
	PayoutCC int64 `json:"payout_cc"`
}

type SlotsResult struct {
	Lines         []SlotsLine `json:"lines"`
	TotalPayoutCC int64       `json:"total_payout_cc"`
}

// ResolveSlots resolves every payline of one spin. The caller debits
// wagerCC×lines up front; payout here is the sum over lines.
func ResolveSlots(secret, visible string, wagerCC int64, lines int) (int64, SlotsResult) {
	res := SlotsResult{Lines: make([]SlotsLine, 0, lines)}
	for line := 0; line < lines; line++ {
		symbols := SpinLine(secret, visible, line)
		payout, matches, symbolID := ScoreLine(symbols, wagerCC)
		res.Lines = append(res.Lines, SlotsLine{
			Symbols:  symbols,
			Matches:  matches,
			SymbolID: symbolID,
			PayoutCC: payout,
		})
		res.TotalPayoutCC += payout
	}
	return res.TotalPayoutCC, res
}

// SymbolWeights exposes the configured weights for distribution checks.
func SymbolWeights() []int {
	out := make([]int, len(reelSymbols))
	for i, s := range reelSymbols {
		out[i] = s.Weight
	}
	return out
}
