package games

import "fairplay-casino/internal/fair"

const (
	ShellCups             = 3
	shellBaseSwaps        = 5
	shellSwapsPerLevel    = 3
	MaxShellDifficulty    = 5
	ShellPayoutMultiplier = 2
)

// SwapCount is the fixed shuffle-length formula for a difficulty level.
func SwapCount(difficulty int) int {
	return shellBaseSwaps + difficulty*shellSwapsPerLevel
}

// ShellShuffle is the stored state of one shell round: where the pearl
// started and every swap applied since. The swaps are public from the
// moment they are generated; the start position is not.
type ShellShuffle struct {
	Start int      `json:"start"`
	Swaps [][2]int `json:"swaps"`
}

// ShellStart draws the pearl's starting cup. Index 0 is reserved for it.
func ShellStart(secret, visible string) int {
	return fair.DeriveRange(secret, visible, 0, 0, ShellCups-1)
}

// ShellSwaps draws count swaps beginning at swap number from. Swap k
// consumes indices 1+2k (first cup) and 2+2k (one of the two remaining
// cups), so the second endpoint never equals the first and every swap is
// replayable by position alone.
func ShellSwaps(secret, visible string, from, count int) [][2]int {
	out := make([][2]int, 0, count)
	for k := from; k < from+count; k++ {
		first := fair.DeriveRange(secret, visible, 1+2*k, 0, ShellCups-1)
		pick := fair.DeriveRange(secret, visible, 2+2*k, 0, ShellCups-2)
		second := otherCup(first, pick)
		out = append(out, [2]int{first, second})
	}
	return out
}

func otherCup(first, pick int) int {
	cup := 0
	for {
		if cup != first {
			if pick == 0 {
				return cup
			}
			pick--
		}
		cup++
	}
}

// TrackShell folds the swap sequence over the starting position and
// returns the pearl's final cup.
func TrackShell(start int, swaps [][2]int) int {
	pos := start
	for _, sw := range swaps {
		switch pos {
		case sw[0]:
			pos = sw[1]
		case sw[1]:
			pos = sw[0]
		}
	}
	return pos
}

type ShellResult struct {
	Start         int      `json:"start"`
	Swaps         [][2]int `json:"swaps"`
	FinalPosition int      `json:"final_position"`
	Guess         int      `json:"guess"`
	Won           bool     `json:"won"`
	PayoutCC      int64    `json:"payout_cc"`
}

// ResolveShell settles a guess against the tracked pearl position.
func ResolveShell(shuffle ShellShuffle, guess int, wagerCC int64) (int64, ShellResult) {
	final := TrackShell(shuffle.Start, shuffle.Swaps)
	res := ShellResult{
		Start:         shuffle.Start,
		Swaps:         shuffle.Swaps,
		FinalPosition: final,
		Guess:         guess,
	}
	if guess == final {
		res.Won = true
		res.PayoutCC = wagerCC * ShellPayoutMultiplier
	}
	return res.PayoutCC, res
}
