package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"fairplay-casino/internal/fair"
	"fairplay-casino/internal/games"
)

// fair-verify recomputes round outcomes offline from revealed seeds, so
// a player can audit a settlement without trusting the server.
func main() {
	var (
		secret   = flag.String("secret", "", "revealed secret seed")
		hash     = flag.String("hash", "", "seed hash committed at open (optional)")
		visible  = flag.String("visible", "", "visible seed")
		game     = flag.String("game", "", "slots|shell|roulette; empty derives a single value")
		index    = flag.Int("index", 0, "derivation index (game empty)")
		lo       = flag.Int("lo", 0, "range low (game empty)")
		hi       = flag.Int("hi", 0, "range high (game empty)")
		wager    = flag.Int64("wager", 0, "wager in cc (per line for slots)")
		lines    = flag.Int("lines", 1, "slots: number of lines")
		swaps    = flag.Int("swaps", 0, "shell: total swap count of the round")
		guess    = flag.Int("guess", -1, "shell: guessed cup")
		betsJSON = flag.String("bets", "", "roulette: bets as JSON array")
	)
	flag.Parse()

	if *secret == "" || *visible == "" {
		fatal("both -secret and -visible are required")
	}
	out := map[string]any{}
	if *hash != "" {
		out["commitment_ok"] = fair.VerifyCommitment(*secret, *hash)
	}

	switch *game {
	case "":
		if *hi < *lo {
			fatal("-hi must be >= -lo")
		}
		value, drawn := fair.Derive(*secret, *visible, *index), 0
		if *hi > *lo || *lo != 0 {
			drawn = fair.DeriveRange(*secret, *visible, *index, *lo, *hi)
			out["drawn"] = drawn
		}
		out["index"] = *index
		out["value"] = value

	case "slots":
		if *wager <= 0 {
			fatal("slots needs -wager > 0")
		}
		if *lines < 1 || *lines > games.MaxLines {
			fatal("slots needs 1 <= -lines <= %d", games.MaxLines)
		}
		payout, result := games.ResolveSlots(*secret, *visible, *wager, *lines)
		out["payout_cc"] = payout
		out["result"] = result

	case "shell":
		if *swaps <= 0 || *guess < 0 || *guess >= games.ShellCups {
			fatal("shell needs -swaps > 0 and 0 <= -guess < %d", games.ShellCups)
		}
		shuffle := games.ShellShuffle{
			Start: games.ShellStart(*secret, *visible),
			Swaps: games.ShellSwaps(*secret, *visible, 0, *swaps),
		}
		payout, result := games.ResolveShell(shuffle, *guess, *wager)
		out["payout_cc"] = payout
		out["result"] = result

	case "roulette":
		var bets []games.RouletteBet
		if err := json.Unmarshal([]byte(*betsJSON), &bets); err != nil {
			fatal("invalid -bets: %v", err)
		}
		if _, err := games.ValidateRouletteBets(bets); err != nil {
			fatal("invalid -bets: %v", err)
		}
		payout, result := games.ResolveRoulette(*secret, *visible, bets)
		out["payout_cc"] = payout
		out["result"] = result

	default:
		fatal("unknown -game %q", *game)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
