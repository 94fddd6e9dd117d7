package games

// ClawPayoutCapMultiplier bounds what the client-simulated machine can
// claim a prize is worth relative to the wager.
const ClawPayoutCapMultiplier = 10

type ClawResult struct {
	Won             bool  `json:"won"`
	DeclaredValueCC int64 `json:"declared_value_cc"`
	PayoutCC        int64 `json:"payout_cc"`
	Clamped         bool  `json:"clamped"`
}

// ResolveClaw clamps a client-declared prize. The physical simulation is
// decorative; this clamp is the only server-side fairness control.
func ResolveClaw(wagerCC int64, won bool, declaredValueCC int64) (int64, ClawResult) {
	res := ClawResult{Won: won, DeclaredValueCC: declaredValueCC}
	if !won || declaredValueCC <= 0 {
		return 0, res
	}
	capCC := wagerCC * ClawPayoutCapMultiplier
	res.PayoutCC = declaredValueCC
	if res.PayoutCC > capCC {
		res.PayoutCC = capCC
		res.Clamped = true
	}
	return res.PayoutCC, res
}
