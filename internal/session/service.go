package session

import (
	"context"
	"encoding/json"
	"errors"

	"fairplay-casino/internal/fair"
	"fairplay-casino/internal/games"
	"fairplay-casino/internal/store"

	"github.com/rs/zerolog/log"
)

// Store is the repository surface the ledger needs. The Postgres store
// implements it; tests run against an in-memory double that enforces the
// same atomic-delta and status-transition contracts.
type Store interface {
	GetPlayerByID(ctx context.Context, id string) (*store.Player, error)
	GetRound(ctx context.Context, id string) (*store.Round, error)
	OpenRound(ctx context.Context, p store.OpenRoundParams) (*store.Round, error)
	UpdateRoundState(ctx context.Context, id string, prev, next json.RawMessage) error
	CloseRound(ctx context.Context, p store.CloseRoundParams) error
}

var _ Store = (*store.Store)(nil)

const (
	maxExtraSwaps    = 30
	maxSupplyRetries = 5
)

type Service struct {
	store      Store
	minWagerCC int64
	maxWagerCC int64
}

func NewService(st Store, minWagerCC, maxWagerCC int64) *Service {
	if minWagerCC <= 0 {
		minWagerCC = 1
	}
	if maxWagerCC < minWagerCC {
		maxWagerCC = minWagerCC
	}
	return &Service{store: st, minWagerCC: minWagerCC, maxWagerCC: maxWagerCC}
}

// Open starts a round: it validates the request, commits to a secret
// seed, and hands the store the debit plus the active round as one
// atomic unit. The response never carries the secret.
func (s *Service) Open(ctx context.Context, playerID string, req OpenRequest) (*OpenResponse, error) {
	player, err := s.store.GetPlayerByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRequest
		}
		return nil, err
	}
	variant, ok := games.ParseVariant(req.Game)
	if !ok {
		return nil, ErrInvalidRequest
	}

	commit, err := fair.NewCommitment()
	if err != nil {
		return nil, err
	}

	var (
		debitCC     int64
		state       any
		publicState any
	)
	switch variant {
	case games.VariantSlots:
		lines := req.Lines
		if lines == 0 {
			lines = 1
		}
		if lines < 1 || lines > games.MaxLines {
			return nil, ErrInvalidRequest
		}
		if err := s.checkWager(req.WagerCC); err != nil {
			return nil, err
		}
		debitCC = req.WagerCC * int64(lines)
		st := slotsState{Lines: lines, LineWagerCC: req.WagerCC}
		state = st
		publicState = SlotsPublicState(st)

	case games.VariantShell:
		if req.Difficulty < 0 || req.Difficulty > games.MaxShellDifficulty {
			return nil, ErrInvalidRequest
		}
		if err := s.checkWager(req.WagerCC); err != nil {
			return nil, err
		}
		debitCC = req.WagerCC
		shuffle := games.ShellShuffle{
			Start: games.ShellStart(commit.Secret, commit.Visible),
			Swaps: games.ShellSwaps(commit.Secret, commit.Visible, 0, games.SwapCount(req.Difficulty)),
		}
		state = shellState{ShellShuffle: shuffle, Difficulty: req.Difficulty}
		publicState = ShellPublicState{Cups: games.ShellCups, Swaps: shuffle.Swaps}

	case games.VariantRoulette:
		total, err := games.ValidateRouletteBets(req.Bets)
		if err != nil {
			return nil, ErrInvalidRequest
		}
		if err := s.checkWager(total); err != nil {
			return nil, err
		}
		debitCC = total
		state = rouletteState{Bets: req.Bets}
		publicState = RoulettePublicState{Bets: req.Bets}

	case games.VariantClaw:
		if err := s.checkWager(req.WagerCC); err != nil {
			return nil, err
		}
		debitCC = req.WagerCC
	}

	var stateJSON json.RawMessage
	if state != nil {
		stateJSON, err = json.Marshal(state)
		if err != nil {
			return nil, err
		}
	}

	round, err := s.store.OpenRound(ctx, store.OpenRoundParams{
		Game:        string(variant),
		PlayerID:    player.ID,
		PlayerKind:  player.Kind,
		WagerCC:     debitCC,
		SeedHash:    commit.Hash,
		SecretSeed:  commit.Secret,
		VisibleSeed: commit.Visible,
		GameState:   stateJSON,
	})
	if err != nil {
		if errors.Is(err, store.ErrInsufficientBalance) {
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}

	return &OpenResponse{
		RoundID:     round.ID,
		Game:        round.Game,
		WagerCC:     round.WagerCC,
		SeedHash:    round.SeedHash,
		VisibleSeed: round.VisibleSeed,
		PublicState: publicState,
	}, nil
}

// Supply extends a two-phase round's stored state without touching
// balances or status. Only shell rounds accept it: the shuffle grows by
// req.ExtraSwaps before the guess is taken. The state write is
// conditional on the state that was read, so two concurrent batches
// cannot drop each other; the loser rereads and appends after the
// winner.
func (s *Service) Supply(ctx context.Context, playerID, roundID string, req SupplyRequest) (*SupplyResponse, error) {
	var lastErr error
	for attempt := 0; attempt < maxSupplyRetries; attempt++ {
		round, err := s.loadOwnedRound(ctx, playerID, roundID)
		if err != nil {
			return nil, err
		}
		if round.Status != store.RoundStatusActive {
			return nil, ErrRoundCompleted
		}
		if round.Game != string(games.VariantShell) {
			return nil, ErrInvalidRequest
		}
		if req.ExtraSwaps < 1 || req.ExtraSwaps > maxExtraSwaps {
			return nil, ErrInvalidRequest
		}

		st, err := decodeState[shellState](round)
		if err != nil {
			return nil, err
		}
		extra := games.ShellSwaps(round.SecretSeed, round.VisibleSeed, len(st.Swaps), req.ExtraSwaps)
		st.Swaps = append(st.Swaps, extra...)

		stateJSON, err := json.Marshal(st)
		if err != nil {
			return nil, err
		}
		err = s.store.UpdateRoundState(ctx, round.ID, round.GameState, stateJSON)
		if errors.Is(err, store.ErrStateConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, mapStoreErr(err)
		}
		return &SupplyResponse{
			RoundID:     round.ID,
			PublicState: ShellPublicState{Cups: games.ShellCups, Swaps: st.Swaps},
		}, nil
	}
	return nil, lastErr
}

// Close resolves and settles a round. The status transition is a
// compare-and-swap at the store, so a repeated close can never re-apply
// the payout; it surfaces as round_already_completed.
func (s *Service) Close(ctx context.Context, playerID, roundID string, req CloseRequest) (*CloseResponse, error) {
	round, err := s.loadOwnedRound(ctx, playerID, roundID)
	if err != nil {
		return nil, err
	}
	if round.Status != store.RoundStatusActive {
		return nil, ErrRoundCompleted
	}
	if !fair.VerifyCommitment(round.SecretSeed, round.SeedHash) {
		// The engine can never produce this; it means the stored seed
		// or hash was tampered with or corrupted.
		log.Error().Str("round_id", round.ID).Msg("commitment integrity failure")
		return nil, ErrCommitmentIntegrity
	}

	payoutCC, result, err := s.resolve(round, req)
	if err != nil {
		return nil, err
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	if err := s.store.CloseRound(ctx, store.CloseRoundParams{
		ID:         round.ID,
		PlayerID:   round.PlayerID,
		PlayerKind: round.PlayerKind,
		PayoutCC:   payoutCC,
		Result:     resultJSON,
	}); err != nil {
		return nil, mapStoreErr(err)
	}

	return &CloseResponse{
		RoundID:     round.ID,
		Game:        round.Game,
		WagerCC:     round.WagerCC,
		PayoutCC:    payoutCC,
		Result:      resultJSON,
		SecretSeed:  round.SecretSeed,
		SeedHash:    round.SeedHash,
		VisibleSeed: round.VisibleSeed,
	}, nil
}

// Play opens and immediately closes a single-shot round (slots and
// roulette need no second player input).
func (s *Service) Play(ctx context.Context, playerID string, req OpenRequest) (*PlayResponse, error) {
	variant, ok := games.ParseVariant(req.Game)
	if !ok || games.TwoPhase(variant) {
		return nil, ErrInvalidRequest
	}
	opened, err := s.Open(ctx, playerID, req)
	if err != nil {
		return nil, err
	}
	closed, err := s.Close(ctx, playerID, opened.RoundID, CloseRequest{})
	if err != nil {
		return nil, err
	}
	return &PlayResponse{Open: *opened, Close: *closed}, nil
}

func (s *Service) resolve(round *store.Round, req CloseRequest) (int64, any, error) {
	switch games.Variant(round.Game) {
	case games.VariantSlots:
		st, err := decodeState[slotsState](round)
		if err != nil {
			return 0, nil, err
		}
		payout, res := games.ResolveSlots(round.SecretSeed, round.VisibleSeed, st.LineWagerCC, st.Lines)
		return payout, res, nil

	case games.VariantRoulette:
		st, err := decodeState[rouletteState](round)
		if err != nil {
			return 0, nil, err
		}
		payout, res := games.ResolveRoulette(round.SecretSeed, round.VisibleSeed, st.Bets)
		return payout, res, nil

	case games.VariantShell:
		if req.Guess == nil || *req.Guess < 0 || *req.Guess >= games.ShellCups {
			return 0, nil, ErrInvalidRequest
		}
		st, err := decodeState[shellState](round)
		if err != nil {
			return 0, nil, err
		}
		payout, res := games.ResolveShell(st.ShellShuffle, *req.Guess, round.WagerCC)
		return payout, res, nil

	case games.VariantClaw:
		if req.Won == nil {
			return 0, nil, ErrInvalidRequest
		}
		payout, res := games.ResolveClaw(round.WagerCC, *req.Won, req.DeclaredValueCC)
		return payout, res, nil

	default:
		return 0, nil, ErrRoundNotResolvable
	}
}

// Get returns the read view of a round. While the round is active the
// secret seed is withheld and the public state hides anything that would
// reveal the outcome (the shell start cup in particular).
func (s *Service) Get(ctx context.Context, playerID, roundID string) (*RoundView, error) {
	round, err := s.loadOwnedRound(ctx, playerID, roundID)
	if err != nil {
		return nil, err
	}
	view := &RoundView{
		ID:          round.ID,
		Game:        round.Game,
		PlayerID:    round.PlayerID,
		Status:      round.Status,
		WagerCC:     round.WagerCC,
		PayoutCC:    round.PayoutCC,
		SeedHash:    round.SeedHash,
		VisibleSeed: round.VisibleSeed,
		CreatedAt:   round.CreatedAt,
		CompletedAt: round.CompletedAt,
	}
	if round.Status == store.RoundStatusCompleted {
		view.SecretSeed = round.SecretSeed
		if len(round.Result) > 0 {
			var result any
			_ = json.Unmarshal(round.Result, &result)
			view.Result = result
		}
	}
	view.PublicState = publicStateFor(round)
	return view, nil
}

func publicStateFor(round *store.Round) any {
	switch games.Variant(round.Game) {
	case games.VariantSlots:
		st, err := decodeState[slotsState](round)
		if err != nil {
			return nil
		}
		return SlotsPublicState(st)
	case games.VariantRoulette:
		st, err := decodeState[rouletteState](round)
		if err != nil {
			return nil
		}
		return RoulettePublicState(st)
	case games.VariantShell:
		st, err := decodeState[shellState](round)
		if err != nil {
			return nil
		}
		return ShellPublicState{Cups: games.ShellCups, Swaps: st.Swaps}
	default:
		return nil
	}
}

// Verify recomputes one sub-outcome from revealed fields. Pure; exposed
// so third parties can audit any completed round.
func Verify(secret, visible string, index, lo, hi int) (float64, int) {
	v := fair.Derive(secret, visible, index)
	return v, fair.DeriveRange(secret, visible, index, lo, hi)
}

func (s *Service) checkWager(wagerCC int64) error {
	if wagerCC < s.minWagerCC || wagerCC > s.maxWagerCC {
		return ErrInvalidRequest
	}
	return nil
}

// loadOwnedRound treats a foreign round id the same as an unknown one.
func (s *Service) loadOwnedRound(ctx context.Context, playerID, roundID string) (*store.Round, error) {
	if roundID == "" {
		return nil, ErrRoundNotFound
	}
	round, err := s.store.GetRound(ctx, roundID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if playerID != "" && round.PlayerID != playerID {
		return nil, ErrRoundNotFound
	}
	return round, nil
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrRoundNotFound
	case errors.Is(err, store.ErrRoundNotActive):
		return ErrRoundCompleted
	case errors.Is(err, store.ErrInsufficientBalance):
		return ErrInsufficientBalance
	default:
		return err
	}
}
