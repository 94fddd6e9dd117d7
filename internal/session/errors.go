package session

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid_request")
	ErrInsufficientBalance = errors.New("insufficient_balance")
	ErrRoundNotFound       = errors.New("round_not_found")
	ErrRoundCompleted      = errors.New("round_already_completed")
	ErrCommitmentIntegrity = errors.New("commitment_integrity_failure")
	ErrRoundNotResolvable  = errors.New("round_not_resolvable")
)
