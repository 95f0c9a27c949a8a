package service

import "errors"

var (
	// ErrInvalidProfile marks a raw attribute outside its collection bounds.
	ErrInvalidProfile = errors.New("invalid borrower profile")
	// ErrScoringUnavailable marks a model that could not produce a score.
	ErrScoringUnavailable = errors.New("scoring unavailable")
	// ErrProbabilityOutOfRange marks a model output outside [0,1].
	ErrProbabilityOutOfRange = errors.New("probability out of range")
)
