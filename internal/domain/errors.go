package domain

import "errors"

var (
	ErrDuplicateName      = errors.New("name already in use")
	ErrInvalidName        = errors.New("invalid name")
	ErrAlreadyJoined      = errors.New("connection already joined")
	ErrNotRequeueable     = errors.New("identity cannot be requeued")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvariantViolation = errors.New("invariant violation")
)
