package types

import "errors"

var (
	// ErrInvalidArgument is returned when a value is outside of its accepted domain.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrTypeMismatch is returned when input does not have the expected structure.
	ErrTypeMismatch = errors.New("type mismatch")
)
