package session

import (
	"errors"
	"fmt"
)

var (
	ErrGameAlreadyActive = errors.New("game already in progress")
	ErrNoActiveGame      = errors.New("no active game")
	ErrInvalidWord       = errors.New("not in word list")
	ErrWrongLength       = errors.New("wrong word length")

	// ErrInvalidConfig is wrapped by every error New returns.
	ErrInvalidConfig = errors.New("invalid session configuration")
)

// LengthError reports a guess whose letter count differs from the solution.
type LengthError struct {
	Got  int
	Want int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("guess has %d letters, want %d", e.Got, e.Want)
}

func (e *LengthError) Unwrap() error { return ErrWrongLength }

// TooShort reports whether the guess had fewer letters than the solution.
func (e *LengthError) TooShort() bool { return e.Got < e.Want }
