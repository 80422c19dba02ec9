package leaderboard

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName     = errors.New("leaderboard: name is empty")
	ErrNegativeScore = errors.New("leaderboard: score is negative")
)

// ReadError means the leaderboard file was missing, unreadable or corrupt.
// Load recovers from it by returning an empty board.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("leaderboard: read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError means a save did not reach disk. The score was not kept.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("leaderboard: write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
