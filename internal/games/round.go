package games

import "errors"

// StartingTries is the number of wrong guesses allowed per game.
const StartingTries = 4

var (
	ErrInvalidDirection = errors.New("games: invalid guess direction")
	ErrGameOver         = errors.New("games: game is over")
)

// RoundState is a snapshot of a game in progress (or just finished).
type RoundState struct {
	CurrentValue   CardValue `json:"currentValue"`
	Round          int       `json:"round"`
	Score          int       `json:"score"`
	TriesRemaining int       `json:"triesRemaining"`
	Over           bool      `json:"over"`
}

// OutcomeKind discriminates Outcome.
type OutcomeKind int

const (
	Correct OutcomeKind = iota + 1
	Incorrect
	Lost
)

func (k OutcomeKind) String() string {
	switch k {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// Outcome is the result of a single guess.
//
// Gained is set for Correct, TriesRemaining for Incorrect and Lost,
// FinalScore for Lost. State is the engine state after the guess.
type Outcome struct {
	Kind           OutcomeKind `json:"kind"`
	Revealed       CardValue   `json:"revealed"`
	Gained         int         `json:"gained,omitempty"`
	TriesRemaining int         `json:"triesRemaining"`
	FinalScore     int         `json:"finalScore,omitempty"`
	State          RoundState  `json:"state"`
}

// Engine owns one game of higher-or-lower. It is not safe for concurrent use.
type Engine struct {
	src   CardSource
	state RoundState
}

// NewEngine starts a game dealing from src.
func NewEngine(src CardSource) *Engine {
	e := &Engine{src: src}
	e.NewGame()
	return e
}

// State returns a copy of the current state.
func (e *Engine) State() RoundState {
	return e.state
}

// NextPoints is what a correct guess this round would earn.
func (e *Engine) NextPoints() int {
	return PointsForRound(e.state.Round)
}

// NewGame discards any game in progress and deals a fresh one.
func (e *Engine) NewGame() RoundState {
	e.state = RoundState{
		CurrentValue:   e.src.Draw(),
		Round:          1,
		Score:          0,
		TriesRemaining: StartingTries,
	}
	return e.state
}

// Reseed switches the card source and starts a new game from it.
func (e *Engine) Reseed(src CardSource) RoundState {
	e.src = src
	return e.NewGame()
}

// Guess draws the next card and scores the call against the current one.
// A tie is always wrong.
func (e *Engine) Guess(d Direction) (Outcome, error) {
	if !d.Valid() {
		return Outcome{}, ErrInvalidDirection
	}
	if e.state.Over {
		return Outcome{}, ErrGameOver
	}

	next := e.src.Draw()
	cur := e.state.CurrentValue

	correct := false
	if next != cur {
		correct = (d == Higher && next > cur) || (d == Lower && next < cur)
	}

	if correct {
		gained := PointsForRound(e.state.Round)
		e.state.Score += gained
		e.state.Round++
		e.state.CurrentValue = next
		return Outcome{
			Kind:           Correct,
			Revealed:       next,
			Gained:         gained,
			TriesRemaining: e.state.TriesRemaining,
			State:          e.state,
		}, nil
	}

	e.state.TriesRemaining--
	if e.state.TriesRemaining > 0 {
		e.state.CurrentValue = next
		return Outcome{
			Kind:           Incorrect,
			Revealed:       next,
			TriesRemaining: e.state.TriesRemaining,
			State:          e.state,
		}, nil
	}

	// Leave CurrentValue on the losing round's card.
	e.state.Over = true
	return Outcome{
		Kind:       Lost,
		Revealed:   next,
		FinalScore: e.state.Score,
		State:      e.state,
	}, nil
}
