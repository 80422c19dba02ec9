package games

import "fmt"

// Replay deals a seeded game and applies guesses in order. It returns the
// final state and every outcome. Guesses past the end of the game are an error.
func Replay(seed string, guesses []Direction) (RoundState, []Outcome, error) {
	e := NewEngine(NewSeededSource(seed))
	outcomes := make([]Outcome, 0, len(guesses))
	for i, d := range guesses {
		o, err := e.Guess(d)
		if err != nil {
			return e.State(), outcomes, fmt.Errorf("replay guess %d: %w", i+1, err)
		}
		outcomes = append(outcomes, o)
	}
	return e.State(), outcomes, nil
}
