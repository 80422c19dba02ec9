package bindings

import (
	"errors"
	"fmt"

	"github.com/MJE43/hilo-casino-desktop/internal/games"
	"github.com/MJE43/hilo-casino-desktop/internal/store"
)

var (
	ErrHistoryUnavailable = errors.New("game history is unavailable")
	ErrNotReplayable      = errors.New("game was dealt at random and cannot be replayed")
)

// ReplayResult compares a recorded seeded game with a fresh deal of its seed.
type ReplayResult struct {
	GameID        string   `json:"gameId"`
	SeedHash      string   `json:"seedHash"`
	Guesses       int      `json:"guesses"`
	RecordedScore int      `json:"recordedScore"`
	ReplayedScore int      `json:"replayedScore"`
	Outcomes      []string `json:"outcomes"`
	Matches       bool     `json:"matches"`
	Mismatch      string   `json:"mismatch,omitempty"`
}

// History lists past games, newest first.
func (a *App) History(page, perPage int) (*store.GamesList, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.history == nil {
		return nil, ErrHistoryUnavailable
	}
	return a.history.ListGames(store.GamesQuery{Page: page, PerPage: perPage})
}

// Stats summarises finished games.
func (a *App) Stats() (store.Stats, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.history == nil {
		return store.Stats{}, ErrHistoryUnavailable
	}
	return a.history.Stats()
}

// ReplayGame re-deals a seeded game from history and checks every revealed
// card and the score against what was recorded.
func (a *App) ReplayGame(id string) (ReplayResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.history == nil {
		return ReplayResult{}, ErrHistoryUnavailable
	}
	game, err := a.history.GetGame(id)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("load game %s: %w", id, err)
	}
	if game.Seed == "" {
		return ReplayResult{}, ErrNotReplayable
	}
	recorded, err := a.history.GetGuesses(id)
	if err != nil {
		return ReplayResult{}, err
	}

	dirs := make([]games.Direction, len(recorded))
	recordedScore := 0
	for i, g := range recorded {
		d, err := games.ParseDirection(g.Direction)
		if err != nil {
			return ReplayResult{}, fmt.Errorf("guess %d: %w", g.Seq, err)
		}
		dirs[i] = d
		recordedScore += g.Gained
	}
	if game.EndedAt != nil {
		recordedScore = game.FinalScore
	}

	final, outcomes, err := games.Replay(game.Seed, dirs)
	if err != nil {
		return ReplayResult{}, err
	}

	res := ReplayResult{
		GameID:        game.ID,
		SeedHash:      game.SeedHash,
		Guesses:       len(recorded),
		RecordedScore: recordedScore,
		ReplayedScore: final.Score,
		Outcomes:      make([]string, len(outcomes)),
		Matches:       true,
	}
	for i, o := range outcomes {
		res.Outcomes[i] = o.Kind.String()
		if res.Matches && (int(o.Revealed) != recorded[i].Revealed || o.Kind.String() != recorded[i].Outcome) {
			res.Matches = false
			res.Mismatch = fmt.Sprintf("guess %d: recorded %s %d, replayed %s %d",
				recorded[i].Seq, recorded[i].Outcome, recorded[i].Revealed, o.Kind, o.Revealed)
		}
	}
	if res.Matches && final.Score != recordedScore {
		res.Matches = false
		res.Mismatch = fmt.Sprintf("recorded score %d, replayed %d", recordedScore, final.Score)
	}
	return res, nil
}
