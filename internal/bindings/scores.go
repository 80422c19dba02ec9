package bindings

import (
	"errors"
	"log"
	"strings"

	"github.com/MJE43/hilo-casino-desktop/internal/leaderboard"
)

// ErrNoFinishedGame is returned by SubmitScore while a game is still running.
var ErrNoFinishedGame = errors.New("no finished game to save")

// RankedEntry is a leaderboard row with its 1-based position.
type RankedEntry struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// RecordResult tells the frontend what happened to the final score.
type RecordResult struct {
	Saved  bool          `json:"saved"`
	Notice string        `json:"notice"`
	Score  int           `json:"score"`
	Board  []RankedEntry `json:"board"`
	State  GameView      `json:"state"`
}

// SubmitScore saves the lost game's score under name and deals a new game.
// A blank name skips saving. A failed write is reported in Notice rather
// than as an error so the table keeps running.
func (a *App) SubmitScore(name string) (RecordResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pending == nil {
		return RecordResult{}, ErrNoFinishedGame
	}
	score := *a.pending
	res := RecordResult{Score: score}

	name = strings.TrimSpace(name)
	if name == "" {
		res.Notice = "Score not saved."
	} else if _, err := a.board.Record(name, score); err != nil {
		log.Printf("leaderboard: %v", err)
		res.Notice = "Score not saved."
		var werr *leaderboard.WriteError
		if errors.As(err, &werr) {
			res.Notice = "Score not saved: the leaderboard file could not be written."
		}
	} else {
		res.Saved = true
		res.Notice = "Score saved to leaderboard."
		if a.history != nil && a.gameID != "" {
			if err := a.history.SetPlayerName(a.gameID, name); err != nil {
				log.Printf("history: %v", err)
			}
		}
	}

	res.Board = a.topEntries()
	a.startGame(a.nextSeed())
	res.State = a.view()
	return res, nil
}

// Leaderboard returns the top entries for display.
func (a *App) Leaderboard() []RankedEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.topEntries()
}

func (a *App) topEntries() []RankedEntry {
	top := a.board.Top(leaderboard.DisplayCount)
	out := make([]RankedEntry, len(top))
	for i, e := range top {
		out[i] = RankedEntry{Rank: i + 1, Name: e.Name, Score: e.Score}
	}
	return out
}
