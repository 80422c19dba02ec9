package bindings

import (
	"fmt"
	"log"
	"time"

	"github.com/MJE43/hilo-casino-desktop/internal/engine"
	"github.com/MJE43/hilo-casino-desktop/internal/games"
	"github.com/MJE43/hilo-casino-desktop/internal/store"
)

// GameView is the frontend-facing snapshot of the table.
type GameView struct {
	games.RoundState
	NextPoints   int    `json:"nextPoints"`
	GameID       string `json:"gameId,omitempty"`
	SeedHash     string `json:"seedHash,omitempty"`
	PendingScore *int   `json:"pendingScore,omitempty"`
}

// GuessResult is what the frontend renders after Higher/Lower.
type GuessResult struct {
	Outcome        string   `json:"outcome"`
	Revealed       int      `json:"revealed"`
	Gained         int      `json:"gained"`
	TriesRemaining int      `json:"triesRemaining"`
	FinalScore     int      `json:"finalScore"`
	Message        string   `json:"message"`
	State          GameView `json:"state"`
}

// State returns the current table.
func (a *App) State() GameView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view()
}

// Guess plays "higher" or "lower".
func (a *App) Guess(direction string) (GuessResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	d, err := games.ParseDirection(direction)
	if err != nil {
		return GuessResult{}, err
	}

	before := a.engine.State()
	o, err := a.engine.Guess(d)
	if err != nil {
		return GuessResult{}, err
	}
	a.seq++

	a.recordGuess(d, before, o)
	if o.Kind == games.Lost {
		score := o.FinalScore
		a.pending = &score
		a.finishGame(o.State)
	}

	res := GuessResult{
		Outcome:        o.Kind.String(),
		Revealed:       int(o.Revealed),
		Gained:         o.Gained,
		TriesRemaining: o.TriesRemaining,
		FinalScore:     o.FinalScore,
		Message:        outcomeMessage(o),
		State:          a.view(),
	}
	a.emitEvent("round:"+res.Outcome, res)
	return res, nil
}

// NewGame abandons the current game, including an unsaved final score.
func (a *App) NewGame() GameView {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.startGame(a.nextSeed())
	return a.view()
}

// NewSeededGame deals a reproducible game from seed. An empty seed deals
// a random game.
func (a *App) NewSeededGame(seed string) GameView {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.startGame(seed)
	return a.view()
}

func outcomeMessage(o games.Outcome) string {
	switch o.Kind {
	case games.Correct:
		return fmt.Sprintf("Correct! Next was %s. +%d pts", o.Revealed, o.Gained)
	case games.Incorrect:
		return fmt.Sprintf("Wrong, next was %s. Tries left: %d", o.Revealed, o.TriesRemaining)
	default:
		return fmt.Sprintf("Wrong, next was %s.", o.Revealed)
	}
}

// nextSeed derives a per-game seed from the configured one so seeded
// sessions do not replay the same deal every game.
func (a *App) nextSeed() string {
	if a.cfg.Seed == "" {
		return ""
	}
	return fmt.Sprintf("%s#%d", a.cfg.Seed, a.gamesStarted())
}

func (a *App) gamesStarted() int {
	if a.history == nil {
		return 0
	}
	list, err := a.history.ListGames(store.GamesQuery{PerPage: 1})
	if err != nil {
		return 0
	}
	return list.TotalCount
}

// startGame must be called with mu held.
func (a *App) startGame(seed string) {
	var src games.CardSource
	if seed != "" {
		src = games.NewSeededSource(seed)
	} else {
		src = games.NewRandomSource(nil)
	}

	if a.engine == nil {
		a.engine = games.NewEngine(src)
	} else {
		a.engine.Reseed(src)
	}

	a.seed = seed
	a.seq = 0
	a.pending = nil
	a.gameID = ""

	if a.history == nil {
		return
	}
	g := &store.Game{Seed: seed, SeedHash: engine.SeedHash(seed)}
	if err := a.history.StartGame(g); err != nil {
		log.Printf("history: %v", err)
		return
	}
	a.gameID = g.ID
}

func (a *App) recordGuess(d games.Direction, before games.RoundState, o games.Outcome) {
	if a.history == nil || a.gameID == "" {
		return
	}
	g := &store.Guess{
		GameID:         a.gameID,
		Seq:            a.seq,
		Direction:      d.String(),
		Current:        int(before.CurrentValue),
		Revealed:       int(o.Revealed),
		Outcome:        o.Kind.String(),
		Gained:         o.Gained,
		TriesRemaining: o.State.TriesRemaining,
	}
	if err := a.history.SaveGuess(g); err != nil {
		log.Printf("history: %v", err)
	}
}

func (a *App) finishGame(final games.RoundState) {
	if a.history == nil || a.gameID == "" {
		return
	}
	if err := a.history.FinishGame(a.gameID, final.Score, final.Round, time.Now()); err != nil {
		log.Printf("history: %v", err)
	}
}

func (a *App) view() GameView {
	v := GameView{
		RoundState: a.engine.State(),
		NextPoints: a.engine.NextPoints(),
		GameID:     a.gameID,
		SeedHash:   engine.SeedHash(a.seed),
	}
	if a.pending != nil {
		score := *a.pending
		v.PendingScore = &score
	}
	return v
}
