package bindings

import (
	"context"
	"log"
	"sync"

	wruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/MJE43/hilo-casino-desktop/internal/config"
	"github.com/MJE43/hilo-casino-desktop/internal/games"
	"github.com/MJE43/hilo-casino-desktop/internal/leaderboard"
	"github.com/MJE43/hilo-casino-desktop/internal/store"
)

type emitFunc func(ctx context.Context, event string, data ...interface{})

// App is bound to the window; the frontend calls its exported methods.
// Bound methods may run on different goroutines, so every entry point
// takes mu.
type App struct {
	ctx context.Context
	mu  sync.Mutex
	cfg config.Config

	engine  *games.Engine
	board   *leaderboard.Store
	history store.DB
	emit    emitFunc

	// Current game.
	gameID  string
	seed    string
	seq     int
	pending *int // final score awaiting a name, set once the game is lost
}

// New creates an App for cfg. Files are opened in Startup.
func New(cfg config.Config) *App {
	return &App{
		cfg:    cfg,
		engine: games.NewEngine(games.NewRandomSource(nil)),
		board:  leaderboard.New(cfg.LeaderboardPath),
		emit:   wruntime.EventsEmit,
	}
}

// Startup is called by Wails on application startup.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.ctx = ctx

	if err := a.board.EnsureExists(); err != nil {
		log.Printf("leaderboard: could not create %s: %v", a.board.Path(), err)
	}

	db, err := store.NewSQLiteDB(a.cfg.HistoryPath)
	if err != nil {
		log.Printf("history: disabled, open failed: %v", err)
	} else if err := db.Migrate(); err != nil {
		log.Printf("history: disabled, migrate failed: %v", err)
		db.Close()
	} else {
		a.history = db
	}

	a.startGame(a.nextSeed())
}

// Shutdown is called by Wails when the window closes.
func (a *App) Shutdown(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.history != nil {
		if err := a.history.Close(); err != nil {
			log.Printf("history: close: %v", err)
		}
		a.history = nil
	}
}

func (a *App) emitEvent(event string, data interface{}) {
	if a.ctx == nil || a.emit == nil {
		return
	}
	a.emit(a.ctx, event, data)
}
