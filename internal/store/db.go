package store

import (
	"time"
)

// DB is the game history store.
type DB interface {
	Close() error
	Migrate() error
	StartGame(game *Game) error
	SaveGuess(guess *Guess) error
	FinishGame(id string, finalScore, rounds int, endedAt time.Time) error
	SetPlayerName(id, name string) error
	GetGame(id string) (*Game, error)
	GetGuesses(gameID string) ([]Guess, error)
	ListGames(query GamesQuery) (*GamesList, error)
	Stats() (Stats, error)
}

// GamesQuery represents query parameters for listing games
type GamesQuery struct {
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
}

// GamesList represents a paginated games response
type GamesList struct {
	Games      []Game `json:"games"`
	TotalCount int    `json:"totalCount"`
	Page       int    `json:"page"`
	PerPage    int    `json:"perPage"`
	TotalPages int    `json:"totalPages"`
}

// Game is one dealt game, finished or not.
type Game struct {
	ID         string     `json:"id" db:"id"`
	Seed       string     `json:"seed,omitempty" db:"seed"` // empty for random deals
	SeedHash   string     `json:"seed_hash,omitempty" db:"seed_hash"`
	StartedAt  time.Time  `json:"started_at" db:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty" db:"ended_at"`
	FinalScore int        `json:"final_score" db:"final_score"`
	Rounds     int        `json:"rounds" db:"rounds"`
	Guesses    int        `json:"guesses" db:"guesses"`
	PlayerName string     `json:"player_name,omitempty" db:"player_name"`
}

// Guess is a single call within a game.
type Guess struct {
	ID             int64     `json:"id" db:"id"`
	GameID         string    `json:"game_id" db:"game_id"`
	Seq            int       `json:"seq" db:"seq"`
	Direction      string    `json:"direction" db:"direction"`
	Current        int       `json:"current" db:"current"`
	Revealed       int       `json:"revealed" db:"revealed"`
	Outcome        string    `json:"outcome" db:"outcome"`
	Gained         int       `json:"gained" db:"gained"`
	TriesRemaining int       `json:"tries_remaining" db:"tries_remaining"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Stats aggregates finished games.
type Stats struct {
	GamesPlayed    int     `json:"gamesPlayed"`
	BestScore      int     `json:"bestScore"`
	AverageScore   float64 `json:"averageScore"`
	CorrectGuesses int     `json:"correctGuesses"`
	TotalGuesses   int     `json:"totalGuesses"`
}
