package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	defaultPerPage = 25
	maxPerPage     = 200
)

// SQLiteDB implements the DB interface using SQLite
type SQLiteDB struct {
	db *sql.DB
}

var _ DB = (*SQLiteDB)(nil)

// NewSQLiteDB opens the history database at path (":memory:" works for tests).
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; also keeps ":memory:" to a single database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate creates the history tables.
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			seed TEXT NOT NULL DEFAULT '',
			seed_hash TEXT NOT NULL DEFAULT '',
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			final_score INTEGER NOT NULL DEFAULT 0,
			rounds INTEGER NOT NULL DEFAULT 1,
			player_name TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS guesses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			direction TEXT NOT NULL,
			current INTEGER NOT NULL,
			revealed INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			gained INTEGER NOT NULL DEFAULT 0,
			tries_remaining INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			UNIQUE(game_id, seq),
			FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_games_started_at ON games(started_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_games_final_score ON games(final_score DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_guesses_game_seq ON guesses(game_id, seq)`,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for _, migration := range migrations {
		if _, err := tx.Exec(migration); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return tx.Commit()
}

// StartGame inserts a new game row, assigning an ID when empty.
func (s *SQLiteDB) StartGame(game *Game) error {
	if game.ID == "" {
		game.ID = uuid.New().String()
	}
	if game.StartedAt.IsZero() {
		game.StartedAt = time.Now().UTC()
	}
	if game.Rounds == 0 {
		game.Rounds = 1
	}

	_, err := s.db.Exec(`INSERT INTO games (id, seed, seed_hash, started_at, rounds)
		VALUES (?, ?, ?, ?, ?)`,
		game.ID, game.Seed, game.SeedHash, game.StartedAt.UTC(), game.Rounds)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}
	return nil
}

// SaveGuess appends a guess to its game.
func (s *SQLiteDB) SaveGuess(guess *Guess) error {
	if guess.CreatedAt.IsZero() {
		guess.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.Exec(`INSERT INTO guesses
		(game_id, seq, direction, current, revealed, outcome, gained, tries_remaining, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		guess.GameID, guess.Seq, guess.Direction, guess.Current, guess.Revealed,
		guess.Outcome, guess.Gained, guess.TriesRemaining, guess.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save guess: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		guess.ID = id
	}
	return nil
}

// FinishGame records the final score of a lost game.
func (s *SQLiteDB) FinishGame(id string, finalScore, rounds int, endedAt time.Time) error {
	res, err := s.db.Exec(`UPDATE games SET final_score = ?, rounds = ?, ended_at = ? WHERE id = ?`,
		finalScore, rounds, endedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to finish game: %w", err)
	}
	return expectOneRow(res, id)
}

// SetPlayerName attaches the leaderboard name to a game.
func (s *SQLiteDB) SetPlayerName(id, name string) error {
	res, err := s.db.Exec(`UPDATE games SET player_name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("failed to set player name: %w", err)
	}
	return expectOneRow(res, id)
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("game %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

const gameColumns = `g.id, g.seed, g.seed_hash, g.started_at, g.ended_at, g.final_score,
		g.rounds, g.player_name,
		(SELECT COUNT(*) FROM guesses WHERE game_id = g.id)`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (Game, error) {
	var game Game
	var endedAt sql.NullTime

	err := row.Scan(
		&game.ID, &game.Seed, &game.SeedHash, &game.StartedAt, &endedAt,
		&game.FinalScore, &game.Rounds, &game.PlayerName, &game.Guesses,
	)
	if err != nil {
		return Game{}, err
	}
	if endedAt.Valid {
		t := endedAt.Time
		game.EndedAt = &t
	}
	return game, nil
}

// GetGame returns a game by ID. A missing game yields sql.ErrNoRows.
func (s *SQLiteDB) GetGame(id string) (*Game, error) {
	row := s.db.QueryRow(`SELECT `+gameColumns+` FROM games g WHERE g.id = ?`, id)
	game, err := scanGame(row)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// GetGuesses returns the guesses of a game in play order.
func (s *SQLiteDB) GetGuesses(gameID string) ([]Guess, error) {
	rows, err := s.db.Query(`SELECT id, game_id, seq, direction, current, revealed, outcome,
		gained, tries_remaining, created_at
		FROM guesses WHERE game_id = ? ORDER BY seq ASC`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query guesses: %w", err)
	}
	defer rows.Close()

	var guesses []Guess
	for rows.Next() {
		var g Guess
		if err := rows.Scan(&g.ID, &g.GameID, &g.Seq, &g.Direction, &g.Current, &g.Revealed,
			&g.Outcome, &g.Gained, &g.TriesRemaining, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan guess: %w", err)
		}
		guesses = append(guesses, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guesses: %w", err)
	}
	return guesses, nil
}

// ListGames returns games newest first.
func (s *SQLiteDB) ListGames(query GamesQuery) (*GamesList, error) {
	var totalCount int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM games").Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	if query.PerPage <= 0 {
		query.PerPage = defaultPerPage
	}
	if query.PerPage > maxPerPage {
		query.PerPage = maxPerPage
	}
	if query.Page <= 0 {
		query.Page = 1
	}

	totalPages := (totalCount + query.PerPage - 1) / query.PerPage
	offset := (query.Page - 1) * query.PerPage

	rows, err := s.db.Query(`SELECT `+gameColumns+` FROM games g
		ORDER BY g.started_at DESC, g.rowid DESC
		LIMIT ? OFFSET ?`, query.PerPage, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	games := []Game{}
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return &GamesList{
		Games:      games,
		TotalCount: totalCount,
		Page:       query.Page,
		PerPage:    query.PerPage,
		TotalPages: totalPages,
	}, nil
}

// Stats summarises finished games and all recorded guesses.
func (s *SQLiteDB) Stats() (Stats, error) {
	var st Stats
	err := s.db.QueryRow(`SELECT COUNT(*), COALESCE(MAX(final_score), 0), COALESCE(AVG(final_score), 0)
		FROM games WHERE ended_at IS NOT NULL`).Scan(&st.GamesPlayed, &st.BestScore, &st.AverageScore)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to aggregate games: %w", err)
	}

	err = s.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(CASE WHEN outcome = 'correct' THEN 1 ELSE 0 END), 0)
		FROM guesses`).Scan(&st.TotalGuesses, &st.CorrectGuesses)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to aggregate guesses: %w", err)
	}
	return st, nil
}
