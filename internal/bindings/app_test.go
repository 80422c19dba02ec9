package bindings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MJE43/hilo-casino-desktop/internal/config"
	"github.com/MJE43/hilo-casino-desktop/internal/games"
	"github.com/MJE43/hilo-casino-desktop/internal/leaderboard"
)

type testApp struct {
	*App
	events []string
}

func newTestApp(t *testing.T, seed string) *testApp {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		DataDir:         dir,
		LeaderboardPath: filepath.Join(dir, config.LeaderboardFileName),
		HistoryPath:     filepath.Join(dir, config.HistoryFileName),
		Seed:            seed,
	}

	ta := &testApp{App: New(cfg)}
	ta.emit = func(_ context.Context, event string, _ ...interface{}) {
		ta.events = append(ta.events, event)
	}
	ta.Startup(context.Background())
	t.Cleanup(func() { ta.Shutdown(context.Background()) })

	if ta.history == nil {
		t.Fatal("history store did not open")
	}
	return ta
}

// deal replaces the card source; the first value becomes the current card.
func (ta *testApp) deal(values ...games.CardValue) {
	ta.engine.Reseed(games.NewSequenceSource(values...))
}

func (ta *testApp) playUntilLost(t *testing.T) GuessResult {
	t.Helper()
	for i := 0; i < 10000; i++ {
		dir := "higher"
		if ta.State().CurrentValue > 7 {
			dir = "lower"
		}
		res, err := ta.Guess(dir)
		if err != nil {
			t.Fatalf("Guess: %v", err)
		}
		if res.Outcome == "lost" {
			return res
		}
	}
	t.Fatal("game never ended")
	return GuessResult{}
}

func TestStartupCreatesFilesAndGame(t *testing.T) {
	ta := newTestApp(t, "")

	if _, err := os.Stat(ta.cfg.LeaderboardPath); err != nil {
		t.Errorf("leaderboard file not created: %v", err)
	}
	v := ta.State()
	if v.Round != 1 || v.Score != 0 || v.TriesRemaining != 4 || v.Over {
		t.Errorf("unexpected initial view: %+v", v)
	}
	if v.NextPoints != 10 || v.GameID == "" || v.SeedHash != "" {
		t.Errorf("unexpected initial view: %+v", v)
	}
}

func TestGuessCorrect(t *testing.T) {
	ta := newTestApp(t, "")
	ta.deal(7, 9)

	res, err := ta.Guess("Higher")
	if err != nil {
		t.Fatalf("Guess: %v", err)
	}
	if res.Outcome != "correct" || res.Revealed != 9 || res.Gained != 10 {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Message != "Correct! Next was 9. +10 pts" {
		t.Errorf("message = %q", res.Message)
	}
	if res.State.Score != 10 || res.State.Round != 2 || int(res.State.CurrentValue) != 9 {
		t.Errorf("unexpected state: %+v", res.State)
	}
	if len(ta.events) != 1 || ta.events[0] != "round:correct" {
		t.Errorf("events = %v", ta.events)
	}
}

func TestGuessIncorrectMessage(t *testing.T) {
	ta := newTestApp(t, "")
	ta.deal(7, 3)

	res, err := ta.Guess("higher")
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != "incorrect" || res.Message != "Wrong, next was 3. Tries left: 3" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestGuessInvalidDirection(t *testing.T) {
	ta := newTestApp(t, "")
	if _, err := ta.Guess("sideways"); !errors.Is(err, games.ErrInvalidDirection) {
		t.Fatalf("error = %v, want ErrInvalidDirection", err)
	}
	if len(ta.events) != 0 {
		t.Errorf("events emitted for invalid guess: %v", ta.events)
	}
}

func TestLoseAndSubmitScore(t *testing.T) {
	ta := newTestApp(t, "")
	gameID := ta.State().GameID
	ta.deal(7, 9, 9, 9, 9, 9)

	if _, err := ta.SubmitScore("Ann"); !errors.Is(err, ErrNoFinishedGame) {
		t.Fatalf("SubmitScore mid-game error = %v", err)
	}

	var last GuessResult
	for _, dir := range []string{"higher", "higher", "lower", "higher", "lower"} {
		res, err := ta.Guess(dir)
		if err != nil {
			t.Fatalf("Guess(%s): %v", dir, err)
		}
		last = res
	}
	if last.Outcome != "lost" || last.FinalScore != 10 || last.Message != "Wrong, next was 9." {
		t.Fatalf("unexpected final result: %+v", last)
	}
	if last.State.PendingScore == nil || *last.State.PendingScore != 10 || !last.State.Over {
		t.Fatalf("unexpected final state: %+v", last.State)
	}
	if _, err := ta.Guess("higher"); !errors.Is(err, games.ErrGameOver) {
		t.Errorf("guess after loss error = %v, want ErrGameOver", err)
	}

	rec, err := ta.SubmitScore("  Ann ")
	if err != nil {
		t.Fatalf("SubmitScore: %v", err)
	}
	if !rec.Saved || rec.Score != 10 || rec.Notice != "Score saved to leaderboard." {
		t.Errorf("unexpected record result: %+v", rec)
	}
	if len(rec.Board) != 1 || rec.Board[0] != (RankedEntry{Rank: 1, Name: "Ann", Score: 10}) {
		t.Errorf("board = %+v", rec.Board)
	}
	if rec.State.Round != 1 || rec.State.Over || rec.State.PendingScore != nil || rec.State.GameID == gameID {
		t.Errorf("game not reset after submit: %+v", rec.State)
	}

	if top := ta.Leaderboard(); len(top) != 1 || top[0].Name != "Ann" {
		t.Errorf("Leaderboard() = %+v", top)
	}

	g, err := ta.history.GetGame(gameID)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if g.PlayerName != "Ann" || g.FinalScore != 10 || g.Guesses != 5 || g.EndedAt == nil {
		t.Errorf("unexpected history row: %+v", g)
	}
	if _, err := ta.SubmitScore("Ann"); !errors.Is(err, ErrNoFinishedGame) {
		t.Errorf("second SubmitScore error = %v", err)
	}
}

func TestSubmitBlankNameSkipsSave(t *testing.T) {
	ta := newTestApp(t, "")
	ta.playUntilLost(t)

	rec, err := ta.SubmitScore("   ")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Saved || rec.Notice != "Score not saved." {
		t.Errorf("unexpected result: %+v", rec)
	}
	if len(ta.Leaderboard()) != 0 {
		t.Error("blank name should not create an entry")
	}
	if rec.State.Over {
		t.Error("expected a new game after submit")
	}
}

func TestSubmitWriteFailureIsANotice(t *testing.T) {
	ta := newTestApp(t, "")
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	ta.board = leaderboard.New(filepath.Join(blocker, "leaderboard.json"))

	ta.playUntilLost(t)
	rec, err := ta.SubmitScore("Ann")
	if err != nil {
		t.Fatalf("write failure must not be an error: %v", err)
	}
	if rec.Saved || !strings.Contains(rec.Notice, "could not be written") {
		t.Errorf("unexpected result: %+v", rec)
	}
	if rec.State.Over {
		t.Error("expected a new game after failed save")
	}
}

func TestNewGameDropsPendingScore(t *testing.T) {
	ta := newTestApp(t, "")
	ta.playUntilLost(t)

	v := ta.NewGame()
	if v.PendingScore != nil || v.Over || v.Round != 1 || v.TriesRemaining != 4 {
		t.Errorf("unexpected view: %+v", v)
	}
	if _, err := ta.SubmitScore("Ann"); !errors.Is(err, ErrNoFinishedGame) {
		t.Errorf("SubmitScore after NewGame error = %v", err)
	}
}

func TestReplaySeededGame(t *testing.T) {
	ta := newTestApp(t, "")
	v := ta.NewSeededGame("table-7")
	if v.SeedHash == "" {
		t.Fatal("seeded game should expose a seed hash")
	}
	final := ta.playUntilLost(t)

	res, err := ta.ReplayGame(v.GameID)
	if err != nil {
		t.Fatalf("ReplayGame: %v", err)
	}
	if !res.Matches {
		t.Fatalf("replay mismatch: %s", res.Mismatch)
	}
	if res.ReplayedScore != final.FinalScore || res.RecordedScore != final.FinalScore {
		t.Errorf("scores: recorded %d replayed %d, want %d", res.RecordedScore, res.ReplayedScore, final.FinalScore)
	}
	if res.Outcomes[len(res.Outcomes)-1] != "lost" {
		t.Errorf("last outcome = %s", res.Outcomes[len(res.Outcomes)-1])
	}
}

func TestReplayDetectsTampering(t *testing.T) {
	ta := newTestApp(t, "")
	v := ta.NewSeededGame("table-9")
	if _, err := ta.Guess("higher"); err != nil {
		t.Fatal(err)
	}

	// Rewrite history: the recorded card no longer matches the deal.
	guesses, err := ta.history.GetGuesses(v.GameID)
	if err != nil || len(guesses) != 1 {
		t.Fatalf("GetGuesses: %v (%d)", err, len(guesses))
	}
	forged := guesses[0]
	forged.Seq = 2
	forged.Revealed = 0
	if err := ta.history.SaveGuess(&forged); err != nil {
		t.Fatal(err)
	}

	res, err := ta.ReplayGame(v.GameID)
	if err != nil {
		t.Fatalf("ReplayGame: %v", err)
	}
	if res.Matches || res.Mismatch == "" {
		t.Errorf("expected mismatch, got %+v", res)
	}
}

func TestReplayRandomGameRefused(t *testing.T) {
	ta := newTestApp(t, "")
	id := ta.State().GameID
	if _, err := ta.ReplayGame(id); !errors.Is(err, ErrNotReplayable) {
		t.Errorf("error = %v, want ErrNotReplayable", err)
	}
	if _, err := ta.ReplayGame("no-such-game"); err == nil {
		t.Error("expected error for unknown game")
	}
}

func TestConfiguredSeedDealsDistinctGames(t *testing.T) {
	ta := newTestApp(t, "house")
	first := ta.State()
	if first.SeedHash == "" {
		t.Fatal("configured seed should produce seeded games")
	}
	second := ta.NewGame()
	if second.SeedHash == "" || second.SeedHash == first.SeedHash {
		t.Errorf("expected a different per-game seed, got %q then %q", first.SeedHash, second.SeedHash)
	}
}

func TestHistoryAndStats(t *testing.T) {
	ta := newTestApp(t, "")
	final := ta.playUntilLost(t)
	ta.SubmitScore("Bo")

	list, err := ta.History(1, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if list.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2 (finished + current)", list.TotalCount)
	}

	st, err := ta.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.GamesPlayed != 1 || st.BestScore != final.FinalScore {
		t.Errorf("unexpected stats: %+v", st)
	}
}

func TestHistoryUnavailableBeforeStartup(t *testing.T) {
	a := New(config.Config{LeaderboardPath: filepath.Join(t.TempDir(), "lb.json")})
	if _, err := a.History(1, 10); !errors.Is(err, ErrHistoryUnavailable) {
		t.Errorf("History error = %v", err)
	}
	if _, err := a.Stats(); !errors.Is(err, ErrHistoryUnavailable) {
		t.Errorf("Stats error = %v", err)
	}
	// Play still works without history.
	if _, err := a.Guess("higher"); err != nil {
		t.Errorf("Guess without history: %v", err)
	}
}
