// Package config resolves where the game keeps its files.
package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const (
	AppDirName          = "hilo-casino"
	LeaderboardFileName = "leaderboard.json"
	HistoryFileName     = "history.db"

	EnvDataDir = "HILO_DATA_DIR"
	EnvSeed    = "HILO_SEED"
)

// Config holds resolved paths and startup options.
type Config struct {
	DataDir         string
	LeaderboardPath string
	HistoryPath     string
	// Seed, when set, makes every new game deal from a reproducible sequence.
	Seed string
}

// Load resolves the data directory, creates it, and moves a leaderboard left
// next to the executable by older builds into it. It always returns a usable
// Config; directories that cannot be created are skipped with a log line.
func Load() Config {
	return load(os.Getenv, executableDir())
}

func load(getenv func(string) string, legacyDir string) Config {
	preferred := strings.TrimSpace(getenv(EnvDataDir))
	if preferred == "" {
		preferred = appDataDir()
	}
	dir := firstUsableDir(preferred, legacyDir, filepath.Join(os.TempDir(), AppDirName))

	cfg := Config{
		DataDir:         dir,
		LeaderboardPath: filepath.Join(dir, LeaderboardFileName),
		HistoryPath:     filepath.Join(dir, HistoryFileName),
		Seed:            strings.TrimSpace(getenv(EnvSeed)),
	}

	if legacyDir != "" {
		cfg.LeaderboardPath = migrateLegacyLeaderboard(filepath.Join(legacyDir, LeaderboardFileName), cfg.LeaderboardPath)
	}
	return cfg
}

// firstUsableDir returns the first candidate that exists or can be created,
// falling back to the working directory.
func firstUsableDir(candidates ...string) string {
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("config: data dir %s unusable: %v", dir, err)
			continue
		}
		return dir
	}
	log.Printf("config: no data dir could be created; using the working directory")
	return "."
}

// appDataDir returns an OS-appropriate writable directory.
func appDataDir() string {
	if d, err := os.UserConfigDir(); err == nil && d != "" {
		return filepath.Join(d, AppDirName)
	}
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return filepath.Join(h, "."+AppDirName)
	}
	return "."
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

// migrateLegacyLeaderboard returns the path the leaderboard should be read
// from. The legacy file is only moved when target does not exist yet.
func migrateLegacyLeaderboard(legacy, target string) string {
	if legacy == target {
		return target
	}
	if _, err := os.Stat(target); err == nil {
		return target
	}
	if _, err := os.Stat(legacy); err != nil {
		return target
	}

	if err := os.Rename(legacy, target); err == nil {
		log.Printf("migrated leaderboard from %s to %s", legacy, target)
		return target
	}
	// Cross-device: copy instead and leave the old file in place.
	if err := copyFile(legacy, target); err != nil {
		log.Printf("leaderboard migration from %s failed: %v; using legacy path", legacy, err)
		return legacy
	}
	log.Printf("copied leaderboard from %s to %s", legacy, target)
	return target
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy leaderboard: %w", err)
	}
	return nil
}
