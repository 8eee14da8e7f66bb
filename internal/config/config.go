package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	// Game is the reported game name, e.g. "Pokemon Crystal". Empty means it
	// is identified from the ROM.
	Game      string `yaml:"game"`
	ROM       string `yaml:"rom"`
	Save      string `yaml:"save_file"`
	BackupDir string `yaml:"backup_dir"`
	SplitsDB  string `yaml:"splits_db"`
	LogFile   string `yaml:"log_file"`

	// Trace is a recorded run to replay instead of a live feed.
	Trace       string        `yaml:"trace"`
	ReplayDelay time.Duration `yaml:"replay_delay"`

	Narrator     NarratorConfig `yaml:"narrator"`
	GeminiAPIKey string         `yaml:"gemini_api_key"`
}

type NarratorConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		BackupDir:   "backups",
		SplitsDB:    "splits.db",
		LogFile:     "pokewatcher.log",
		ReplayDelay: 50 * time.Millisecond,
		Narrator:    NarratorConfig{Model: "gemini-2.5-flash"},
	}
}

// LoadConfig reads path (if it exists), then a .env file in the working
// directory, then the environment. Later sources win.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	override(&cfg.Game, "POKEWATCHER_GAME")
	override(&cfg.ROM, "POKEWATCHER_ROM")
	override(&cfg.Save, "POKEWATCHER_SAVE")
	override(&cfg.BackupDir, "POKEWATCHER_BACKUPS")
	override(&cfg.SplitsDB, "POKEWATCHER_SPLITS_DB")
	override(&cfg.LogFile, "POKEWATCHER_LOG")
	override(&cfg.Trace, "POKEWATCHER_TRACE")
	override(&cfg.GeminiAPIKey, "GEMINI_API_KEY")

	if cfg.Game == "" && cfg.ROM == "" && cfg.Trace == "" {
		return nil, fmt.Errorf("no game, ROM or trace is configured")
	}
	return cfg, nil
}

func override(field *string, key string) {
	if v := os.Getenv(key); v != "" {
		*field = v
	}
}
