package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	practicesession "github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/practice_session"
)

type Config struct {
	DBPath string

	LogLevel  slog.Level
	LogFormat string // "text" or "json"

	// Bank import
	NormalizeWorkers   int
	AssetRoot          string // replaces the "./" prefix of asset paths
	StrictAnswerLabels bool   // reject answers that match no option

	DefaultPreset string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:        getenvDefault("MOCKEXAM_DB_PATH", "mockexam.db"),
		LogFormat:     strings.ToLower(getenvDefault("LOG_FORMAT", "json")),
		AssetRoot:     getenvDefault("ASSET_ROOT", "/"),
		DefaultPreset: getenvDefault("DEFAULT_PRESET", "180m"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenvDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("config: LOG_FORMAT=%q must be text or json", cfg.LogFormat)
	}

	if _, ok := practicesession.PresetByName(cfg.DefaultPreset); !ok {
		return nil, fmt.Errorf("config: DEFAULT_PRESET=%q is not a known preset", cfg.DefaultPreset)
	}

	var err error
	if cfg.NormalizeWorkers, err = getenvInt("NORMALIZE_WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.NormalizeWorkers < 1 {
		return nil, fmt.Errorf("config: NORMALIZE_WORKERS must be at least 1, got %d", cfg.NormalizeWorkers)
	}
	if cfg.StrictAnswerLabels, err = getenvBool("STRICT_ANSWER_LABELS", false); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvInt(k string, fallback int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", k, v)
	}
	return n, nil
}

func getenvBool(k string, fallback bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s=%q is not a boolean", k, v)
	}
	return b, nil
}
