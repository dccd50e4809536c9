package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	ClueDurationSeconds      int
	VoteDurationSeconds      int
	RevealDurationSeconds    int
	MaxRounds                int
	PollIntervalMillis       int
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
	PublicBaseURL            string
}

func Default() Config {
	return Config{
		ClueDurationSeconds:      30,
		VoteDurationSeconds:      20,
		RevealDurationSeconds:    8,
		MaxRounds:                5,
		PollIntervalMillis:       1500,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
		PublicBaseURL:            "http://localhost:8080",
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("CLUE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.ClueDurationSeconds = value
		}
	}
	if raw := os.Getenv("VOTE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.VoteDurationSeconds = value
		}
	}
	if raw := os.Getenv("REVEAL_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.RevealDurationSeconds = value
		}
	}
	if raw := os.Getenv("MAX_ROUNDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.MaxRounds = value
		}
	}
	if raw := os.Getenv("POLL_INTERVAL_MS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.PollIntervalMillis = value
		}
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	if raw := os.Getenv("PUBLIC_BASE_URL"); raw != "" {
		cfg.PublicBaseURL = raw
	}
	return cfg
}
