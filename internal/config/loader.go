package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the court
// reservation server.
type Config struct {
	ListenAddr  string
	IdleTimeout time.Duration
	TokenTTL    time.Duration
	BackupFile  string
}

// Load parses configuration values from the current process environment.
//
// Every field carries a default so the server runs with no environment at
// all; invalid values are accumulated and reported together. A TokenTTL of
// zero keeps tokens valid for the process lifetime, and an empty BackupFile
// disables the on-disk schedule snapshot.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:  "127.0.0.1:60000",
		IdleTimeout: 60 * time.Second,
		TokenTTL:    0,
		BackupFile:  "",
	}

	invalid := make([]string, 0, 2)

	if addr := strings.TrimSpace(os.Getenv("COURT_LISTEN_ADDR")); addr != "" {
		cfg.ListenAddr = addr
	}

	if value := strings.TrimSpace(os.Getenv("COURT_IDLE_TIMEOUT")); value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "COURT_IDLE_TIMEOUT")
		} else {
			cfg.IdleTimeout = timeout
		}
	}

	if value := strings.TrimSpace(os.Getenv("COURT_TOKEN_TTL")); value != "" {
		ttl, err := time.ParseDuration(value)
		if err != nil || ttl < 0 {
			invalid = append(invalid, "COURT_TOKEN_TTL")
		} else {
			cfg.TokenTTL = ttl
		}
	}

	if path := strings.TrimSpace(os.Getenv("COURT_BACKUP_FILE")); path != "" {
		cfg.BackupFile = path
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
