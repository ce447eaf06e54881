package pricelog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config selects the history backend.
type Config struct {
	// Backend is one of memory, jsonl, rotating or sqlite. Empty means memory.
	Backend    string `json:"backend"`
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// NewStore opens the configured store.
func NewStore(cfg Config) (LogStore, error) {
	backend := strings.ToLower(cfg.Backend)
	if backend == "" || backend == "memory" {
		return NewMemoryStore(), nil
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("history backend %s requires a path", backend)
	}
	switch backend {
	case "jsonl":
		return NewJSONLStore(cfg.Path)
	case "rotating":
		size := cfg.MaxSizeMB
		if size <= 0 {
			size = 10
		}
		return NewRotatingJSONLStore(cfg.Path, size, cfg.MaxBackups, cfg.MaxAgeDays)
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}

// NewRecordID returns a unique record identifier.
func NewRecordID() string { return uuid.NewString() }

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
