// Package store persists the user-tunable setpoints and the enabled flag as
// a flat JSON snapshot, mirroring the key-value blob the host platform keeps
// for the integration. Everything else re-initializes from configuration on
// restart.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Snapshot is the persisted state. Missing keys fall back to the
// configuration defaults on load, which keeps old snapshots readable after
// new setpoints are added.
type Snapshot struct {
	ComfortTemp float64 `json:"comfort_temp"`
	EcoTemp     float64 `json:"eco_temp"`
	BoostTemp   float64 `json:"boost_temp"`
	CoolingTemp float64 `json:"cooling_temp"`
	Enabled     bool    `json:"smart_control_enabled"`
}

// Store reads and writes the snapshot file.
type Store struct {
	path   string
	logger *zap.Logger
}

// New creates a store backed by the given file path.
func New(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Load reads the snapshot. A missing file is a first run and returns
// (nil, nil), not an error.
func (s *Store) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Info("No stored snapshot, using configuration defaults",
				zap.String("path", s.path))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	s.logger.Info("Loaded stored snapshot",
		zap.Float64("comfort_temp", snap.ComfortTemp),
		zap.Float64("eco_temp", snap.EcoTemp),
		zap.Bool("enabled", snap.Enabled))
	return &snap, nil
}

// Save writes the snapshot atomically via a temp file rename so a crash
// mid-write never leaves a truncated snapshot behind.
func (s *Store) Save(snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	s.logger.Debug("Saved snapshot", zap.String("path", s.path))
	return nil
}
