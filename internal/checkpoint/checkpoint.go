// Package checkpoint persists analysis progress so a run stopped by the
// rate limit can resume without reprocessing finished repositories.
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/repolens/repolens/internal/model"
)

// Record is the on-disk checkpoint schema.
type Record struct {
	Timestamp   time.Time         `json:"timestamp"`
	Username    string            `json:"username"`
	Analyzed    []string          `json:"analyzed"`
	Remaining   []string          `json:"remaining"`
	Stats       []model.RepoStats `json:"stats"`
	APIRequests int64             `json:"api_requests"`
}

// Manager reads and writes the checkpoint file. With saving or resuming
// disabled the corresponding operation is a no-op.
type Manager struct {
	path   string
	save   bool
	resume bool
	log    *slog.Logger
}

func NewManager(path string, save, resume bool, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{path: path, save: save, resume: resume, log: logger}
}

// Save writes the record atomically (temp file plus rename).
func (m *Manager) Save(rec Record) error {
	if !m.save {
		return nil
	}
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create checkpoint directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("replace checkpoint: %w", err)
	}
	m.log.Info("checkpoint saved",
		"path", m.path, "analyzed", len(rec.Analyzed), "remaining", len(rec.Remaining))
	return nil
}

// Load reads the checkpoint for the given username. A missing file, a
// disabled resume flag or a username mismatch all return (nil, nil):
// there is simply no usable checkpoint.
func (m *Manager) Load(username string) (*Record, error) {
	if !m.resume {
		return nil, nil
	}
	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode checkpoint: %w", err)
	}
	if rec.Username != username {
		m.log.Warn("checkpoint belongs to a different user, ignoring",
			"path", m.path, "checkpoint_user", rec.Username, "requested_user", username)
		return nil, nil
	}
	return &rec, nil
}
