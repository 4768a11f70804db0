package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/invitegen/internal/driver"
)

// RunRecord pairs a one-line event summary with the outcome of its draft
// run. The full event is deliberately not persisted; the history answers
// "what happened", not "what was in the invite".
type RunRecord struct {
	Summary   string        `json:"summary"`
	Report    driver.Report `json:"report"`
	CreatedAt string        `json:"created_at"`
}

// History is the on-disk run log.
type History struct {
	Runs      []RunRecord `json:"runs"`
	UpdatedAt string      `json:"updated_at"`
}

// Storage handles persistence of run history
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

func (s *Storage) historyPath() string {
	return filepath.Join(s.dataDir, "history.json")
}

// LoadHistory loads the run history from disk. A missing file is an empty
// history, not an error.
func (s *Storage) LoadHistory() (*History, error) {
	data, err := os.ReadFile(s.historyPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &History{}, nil
		}
		return nil, fmt.Errorf("reading history: %w", err)
	}

	var history History
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parsing history: %w", err)
	}
	return &history, nil
}

// SaveRun appends one run record and writes the history back to disk.
func (s *Storage) SaveRun(summary string, report *driver.Report) error {
	history, err := s.LoadHistory()
	if err != nil {
		return err
	}

	history.Runs = append(history.Runs, RunRecord{
		Summary:   summary,
		Report:    *report,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	history.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	if err := os.WriteFile(s.historyPath(), data, 0644); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

// Recent returns up to n of the most recent run records, newest first.
func (s *Storage) Recent(n int) ([]RunRecord, error) {
	history, err := s.LoadHistory()
	if err != nil {
		return nil, err
	}

	runs := history.Runs
	if n > 0 && len(runs) > n {
		runs = runs[len(runs)-n:]
	}

	// Reverse so the newest run comes first.
	out := make([]RunRecord, 0, len(runs))
	for i := len(runs) - 1; i >= 0; i-- {
		out = append(out, runs[i])
	}
	return out, nil
}
