// Package runlog appends a JSON record per diff run to a history directory.
// History is best effort; callers log failures but never abort a run on them.
package runlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Record is one diff run.
type Record struct {
	Timestamp      time.Time `json:"timestamp"`
	SnapshotID     string    `json:"snapshot_id,omitempty"`
	Source         string    `json:"source"`
	PackageChanges int       `json:"package_changes"`
	GlobalChanges  int       `json:"global_changes"`
}

// Logger appends run records to day-stamped files in a single directory.
type Logger struct {
	dir           string
	retentionDays int
	mu            sync.Mutex
}

// New returns a logger writing under dir, pruning files older than
// retentionDays. A non-positive retention disables pruning.
func New(dir string, retentionDays int) *Logger {
	return &Logger{dir: dir, retentionDays: retentionDays}
}

// Append writes one record and prunes expired history files.
func (l *Logger) Append(record Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	name := record.Timestamp.Format("20060102") + "-runs.json"
	file, err := os.OpenFile(filepath.Join(l.dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}

	l.prune()

	return nil
}

// Records reads every retained record, oldest file first.
func (l *Logger) Records() ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var records []Record
	for _, entry := range entries {
		if entry.IsDir() || !isHistoryFile(entry.Name()) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(l.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read history file: %w", err)
		}

		for _, line := range bytes.Split(data, []byte{'\n'}) {
			if len(line) == 0 {
				continue
			}

			var record Record
			if err := json.Unmarshal(line, &record); err != nil {
				// Skip damaged lines, keep the rest of the history usable.
				continue
			}
			records = append(records, record)
		}
	}

	return records, nil
}

// prune removes history files older than the retention window.
func (l *Logger) prune() {
	if l.retentionDays <= 0 {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -l.retentionDays)

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !isHistoryFile(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(l.dir, entry.Name()))
		}
	}
}

func isHistoryFile(name string) bool {
	matched, err := filepath.Match("*-runs.json", name)
	return err == nil && matched
}
