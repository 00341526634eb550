// Package storage persists devlogs as date-keyed JSON documents on disk.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/robinbaebae/sprt/internal/logger"
	"github.com/robinbaebae/sprt/internal/models"
)

// ErrNotFound indicates no devlog is stored for the requested key.
var ErrNotFound = errors.New("devlog not found")

// Store is a directory-per-log-type JSON document store under
// <root>/devlogs/<logType>/<key>.json. Writes overwrite; the generator's
// cache check keeps that from ever happening in practice.
type Store struct {
	rootDir string
}

// NewStore creates a store rooted at the given directory.
func NewStore(rootDir string) *Store {
	return &Store{rootDir: rootDir}
}

func (s *Store) typeDir(logType string) string {
	return filepath.Join(s.rootDir, "devlogs", logType)
}

// filenameFor derives the storage key: the full date for daily/weekly logs,
// the year-month prefix for the reserved monthly type.
func filenameFor(date, logType string) string {
	if logType == models.LogTypeMonthly && len(date) >= 7 {
		return date[:7] + ".json"
	}
	return date + ".json"
}

// Save writes a devlog as pretty-printed JSON.
func (s *Store) Save(log *models.DevLog) error {
	dir := s.typeDir(log.LogType)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create devlog directory: %w", err)
	}

	content, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize devlog: %w", err)
	}

	path := filepath.Join(dir, filenameFor(log.Date, log.LogType))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("cannot write devlog: %w", err)
	}
	return nil
}

// Get returns the stored devlog for (date, logType), ErrNotFound when the
// file is absent. A malformed file is a hard parse error.
func (s *Store) Get(date, logType string) (*models.DevLog, error) {
	path := filepath.Join(s.typeDir(logType), filenameFor(date, logType))

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("cannot read devlog: %w", err)
	}

	var log models.DevLog
	if err := json.Unmarshal(content, &log); err != nil {
		return nil, fmt.Errorf("cannot parse devlog %s: %w", path, err)
	}
	return &log, nil
}

// List returns up to limit devlogs of a type, newest first. Filenames sort
// lexicographically descending, which is chronological descending for the
// YYYY-MM-DD and YYYY-MM naming schemes. Unparseable entries are skipped.
func (s *Store) List(logType string, limit int) ([]models.DevLog, error) {
	dir := s.typeDir(logType)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.DevLog{}, nil
		}
		return nil, fmt.Errorf("cannot read devlog directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	if len(names) > limit {
		names = names[:limit]
	}

	logs := make([]models.DevLog, 0, len(names))
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		var log models.DevLog
		if err := json.Unmarshal(content, &log); err != nil {
			logger.Warnf("Skipping malformed devlog %s: %v", name, err)
			continue
		}
		logs = append(logs, log)
	}
	return logs, nil
}
