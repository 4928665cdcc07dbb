package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const tasksFileName = "tasks.json"

// FileStore keeps one JSON file per user under its data directory. The file
// is rewritten wholesale through a temp-file rename, so a concurrent load
// never observes a partial write.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) UserDir(userID string) string {
	// Base strips any path separators a hostile user id could carry.
	return filepath.Join(s.dir, filepath.Base(userID))
}

func (s *FileStore) Load(_ context.Context, userID string) (Hierarchy, error) {
	data, err := os.ReadFile(filepath.Join(s.UserDir(userID), tasksFileName))
	if err != nil {
		// Missing record means the user has no tasks yet.
		return NewHierarchy(), nil
	}
	h := NewHierarchy()
	if err := json.Unmarshal(data, &h); err != nil {
		return NewHierarchy(), fmt.Errorf("decode tasks for %q: %w", userID, err)
	}
	for _, t := range h {
		if t.Subtasks == nil {
			t.Subtasks = make(map[string]int)
		}
	}
	return h, nil
}

func (s *FileStore) Save(_ context.Context, userID string, h Hierarchy) error {
	userDir := s.UserDir(userID)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return fmt.Errorf("create user dir: %w", err)
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tasks for %q: %w", userID, err)
	}

	tmp, err := os.CreateTemp(userDir, tasksFileName+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write tasks for %q: %w", userID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(userDir, tasksFileName)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace tasks for %q: %w", userID, err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
