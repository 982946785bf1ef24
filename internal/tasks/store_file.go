package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore keeps the whole task collection in memory and rewrites its JSON file
// after every mutation.
type FileStore struct {
	path   string
	nextID int64
	tasks  []Task
	now    func() time.Time
}

type fileDocument struct {
	NextID int64  `json:"next_id"`
	Tasks  []Task `json:"tasks"`
}

// OpenFileStore loads path into memory. A missing file is an empty store.
func OpenFileStore(path string) (*FileStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store path is required")
	}
	s := &FileStore{path: filepath.Clean(path), nextID: 1, now: time.Now}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read store %s: %w", s.path, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	var doc fileDocument
	if data[0] == '[' {
		// Older stores were a bare list of tasks.
		if err := json.Unmarshal(data, &doc.Tasks); err != nil {
			return fmt.Errorf("decode store %s: %w", s.path, err)
		}
	} else if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode store %s: %w", s.path, err)
	}

	seen := make(map[int64]struct{}, len(doc.Tasks))
	var maxID int64
	for _, t := range doc.Tasks {
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("decode store %s: duplicate task id %d", s.path, t.ID)
		}
		seen[t.ID] = struct{}{}
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	s.tasks = doc.Tasks
	s.nextID = doc.NextID
	if s.nextID <= maxID {
		s.nextID = maxID + 1
	}
	return nil
}

func (s *FileStore) persist() error {
	tasks := s.tasks
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(fileDocument{NextID: s.nextID, Tasks: tasks}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	data = append(data, '\n')
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write store %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) AddTask(_ context.Context, description string, priority int) (Task, error) {
	description, err := normalizeDescription(description)
	if err != nil {
		return Task{}, err
	}
	task := Task{
		ID:          s.nextID,
		Description: description,
		Priority:    priority,
		CreatedAt:   s.now().UTC().Truncate(time.Second),
	}
	s.tasks = append(s.tasks, task)
	s.nextID++
	if err := s.persist(); err != nil {
		s.tasks = s.tasks[:len(s.tasks)-1]
		s.nextID--
		return Task{}, err
	}
	return task, nil
}

func (s *FileStore) ListTasks(_ context.Context) ([]Task, error) {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

func (s *FileStore) DeleteTask(_ context.Context, id int64) (bool, error) {
	idx := -1
	for i, t := range s.tasks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	prev := s.tasks
	next := make([]Task, 0, len(prev)-1)
	next = append(next, prev[:idx]...)
	next = append(next, prev[idx+1:]...)
	s.tasks = next
	if err := s.persist(); err != nil {
		s.tasks = prev
		return false, err
	}
	return true, nil
}

func (s *FileStore) Close() error { return nil }

// writeFileAtomic writes data to a temp file beside path and renames it into place.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
