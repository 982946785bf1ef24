package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestFileStore(t *testing.T, path string) *FileStore {
	t.Helper()
	s, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore(%q) error = %v", path, err)
	}
	return s
}

func TestFileStoreAddThenList(t *testing.T) {
	ctx := context.Background()
	s := openTestFileStore(t, filepath.Join(t.TempDir(), "tasks.json"))

	task, err := s.AddTask(ctx, "  Buy milk ", 2)
	if err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}
	if task.ID != 1 || task.Description != "Buy milk" || task.Priority != 2 {
		t.Fatalf("AddTask() = %+v, want id=1 description=%q priority=2", task, "Buy milk")
	}
	if task.CreatedAt.IsZero() {
		t.Fatalf("AddTask() CreatedAt is zero")
	}

	list, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(list) != 1 || list[0] != task {
		t.Fatalf("ListTasks() = %+v, want [%+v]", list, task)
	}
}

func TestFileStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "tasks.json")
	s := openTestFileStore(t, path)
	for _, d := range []string{"a", "b", "c"} {
		if _, err := s.AddTask(ctx, d, 1); err != nil {
			t.Fatalf("AddTask(%q) error = %v", d, err)
		}
	}

	reopened := openTestFileStore(t, path)
	list, err := reopened.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len(ListTasks()) = %d, want 3", len(list))
	}
	for i, want := range []string{"a", "b", "c"} {
		if list[i].Description != want || list[i].ID != int64(i+1) {
			t.Fatalf("list[%d] = %+v, want id=%d description=%q", i, list[i], i+1, want)
		}
	}
}

func TestFileStoreDeleteRemovesOneTask(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.json")
	s := openTestFileStore(t, path)
	a, _ := s.AddTask(ctx, "a", 1)
	b, _ := s.AddTask(ctx, "b", 2)

	found, err := s.DeleteTask(ctx, a.ID)
	if err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if !found {
		t.Fatalf("DeleteTask(%d) = false, want true", a.ID)
	}

	list, _ := openTestFileStore(t, path).ListTasks(ctx)
	if len(list) != 1 || list[0].ID != b.ID {
		t.Fatalf("ListTasks() after delete = %+v, want only task %d", list, b.ID)
	}

	found, err = s.DeleteTask(ctx, a.ID)
	if err != nil {
		t.Fatalf("second DeleteTask() error = %v", err)
	}
	if found {
		t.Fatalf("second DeleteTask(%d) = true, want false", a.ID)
	}
}

func TestFileStoreDeleteMissingLeavesFileUntouched(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.json")
	s := openTestFileStore(t, path)
	if _, err := s.AddTask(ctx, "keep me", 3); err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	found, err := s.DeleteTask(ctx, 42)
	if err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if found {
		t.Fatalf("DeleteTask(42) = true, want false")
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("store file changed after missing delete:\nbefore=%s\nafter=%s", before, after)
	}
}

func TestFileStoreDeleteOnEmptyStoreDoesNotCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	s := openTestFileStore(t, path)
	found, err := s.DeleteTask(context.Background(), 1)
	if err != nil || found {
		t.Fatalf("DeleteTask() = %v, %v, want false, nil", found, err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Stat() error = %v, want not exist", err)
	}
}

func TestFileStoreIDsNotReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.json")
	s := openTestFileStore(t, path)
	a, _ := s.AddTask(ctx, "a", 1)
	b, _ := s.AddTask(ctx, "b", 1)
	if _, err := s.DeleteTask(ctx, b.ID); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}

	c, err := openTestFileStore(t, path).AddTask(ctx, "c", 1)
	if err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}
	if c.ID == a.ID || c.ID == b.ID {
		t.Fatalf("AddTask() id = %d, reused an earlier id (%d, %d)", c.ID, a.ID, b.ID)
	}
	if c.ID != 3 {
		t.Fatalf("AddTask() id = %d, want 3", c.ID)
	}
}

func TestFileStoreRejectsEmptyDescription(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	s := openTestFileStore(t, path)
	_, err := s.AddTask(context.Background(), "   ", 1)
	if !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("AddTask() error = %v, want ErrInvalidTask", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("store file written after rejected add")
	}
}

func TestFileStoreReadsLegacyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	legacy := `[{"id":4,"description":"old","priority":1},{"id":7,"description":"older","priority":5}]`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s := openTestFileStore(t, path)
	list, _ := s.ListTasks(context.Background())
	if len(list) != 2 || list[1].Description != "older" {
		t.Fatalf("ListTasks() = %+v, want legacy tasks", list)
	}
	task, err := s.AddTask(context.Background(), "new", 1)
	if err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}
	if task.ID != 8 {
		t.Fatalf("AddTask() id = %d, want 8", task.ID)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := OpenFileStore(path); err == nil {
		t.Fatalf("OpenFileStore() error = nil, want decode error")
	}
}

func TestFileStoreDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	doc := `{"next_id":3,"tasks":[{"id":1,"description":"a","priority":1},{"id":1,"description":"b","priority":1}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := OpenFileStore(path); err == nil {
		t.Fatalf("OpenFileStore() error = nil, want duplicate id error")
	}
}

func TestFileStoreEmptyPath(t *testing.T) {
	if _, err := OpenFileStore(" "); err == nil {
		t.Fatalf("OpenFileStore(\" \") error = nil, want error")
	}
}
