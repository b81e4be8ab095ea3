package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"checklist/internal/task"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "checklist.sqlite"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	in := task.New("Write report")
	in.Description = "quarterly"
	in.Urgency = task.High
	in.SetStatus(task.Completed, now)
	in.Tags = []string{"work", "q2"}

	id, err := s.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}
	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != in.Title || got.Description != in.Description || got.Urgency != task.High || got.Status != task.Completed {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !slices.Equal(got.Tags, []string{"q2", "work"}) {
		t.Fatalf("tags = %v", got.Tags)
	}
	if !got.CreatedAt.Equal(now) || !got.UpdatedAt.Equal(now) || !got.CompletedAt.Equal(now) {
		t.Fatalf("timestamps created=%v updated=%v completed=%v", got.CreatedAt, got.UpdatedAt, got.CompletedAt)
	}
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	s := openTemp(t)
	_, err := s.Create(context.Background(), task.New("  "))
	if !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask, got %v", err)
	}
	var se *StoreError
	if !errors.As(err, &se) || se.Op != "create" {
		t.Fatalf("expected StoreError for create, got %#v", err)
	}
}

func TestListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Second)
		s.now = func() time.Time { return at }
		if _, err := s.Create(ctx, task.New(title)); err != nil {
			t.Fatalf("Create(%q) error = %v", title, err)
		}
	}
	tasks, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var titles []string
	for _, tk := range tasks {
		titles = append(titles, tk.Title)
	}
	if want := []string{"first", "second", "third"}; !slices.Equal(titles, want) {
		t.Fatalf("titles = %v, want %v", titles, want)
	}
}

func TestUpdateAndDeleteMissingTask(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	id, err := s.Create(ctx, task.New("draft"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	later := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return later }
	upd := task.New("final")
	upd.Urgency = task.Critical
	if err := s.Update(ctx, id, upd); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ := s.Get(ctx, id)
	if got.Title != "final" || got.Urgency != task.Critical || !got.UpdatedAt.Equal(later) {
		t.Fatalf("after update %+v", got)
	}

	if err := s.Update(ctx, "missing", upd); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update(missing) error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete() error = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestImportSkipsExistingIDs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "other.sqlite")
	src, err := Open(srcPath)
	if err != nil {
		t.Fatalf("Open(src) error = %v", err)
	}
	for _, title := range []string{"a", "b"} {
		if _, err := src.Create(ctx, task.New(title)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	_ = src.Close()

	ro, err := OpenReadOnly(srcPath)
	if err != nil {
		t.Fatalf("OpenReadOnly() error = %v", err)
	}
	defer ro.Close()

	dst := openTemp(t)
	res, err := dst.Import(ctx, ro)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Imported != 2 || len(res.Failed) != 0 {
		t.Fatalf("first import = %+v", res)
	}
	res, err = dst.Import(ctx, ro)
	if err != nil {
		t.Fatalf("second Import() error = %v", err)
	}
	if res.Imported != 0 || len(res.Failed) != 2 {
		t.Fatalf("second import = %+v", res)
	}
	tasks, _ := dst.List(ctx)
	if len(tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(tasks))
	}
}

func TestOpenReadOnlyRejectsMissingFile(t *testing.T) {
	if _, err := OpenReadOnly(filepath.Join(t.TempDir(), "nope.sqlite")); err == nil {
		t.Fatal("expected error for missing import source")
	}
}

func TestOpenMigratesOlderSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.sqlite")
	db, err := sql.Open("sqlite", sqliteDSN(path, "rwc"))
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	_, err = db.Exec(`CREATE TABLE task (
	id TEXT PRIMARY KEY, name TEXT NOT NULL, description TEXT, latest TEXT,
	urgency TEXT, status TEXT NOT NULL, tags TEXT, date_added DATE NOT NULL, completed_on DATE);
INSERT INTO task VALUES ('legacy', 'Old task', NULL, 'note', 'Medium', 'Paused', 'x;y', '2023-06-01', NULL);`)
	if err != nil {
		t.Fatalf("seed error = %v", err)
	}
	_ = db.Close()

	ro, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("OpenReadOnly() error = %v", err)
	}
	legacy, err := ro.Get(context.Background(), "legacy")
	_ = ro.Close()
	if err != nil {
		t.Fatalf("Get() on read-only legacy db error = %v", err)
	}
	if legacy.Urgency != task.Medium || legacy.Status != task.Paused || !slices.Equal(legacy.Tags, []string{"x", "y"}) {
		t.Fatalf("legacy task = %+v", legacy)
	}
	if want := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC); !legacy.CreatedAt.Equal(want) {
		t.Fatalf("created = %v, want %v", legacy.CreatedAt, want)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()
	cols, err := s.columns()
	if err != nil {
		t.Fatalf("columns() error = %v", err)
	}
	if _, ok := cols["updated_at"]; !ok {
		t.Fatal("expected updated_at column after migration")
	}
}

func TestWipe(t *testing.T) {
	ctx := context.Background()
	for _, hard := range []bool{false, true} {
		s, err := OpenMemory()
		if err != nil {
			t.Fatalf("OpenMemory() error = %v", err)
		}
		if _, err := s.Create(ctx, task.New("doomed")); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if err := s.Wipe(ctx, hard); err != nil {
			t.Fatalf("Wipe(hard=%v) error = %v", hard, err)
		}
		tasks, err := s.List(ctx)
		if err != nil || len(tasks) != 0 {
			t.Fatalf("after wipe(hard=%v) tasks=%d err=%v", hard, len(tasks), err)
		}
		if _, err := s.Create(ctx, task.New("again")); err != nil {
			t.Fatalf("Create after wipe(hard=%v) error = %v", hard, err)
		}
		_ = s.Close()
	}
}
