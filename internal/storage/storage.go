package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"checklist/internal/task"
)

var (
	ErrNotFound    = errors.New("task not found")
	ErrEmptyPath   = errors.New("db path is empty")
	ErrInvalidTask = errors.New("invalid task")
)

// StoreError records which store operation failed.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
	// hasUpdatedAt is false for read-only databases written by older
	// versions that predate the column.
	hasUpdatedAt bool
}

// Open opens (creating if needed) the database at dbPath and migrates it.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, ErrEmptyPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, wrap("open", err)
	}
	return open(sqliteDSN(dbPath, "rwc"), dbPath, true)
}

// OpenMemory returns a throwaway database that lives as long as the Store.
func OpenMemory() (*Store, error) {
	return open(":memory:", ":memory:", true)
}

// OpenReadOnly opens an existing database without migrating it, for use as
// an import source.
func OpenReadOnly(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, ErrEmptyPath
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil, wrap("open", err)
	}
	return open(sqliteDSN(dbPath, "ro"), dbPath, false)
}

func open(dsn, path string, migrate bool) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, wrap("open", err)
	}
	// One connection keeps :memory: databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, now: time.Now}
	if migrate {
		err = s.ensureSchema()
	} else {
		err = s.inspect()
	}
	if err != nil {
		db.Close()
		return nil, wrap("open", err)
	}
	return s, nil
}

// Path is the database file, or ":memory:".
func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS task (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	urgency TEXT,
	status TEXT NOT NULL,
	tags TEXT,
	date_added TEXT NOT NULL,
	completed_on TEXT
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureTaskColumns()
}

func (s *Store) ensureTaskColumns() error {
	required := map[string]string{
		"updated_at": "ALTER TABLE task ADD COLUMN updated_at TEXT DEFAULT NULL;",
	}
	existing, err := s.columns()
	if err != nil {
		return err
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	s.hasUpdatedAt = true
	return nil
}

// inspect checks a database opened without migration.
func (s *Store) inspect() error {
	existing, err := s.columns()
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return errors.New("no task table")
	}
	_, s.hasUpdatedAt = existing["updated_at"]
	return nil
}

func (s *Store) columns() (map[string]struct{}, error) {
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(task);`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		existing[name] = struct{}{}
	}
	return existing, rows.Err()
}

func (s *Store) selectColumns() string {
	updated := "NULL"
	if s.hasUpdatedAt {
		updated = "updated_at"
	}
	return "id, name, description, urgency, status, tags, date_added, completed_on, " + updated
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (task.Task, error) {
	var (
		t                   task.Task
		desc, urgency, tags sql.NullString
		status, added       string
		completed, updated  sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Title, &desc, &urgency, &status, &tags, &added, &completed, &updated); err != nil {
		return task.Task{}, err
	}
	t.Description = desc.String

	t.Urgency = task.Low
	if urgency.Valid && urgency.String != "" {
		u, err := task.ParseUrgency(urgency.String)
		if err != nil {
			return task.Task{}, fmt.Errorf("task %s: %w", t.ID, err)
		}
		t.Urgency = u
	}
	st, err := task.ParseStatus(status)
	if err != nil {
		return task.Task{}, fmt.Errorf("task %s: %w", t.ID, err)
	}
	t.Status = st

	if tags.Valid && tags.String != "" {
		t.Tags = task.NormalizeTags(strings.Split(tags.String, ";"))
	}
	t.CreatedAt = parseTime(added)
	if completed.Valid {
		t.CompletedAt = parseTime(completed.String)
	}
	t.UpdatedAt = t.CreatedAt
	if updated.Valid {
		t.UpdatedAt = parseTime(updated.String)
	}
	return t, nil
}

// timeFormat is fixed width so stored stamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// parseTime accepts our own RFC3339 stamps and the plain dates written by
// older databases. Unparseable values read as the zero time.
func parseTime(v string) time.Time {
	v = strings.TrimSpace(v)
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func formatTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(timeFormat), Valid: true}
}

func joinTags(tags []string) sql.NullString {
	tags = task.NormalizeTags(tags)
	if len(tags) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.Join(tags, ";"), Valid: true}
}

func validate(t task.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidTask)
	}
	for _, tag := range t.Tags {
		if strings.Contains(tag, ";") {
			return fmt.Errorf("%w: tag %q contains ';'", ErrInvalidTask, tag)
		}
	}
	return nil
}

// Create inserts t under a fresh ID and returns it. A zero CreatedAt is
// stamped with the current time.
func (s *Store) Create(ctx context.Context, t task.Task) (string, error) {
	if err := validate(t); err != nil {
		return "", wrap("create", err)
	}
	now := s.now().UTC()
	t.ID = uuid.NewString()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	if _, err := s.insert(ctx, s.db, t, false); err != nil {
		return "", wrap("create", err)
	}
	return t.ID, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) insert(ctx context.Context, db execer, t task.Task, skipExisting bool) (sql.Result, error) {
	conflict := ""
	if skipExisting {
		conflict = " ON CONFLICT(id) DO NOTHING"
	}
	return db.ExecContext(ctx, `INSERT INTO task (id, name, description, urgency, status, tags, date_added, completed_on, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`+conflict+`;`,
		t.ID, t.Title, t.Description, t.Urgency.String(), t.Status.String(), joinTags(t.Tags),
		formatTime(t.CreatedAt).String, formatTime(t.CompletedAt), formatTime(t.UpdatedAt))
}

func (s *Store) Get(ctx context.Context, id string) (task.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+s.selectColumns()+` FROM task WHERE id = ?;`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, wrap("get", fmt.Errorf("%w: %s", ErrNotFound, id))
	}
	if err != nil {
		return task.Task{}, wrap("get", err)
	}
	return t, nil
}

// List returns every task in insertion order.
func (s *Store) List(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+s.selectColumns()+` FROM task ORDER BY date_added, rowid;`)
	if err != nil {
		return nil, wrap("list", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, wrap("list", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list", err)
	}
	return tasks, nil
}

// Update replaces every field of task id with t and stamps UpdatedAt.
func (s *Store) Update(ctx context.Context, id string, t task.Task) error {
	if err := validate(t); err != nil {
		return wrap("update", err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE task SET name = ?, description = ?, urgency = ?, status = ?, tags = ?, completed_on = ?, updated_at = ? WHERE id = ?;`,
		t.Title, t.Description, t.Urgency.String(), t.Status.String(), joinTags(t.Tags),
		formatTime(t.CompletedAt), formatTime(s.now()), id)
	if err != nil {
		return wrap("update", err)
	}
	return wrap("update", expectOne(res, id))
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM task WHERE id = ?;`, id)
	if err != nil {
		return wrap("delete", err)
	}
	return wrap("delete", expectOne(res, id))
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ImportResult reports how an import went. Failed holds the IDs of tasks
// that already existed or could not be written.
type ImportResult struct {
	Imported int
	Failed   []string
}

// Import copies every task of src into s, keeping their IDs. Tasks whose
// ID is already present are skipped and reported in Failed.
func (s *Store) Import(ctx context.Context, src *Store) (ImportResult, error) {
	var res ImportResult
	tasks, err := src.List(ctx)
	if err != nil {
		return res, wrap("import", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, wrap("import", err)
	}
	defer tx.Rollback()

	for _, t := range tasks {
		if t.UpdatedAt.IsZero() {
			t.UpdatedAt = t.CreatedAt
		}
		if validate(t) != nil {
			res.Failed = append(res.Failed, t.ID)
			continue
		}
		r, err := s.insert(ctx, tx, t, true)
		if err != nil {
			return ImportResult{}, wrap("import", err)
		}
		if n, _ := r.RowsAffected(); n == 0 {
			res.Failed = append(res.Failed, t.ID)
			continue
		}
		res.Imported++
	}
	if err := tx.Commit(); err != nil {
		return ImportResult{}, wrap("import", err)
	}
	return res, nil
}

// Wipe deletes every task. A hard wipe drops and recreates the table and
// compacts the file.
func (s *Store) Wipe(ctx context.Context, hard bool) error {
	if !hard {
		_, err := s.db.ExecContext(ctx, `DELETE FROM task;`)
		return wrap("wipe", err)
	}
	if _, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS task;`); err != nil {
		return wrap("wipe", err)
	}
	if err := s.ensureSchema(); err != nil {
		return wrap("wipe", err)
	}
	_, err := s.db.ExecContext(ctx, `VACUUM;`)
	return wrap("wipe", err)
}

func sqliteDSN(path, mode string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", mode)
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
