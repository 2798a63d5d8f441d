package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const memoryDBPath = ":memory:"

// storedTimeLayout is fixed width so text ordering matches time ordering.
const storedTimeLayout = "2006-01-02 15:04:05"

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// SQLiteStore keeps tasks and tags in one SQLite database. Writes hold the
// exclusive lock and run in a single transaction; reads share the lock.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != memoryDBPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite parent dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	store, err := NewSQLiteStoreFromDB(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// NewSQLiteStoreFromDB takes over db and limits it to one connection.
// foreign_keys is a per-connection pragma that renumbering needs for
// ON UPDATE CASCADE, and a :memory: database lives on a single connection.
func NewSQLiteStoreFromDB(db *sql.DB) (*SQLiteStore, error) {
	db.SetMaxOpenConns(1)
	store := &SQLiteStore{db: db}
	if err := store.migrate(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	statements := []string{
		"PRAGMA foreign_keys = ON;",
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TEXT NOT NULL,
			due_date TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date);`,
		`CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS task_tags (
			task_id INTEGER NOT NULL,
			tag_id INTEGER NOT NULL,
			PRIMARY KEY (task_id, tag_id),
			FOREIGN KEY(task_id) REFERENCES tasks(id) ON DELETE CASCADE ON UPDATE CASCADE,
			FOREIGN KEY(tag_id) REFERENCES tags(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_task_tags_tag_id ON task_tags(tag_id);`,
	}

	for _, statement := range statements {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("migrate sqlite schema: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) CreateTask(ctx context.Context, task Task) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.Status == "" {
		task.Status = StatusPending
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("start create task tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var nextID int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM tasks`).Scan(&nextID); err != nil {
		return 0, fmt.Errorf("read next task id: %w", err)
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO tasks(id, title, description, status, created_at, due_date) VALUES (?, ?, ?, ?, ?, ?)`,
		nextID,
		task.Title,
		nullIfEmpty(task.Description),
		string(task.Status),
		formatTime(task.CreatedAt),
		formatDue(task.DueDate),
	)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create task tx: %w", err)
	}
	return nextID, nil
}

func (s *SQLiteStore) GetTask(ctx context.Context, taskID int64) (Task, bool, error) {
	if taskID <= 0 {
		return Task{}, false, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return getTask(ctx, s.db, taskID)
}

func (s *SQLiteStore) ListTasks(ctx context.Context, opts ListOptions) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nullsOrder := "due_date IS NOT NULL"
	if opts.NullsLast {
		nullsOrder = "due_date IS NULL"
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, title, description, status, created_at, due_date
		 FROM tasks
		 ORDER BY `+nullsOrder+`, due_date ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]Task, 0)
	for rows.Next() {
		task, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return result, nil
}

func (s *SQLiteStore) SetStatus(ctx context.Context, taskID int64, status Status) (bool, error) {
	if taskID <= 0 {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, string(status), taskID)
	if err != nil {
		return false, fmt.Errorf("update task status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read updated task count: %w", err)
	}
	return affected > 0, nil
}

func (s *SQLiteStore) TaskExists(ctx context.Context, taskID int64) (bool, error) {
	if taskID <= 0 {
		return false, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return taskExists(ctx, s.db, taskID)
}

// DeleteTask removes taskID, shifts every later task down by one and resets
// the AUTOINCREMENT counter to the new maximum. Tag links follow their task
// through ON UPDATE CASCADE. Any failure rolls the whole delete back.
func (s *SQLiteStore) DeleteTask(ctx context.Context, taskID int64) (bool, error) {
	if taskID <= 0 {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("start delete task tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	exists, err := taskExists(ctx, tx, taskID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, taskID); err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}

	later, err := taskIDsAbove(ctx, tx, taskID)
	if err != nil {
		return false, err
	}
	if err := applyRenumber(ctx, tx, planRenumber(later, taskID)); err != nil {
		return false, err
	}

	_, err = tx.ExecContext(
		ctx,
		`UPDATE sqlite_sequence SET seq = COALESCE((SELECT MAX(id) FROM tasks), 0) WHERE name = 'tasks'`,
	)
	if err != nil {
		return false, fmt.Errorf("reset task id sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete task tx: %w", err)
	}
	return true, nil
}

func applyRenumber(ctx context.Context, tx *sql.Tx, plan []idShift) error {
	if len(plan) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `UPDATE tasks SET id = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("prepare renumber: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, shift := range plan {
		result, err := stmt.ExecContext(ctx, shift.To, shift.From)
		if err != nil {
			return fmt.Errorf("renumber task %d to %d: %w", shift.From, shift.To, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("read renumbered task count: %w", err)
		}
		if affected != 1 {
			return fmt.Errorf("renumber task %d to %d: %d rows changed", shift.From, shift.To, affected)
		}
	}
	return nil
}

func taskIDsAbove(ctx context.Context, q queryer, taskID int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM tasks WHERE id > ? ORDER BY id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("query later task ids: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan later task id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate later task ids: %w", err)
	}
	return ids, nil
}

func taskExists(ctx context.Context, q queryer, taskID int64) (bool, error) {
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(1) FROM tasks WHERE id = ?`, taskID).Scan(&count); err != nil {
		return false, fmt.Errorf("check task exists: %w", err)
	}
	return count > 0, nil
}

func getTask(ctx context.Context, q queryer, taskID int64) (Task, bool, error) {
	row := q.QueryRowContext(
		ctx,
		`SELECT id, title, description, status, created_at, due_date FROM tasks WHERE id = ?`,
		taskID,
	)

	task, err := scanTaskRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, false, nil
	}
	if err != nil {
		return Task{}, false, err
	}
	return task, true, nil
}

// scanTaskRow returns sql.ErrNoRows as is.
func scanTaskRow(row rowScanner) (Task, error) {
	var (
		task         Task
		description  sql.NullString
		status       string
		createdAtRaw string
		dueDateRaw   sql.NullString
	)

	err := row.Scan(&task.ID, &task.Title, &description, &status, &createdAtRaw, &dueDateRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, err
	}
	if err != nil {
		return Task{}, fmt.Errorf("scan task: %w", err)
	}

	task.Description = description.String
	task.Status = Status(status)

	createdAt, err := time.Parse(time.RFC3339Nano, createdAtRaw)
	if err != nil {
		return Task{}, fmt.Errorf("parse task created_at: %w", err)
	}
	task.CreatedAt = createdAt

	if dueDateRaw.Valid {
		dueDate, err := time.Parse(storedTimeLayout, dueDateRaw.String)
		if err != nil {
			return Task{}, fmt.Errorf("parse task due_date: %w", err)
		}
		task.DueDate = &dueDate
	}

	return task, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatDue(due *time.Time) any {
	if due == nil {
		return nil
	}
	return due.UTC().Format(storedTimeLayout)
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
