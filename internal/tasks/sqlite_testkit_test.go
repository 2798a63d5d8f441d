package tasks

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type sqliteTestHarness struct {
	Ctx     context.Context
	Store   *SQLiteStore
	Service *Service
}

func newSQLiteTestHarness(t *testing.T) *sqliteTestHarness {
	t.Helper()

	dbPath := t.TempDir() + "/tasks.db"
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	return &sqliteTestHarness{
		Ctx:     context.Background(),
		Store:   store,
		Service: NewService(store, zaptest.NewLogger(t)),
	}
}

// backends opens a fresh store per backend so contract tests run against
// every implementation.
func backends() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"sqlite": func(t *testing.T) Store {
			return newSQLiteTestHarness(t).Store
		},
		"sqlite-memory": func(t *testing.T) Store {
			store, err := NewSQLiteStore(memoryDBPath)
			if err != nil {
				t.Fatalf("NewSQLiteStore(:memory:): %v", err)
			}
			t.Cleanup(func() {
				_ = store.Close()
			})
			return store
		},
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, ctx context.Context, service *Service), opts ...ServiceOption) {
	t.Helper()

	for name, open := range backends() {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			fn(t, context.Background(), NewService(open(t), zaptest.NewLogger(t), opts...))
		})
	}
}

func taskIDs(tasks []Task) []int64 {
	ids := make([]int64, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return ids
}

func mustDue(t *testing.T, raw string) *time.Time {
	t.Helper()

	due, err := ParseDueDate(raw)
	if err != nil {
		t.Fatalf("ParseDueDate(%q): %v", raw, err)
	}
	return due
}
