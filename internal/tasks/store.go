package tasks

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrTaskNotFound = errors.New("task not found")
)

// StorageError reports a failed write or read. When returned from a write the
// whole transaction has already been rolled back.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type TaskStore interface {
	// CreateTask assigns the next dense identifier and returns it.
	CreateTask(ctx context.Context, task Task) (int64, error)
	GetTask(ctx context.Context, taskID int64) (Task, bool, error)
	ListTasks(ctx context.Context, opts ListOptions) ([]Task, error)
	SetStatus(ctx context.Context, taskID int64, status Status) (bool, error)
	TaskExists(ctx context.Context, taskID int64) (bool, error)
	// DeleteTask removes the task and renumbers every later task down by one.
	DeleteTask(ctx context.Context, taskID int64) (bool, error)
}

// TagIndex expects tag names already normalized with NormalizeTagName.
type TagIndex interface {
	AddTags(ctx context.Context, taskID int64, names []string) (bool, error)
	RemoveTag(ctx context.Context, taskID int64, name string) error
	GetTaskWithTags(ctx context.Context, taskID int64) (TaskWithTags, bool, error)
	ListTasksByTag(ctx context.Context, name string) ([]TaskWithTags, error)
	ListTags(ctx context.Context) ([]string, error)
}

type Store interface {
	TaskStore
	TagIndex
	Close() error
}
