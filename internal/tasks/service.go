package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Service validates input and normalizes tag names before handing them to
// the store. Not-found conditions come back as false. Storage failures come
// back as *StorageError, logged after the store has rolled back.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	list   ListOptions
}

type ServiceOption func(*Service)

func WithListOptions(opts ListOptions) ServiceOption {
	return func(s *Service) {
		s.list = opts
	}
}

func NewService(store Store, logger *zap.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, title, description string, due *time.Time) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("%w: title is required", ErrValidation)
	}

	taskID, err := s.store.CreateTask(ctx, Task{
		Title:       title,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   s.now().UTC(),
		DueDate:     due,
	})
	if err != nil {
		return 0, s.fail("create task", 0, err)
	}

	s.logger.Debug("task created", zap.Int64("task_id", taskID), zap.String("title", title))
	return taskID, nil
}

// CreateWithTags checks the title and every tag name before writing, then
// creates the task and links the tags. A storage failure while tagging leaves
// the created task in place and returns its id with the error.
func (s *Service) CreateWithTags(ctx context.Context, title, description string, due *time.Time, names []string) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("%w: title is required", ErrValidation)
	}
	normalized, err := normalizeTagNames(names)
	if err != nil {
		return 0, err
	}

	taskID, err := s.Create(ctx, title, description, due)
	if err != nil {
		return 0, err
	}
	if len(normalized) == 0 {
		return taskID, nil
	}
	if _, err := s.AddTags(ctx, taskID, normalized); err != nil {
		return taskID, err
	}
	return taskID, nil
}

func (s *Service) Get(ctx context.Context, taskID int64) (Task, bool, error) {
	task, found, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return Task{}, false, s.fail("get task", taskID, err)
	}
	return task, found, nil
}

func (s *Service) List(ctx context.Context) ([]Task, error) {
	result, err := s.store.ListTasks(ctx, s.list)
	if err != nil {
		return nil, s.fail("list tasks", 0, err)
	}
	return result, nil
}

func (s *Service) SetStatus(ctx context.Context, taskID int64, status Status) (bool, error) {
	updated, err := s.store.SetStatus(ctx, taskID, status)
	if err != nil {
		return false, s.fail("set task status", taskID, err)
	}
	if updated {
		s.logger.Debug("task status set", zap.Int64("task_id", taskID), zap.String("status", string(status)))
	}
	return updated, nil
}

func (s *Service) Complete(ctx context.Context, taskID int64) (bool, error) {
	return s.SetStatus(ctx, taskID, StatusCompleted)
}

func (s *Service) Exists(ctx context.Context, taskID int64) (bool, error) {
	exists, err := s.store.TaskExists(ctx, taskID)
	if err != nil {
		return false, s.fail("check task exists", taskID, err)
	}
	return exists, nil
}

// Delete removes the task and renumbers the tasks after it, so identifiers
// stay 1..N.
func (s *Service) Delete(ctx context.Context, taskID int64) (bool, error) {
	deleted, err := s.store.DeleteTask(ctx, taskID)
	if err != nil {
		return false, s.fail("delete task", taskID, err)
	}
	if deleted {
		s.logger.Debug("task deleted", zap.Int64("task_id", taskID))
	}
	return deleted, nil
}

func (s *Service) AddTags(ctx context.Context, taskID int64, names []string) (bool, error) {
	normalized, err := normalizeTagNames(names)
	if err != nil {
		return false, err
	}

	added, err := s.store.AddTags(ctx, taskID, normalized)
	if err != nil {
		return false, s.fail("add tags", taskID, err)
	}
	if added {
		s.logger.Debug("tags added", zap.Int64("task_id", taskID), zap.Strings("tags", normalized))
	}
	return added, nil
}

func (s *Service) RemoveTag(ctx context.Context, taskID int64, name string) error {
	normalized := NormalizeTagName(name)
	if normalized == "" {
		return fmt.Errorf("%w: tag name is required", ErrValidation)
	}

	if err := s.store.RemoveTag(ctx, taskID, normalized); err != nil {
		return s.fail("remove tag", taskID, err)
	}
	return nil
}

func (s *Service) TagsFor(ctx context.Context, taskID int64) (TaskWithTags, bool, error) {
	task, found, err := s.store.GetTaskWithTags(ctx, taskID)
	if err != nil {
		return TaskWithTags{}, false, s.fail("get task tags", taskID, err)
	}
	return task, found, nil
}

func (s *Service) TasksByTag(ctx context.Context, name string) ([]TaskWithTags, error) {
	result, err := s.store.ListTasksByTag(ctx, NormalizeTagName(name))
	if err != nil {
		return nil, s.fail("list tasks by tag", 0, err)
	}
	return result, nil
}

func (s *Service) AllTags(ctx context.Context) ([]string, error) {
	result, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, s.fail("list tags", 0, err)
	}
	return result, nil
}

func (s *Service) fail(op string, taskID int64, err error) error {
	fields := []zap.Field{zap.String("op", op), zap.Error(err)}
	if taskID != 0 {
		fields = append(fields, zap.Int64("task_id", taskID))
	}
	s.logger.Error("storage operation failed", fields...)
	return &StorageError{Op: op, Err: err}
}

// normalizeTagNames lowercases and dedupes names, keeping first-seen order.
func normalizeTagNames(names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		normalized := NormalizeTagName(name)
		if normalized == "" {
			return nil, fmt.Errorf("%w: tag name is required", ErrValidation)
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}
	return result, nil
}
