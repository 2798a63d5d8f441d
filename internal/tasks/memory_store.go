package tasks

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryStore struct {
	mu        sync.RWMutex
	tasksByID map[int64]Task
	tagIDs    map[string]int64
	tagNames  map[int64]string
	nextTagID int64
	links     map[int64]map[int64]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasksByID: make(map[int64]Task),
		tagIDs:    make(map[string]int64),
		tagNames:  make(map[int64]string),
		links:     make(map[int64]map[int64]struct{}),
	}
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) CreateTask(_ context.Context, task Task) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = int64(len(s.tasksByID)) + 1
	if task.Status == "" {
		task.Status = StatusPending
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	task.DueDate = copyDue(task.DueDate)

	s.tasksByID[task.ID] = task
	return task.ID, nil
}

func (s *MemoryStore) GetTask(_ context.Context, taskID int64) (Task, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasksByID[taskID]
	return copyTask(task), ok, nil
}

func (s *MemoryStore) ListTasks(_ context.Context, opts ListOptions) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Task, 0, len(s.tasksByID))
	for _, task := range s.tasksByID {
		result = append(result, copyTask(task))
	}
	sort.Slice(result, func(i, j int) bool {
		return dueLess(result[i], result[j], opts.NullsLast)
	})
	return result, nil
}

func (s *MemoryStore) SetStatus(_ context.Context, taskID int64, status Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasksByID[taskID]
	if !ok {
		return false, nil
	}
	task.Status = status
	s.tasksByID[taskID] = task
	return true, nil
}

func (s *MemoryStore) TaskExists(_ context.Context, taskID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.tasksByID[taskID]
	return ok, nil
}

func (s *MemoryStore) DeleteTask(_ context.Context, taskID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasksByID[taskID]; !ok {
		return false, nil
	}
	delete(s.tasksByID, taskID)
	delete(s.links, taskID)

	remaining := make([]int64, 0, len(s.tasksByID))
	for id := range s.tasksByID {
		remaining = append(remaining, id)
	}
	for _, shift := range planRenumber(remaining, taskID) {
		task := s.tasksByID[shift.From]
		task.ID = shift.To
		s.tasksByID[shift.To] = task
		delete(s.tasksByID, shift.From)

		if linked, ok := s.links[shift.From]; ok {
			s.links[shift.To] = linked
			delete(s.links, shift.From)
		}
	}
	return true, nil
}

func (s *MemoryStore) AddTags(_ context.Context, taskID int64, names []string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasksByID[taskID]; !ok {
		return false, nil
	}

	linked, ok := s.links[taskID]
	if !ok {
		linked = make(map[int64]struct{})
		s.links[taskID] = linked
	}
	for _, name := range names {
		tagID, ok := s.tagIDs[name]
		if !ok {
			s.nextTagID++
			tagID = s.nextTagID
			s.tagIDs[name] = tagID
			s.tagNames[tagID] = name
		}
		linked[tagID] = struct{}{}
	}
	return true, nil
}

func (s *MemoryStore) RemoveTag(_ context.Context, taskID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tagID, ok := s.tagIDs[name]; ok {
		delete(s.links[taskID], tagID)
	}
	return nil
}

func (s *MemoryStore) GetTaskWithTags(_ context.Context, taskID int64) (TaskWithTags, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasksByID[taskID]
	if !ok {
		return TaskWithTags{}, false, nil
	}
	return TaskWithTags{Task: copyTask(task), Tags: s.tagNamesFor(taskID)}, true, nil
}

func (s *MemoryStore) ListTasksByTag(_ context.Context, name string) ([]TaskWithTags, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]TaskWithTags, 0)
	tagID, ok := s.tagIDs[name]
	if !ok {
		return result, nil
	}
	for taskID, linked := range s.links {
		if _, hasTag := linked[tagID]; !hasTag {
			continue
		}
		result = append(result, TaskWithTags{
			Task: copyTask(s.tasksByID[taskID]),
			Tags: s.tagNamesFor(taskID),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *MemoryStore) ListTags(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]string, 0, len(s.tagIDs))
	for name := range s.tagIDs {
		result = append(result, name)
	}
	sort.Strings(result)
	return result, nil
}

func (s *MemoryStore) tagNamesFor(taskID int64) []string {
	names := make([]string, 0, len(s.links[taskID]))
	for tagID := range s.links[taskID] {
		names = append(names, s.tagNames[tagID])
	}
	sort.Strings(names)
	return names
}

func dueLess(a, b Task, nullsLast bool) bool {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return a.ID < b.ID
	case a.DueDate == nil:
		return !nullsLast
	case b.DueDate == nil:
		return nullsLast
	case !a.DueDate.Equal(*b.DueDate):
		return a.DueDate.Before(*b.DueDate)
	default:
		return a.ID < b.ID
	}
}

func copyTask(task Task) Task {
	task.DueDate = copyDue(task.DueDate)
	return task
}

func copyDue(due *time.Time) *time.Time {
	if due == nil {
		return nil
	}
	copied := due.UTC()
	return &copied
}
