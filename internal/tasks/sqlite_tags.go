package tasks

import (
	"context"
	"fmt"
)

// AddTags links every name to taskID in one transaction, creating missing
// tags. Existing links are left as they are.
func (s *SQLiteStore) AddTags(ctx context.Context, taskID int64, names []string) (bool, error) {
	if taskID <= 0 {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("start add tags tx: %w", err)
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

	for _, name := range names {
		if _, err := tx.ExecContext(ctx, `INSERT INTO tags(name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
			return false, fmt.Errorf("insert tag %q: %w", name, err)
		}

		var tagID int64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ?`, name).Scan(&tagID); err != nil {
			return false, fmt.Errorf("read tag %q: %w", name, err)
		}

		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO task_tags(task_id, tag_id) VALUES (?, ?) ON CONFLICT(task_id, tag_id) DO NOTHING`,
			taskID,
			tagID,
		)
		if err != nil {
			return false, fmt.Errorf("link tag %q to task %d: %w", name, taskID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit add tags tx: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) RemoveTag(ctx context.Context, taskID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(
		ctx,
		`DELETE FROM task_tags
		 WHERE task_id = ? AND tag_id IN (SELECT id FROM tags WHERE name = ?)`,
		taskID,
		name,
	)
	if err != nil {
		return fmt.Errorf("unlink tag %q from task %d: %w", name, taskID, err)
	}
	return nil
}

func (s *SQLiteStore) GetTaskWithTags(ctx context.Context, taskID int64) (TaskWithTags, bool, error) {
	if taskID <= 0 {
		return TaskWithTags{}, false, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	task, found, err := getTask(ctx, s.db, taskID)
	if err != nil || !found {
		return TaskWithTags{}, found, err
	}

	tagsByTask, err := s.tagNamesByTask(
		ctx,
		`SELECT tt.task_id, g.name
		 FROM task_tags tt
		 JOIN tags g ON g.id = tt.tag_id
		 WHERE tt.task_id = ?
		 ORDER BY g.name ASC`,
		taskID,
	)
	if err != nil {
		return TaskWithTags{}, false, err
	}

	return TaskWithTags{Task: task, Tags: tagsOrEmpty(tagsByTask[taskID])}, true, nil
}

func (s *SQLiteStore) ListTasksByTag(ctx context.Context, name string) ([]TaskWithTags, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT t.id, t.title, t.description, t.status, t.created_at, t.due_date
		 FROM tasks t
		 JOIN task_tags tt ON tt.task_id = t.id
		 JOIN tags g ON g.id = tt.tag_id
		 WHERE g.name = ?
		 ORDER BY t.id ASC`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks by tag: %w", err)
	}

	tagged := make([]Task, 0)
	for rows.Next() {
		task, err := scanTaskRow(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		tagged = append(tagged, task)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate tasks by tag: %w", err)
	}
	_ = rows.Close()

	result := make([]TaskWithTags, 0, len(tagged))
	if len(tagged) == 0 {
		return result, nil
	}

	tagsByTask, err := s.tagNamesByTask(
		ctx,
		`SELECT tt.task_id, g.name
		 FROM task_tags tt
		 JOIN tags g ON g.id = tt.tag_id
		 WHERE tt.task_id IN (
			SELECT tt2.task_id FROM task_tags tt2 JOIN tags g2 ON g2.id = tt2.tag_id WHERE g2.name = ?
		 )
		 ORDER BY tt.task_id ASC, g.name ASC`,
		name,
	)
	if err != nil {
		return nil, err
	}

	for _, task := range tagged {
		result = append(result, TaskWithTags{Task: task, Tags: tagsOrEmpty(tagsByTask[task.ID])})
	}
	return result, nil
}

func (s *SQLiteStore) ListTags(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		result = append(result, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return result, nil
}

func (s *SQLiteStore) tagNamesByTask(ctx context.Context, query string, args ...any) (map[int64][]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query task tags: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[int64][]string)
	for rows.Next() {
		var (
			taskID int64
			name   string
		)
		if err := rows.Scan(&taskID, &name); err != nil {
			return nil, fmt.Errorf("scan task tag: %w", err)
		}
		result[taskID] = append(result[taskID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task tags: %w", err)
	}
	return result, nil
}

func tagsOrEmpty(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
