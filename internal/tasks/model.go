package tasks

import (
	"fmt"
	"strings"
	"time"
)

// Status is free text. StatusPending and StatusCompleted are the values the
// CLI writes, but any other string is stored as given.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type TaskWithTags struct {
	Task
	Tags []string `json:"tags"`
}

// ListOptions controls the due-date ordering of ListTasks. Tasks without a
// due date sort first unless NullsLast is set.
type ListOptions struct {
	NullsLast bool
}

const (
	dueDateLayout     = "2006-01-02"
	dueDateTimeLayout = "2006-01-02 15:04:05"
)

func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ParseDueDate accepts "YYYY-MM-DD" or "YYYY-MM-DD HH:MM:SS". An empty input
// means no due date.
func ParseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{dueDateLayout, dueDateTimeLayout} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("%w: due date %q must be YYYY-MM-DD or YYYY-MM-DD HH:MM:SS", ErrValidation, raw)
}

func FormatDueDate(due *time.Time) string {
	if due == nil {
		return ""
	}
	if due.Hour() == 0 && due.Minute() == 0 && due.Second() == 0 {
		return due.Format(dueDateLayout)
	}
	return due.Format(dueDateTimeLayout)
}
