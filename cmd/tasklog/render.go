package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"tasklog/internal/tasks"
)

func formatTaskRow(task tasks.Task, tagNames []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d [%s] %s", task.ID, task.Status, task.Title)
	if task.DueDate != nil {
		fmt.Fprintf(&b, " due=%s", tasks.FormatDueDate(task.DueDate))
	}
	if len(tagNames) > 0 {
		fmt.Fprintf(&b, " tags=%s", strings.Join(tagNames, ","))
	}
	return b.String()
}

func writeTaskDetail(w io.Writer, task tasks.TaskWithTags) {
	due := "No due date"
	if task.DueDate != nil {
		due = fmt.Sprintf("%s (%s)", tasks.FormatDueDate(task.DueDate), humanize.Time(*task.DueDate))
	}
	tagNames := "-"
	if len(task.Tags) > 0 {
		tagNames = strings.Join(task.Tags, ", ")
	}

	fmt.Fprintf(w, "ID:          %d\n", task.ID)
	fmt.Fprintf(w, "Title:       %s\n", task.Title)
	fmt.Fprintf(w, "Description: %s\n", task.Description)
	fmt.Fprintf(w, "Status:      %s\n", task.Status)
	fmt.Fprintf(w, "Created:     %s (%s)\n", task.CreatedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(task.CreatedAt))
	fmt.Fprintf(w, "Due:         %s\n", due)
	fmt.Fprintf(w, "Tags:        %s\n", tagNames)
}
