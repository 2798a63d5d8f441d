package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tasklog/internal/tasks"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		description string
		due         string
		tagNames    []string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate, err := tasks.ParseDueDate(due)
			if err != nil {
				return err
			}

			service, err := a.tasks()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			taskID, err := service.CreateWithTags(ctx, args[0], description, dueDate, tagNames)
			if err != nil {
				if taskID != 0 {
					return fmt.Errorf("tag task %d: %w", taskID, err)
				}
				return fmt.Errorf("add task: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "task_id=%d status=%s\n", taskID, tasks.StatusPending)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)")
	cmd.Flags().StringSliceVarP(&tagNames, "tag", "t", nil, "Tag to attach (repeatable)")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task with its tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			service, err := a.tasks()
			if err != nil {
				return err
			}

			task, found, err := service.TagsFor(cmd.Context(), taskID)
			if err != nil {
				return fmt.Errorf("show task: %w", err)
			}
			if !found {
				return taskNotFound(taskID)
			}

			writeTaskDetail(cmd.OutOrStdout(), task)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all tasks ordered by due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := a.tasks()
			if err != nil {
				return err
			}

			all, err := service.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}
			if len(all) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks found!")
				return nil
			}
			for _, task := range all {
				fmt.Fprintln(cmd.OutOrStdout(), formatTaskRow(task, nil))
			}
			return nil
		},
	}
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setStatus(cmd, a, args[0], tasks.StatusCompleted)
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set a task's status to any text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setStatus(cmd, a, args[0], tasks.Status(args[1]))
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task; later tasks move down one id",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			service, err := a.tasks()
			if err != nil {
				return err
			}

			deleted, err := service.Delete(cmd.Context(), taskID)
			if err != nil {
				return fmt.Errorf("could not delete task %d: %w", taskID, err)
			}
			if !deleted {
				return taskNotFound(taskID)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "task_id=%d status=deleted\n", taskID)
			return nil
		},
	}
}

func setStatus(cmd *cobra.Command, a *app, rawID string, status tasks.Status) error {
	taskID, err := parseTaskID(rawID)
	if err != nil {
		return err
	}
	service, err := a.tasks()
	if err != nil {
		return err
	}

	updated, err := service.SetStatus(cmd.Context(), taskID, status)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	if !updated {
		return taskNotFound(taskID)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "task_id=%d status=%s\n", taskID, status)
	return nil
}

func parseTaskID(raw string) (int64, error) {
	taskID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return taskID, nil
}

func taskNotFound(taskID int64) error {
	return fmt.Errorf("%w: no task found with ID %d", tasks.ErrTaskNotFound, taskID)
}
