package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tasklog/internal/tasks"
)

func newTagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage task tags",
	}
	cmd.AddCommand(
		newTagAddCmd(a),
		newTagRemoveCmd(a),
		newTagListCmd(a),
		newTagFindCmd(a),
	)
	return cmd
}

func newTagAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <id> <tag>...",
		Short: "Attach tags to a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			service, err := a.tasks()
			if err != nil {
				return err
			}

			added, err := service.AddTags(cmd.Context(), taskID, args[1:])
			if err != nil {
				return fmt.Errorf("add tags: %w", err)
			}
			if !added {
				return taskNotFound(taskID)
			}

			task, _, err := service.TagsFor(cmd.Context(), taskID)
			if err != nil {
				return fmt.Errorf("read task tags: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "task_id=%d tags=%s\n", taskID, strings.Join(task.Tags, ","))
			return nil
		},
	}
}

func newTagRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id> <tag>",
		Aliases: []string{"remove"},
		Short:   "Detach a tag from a task",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			service, err := a.tasks()
			if err != nil {
				return err
			}

			if err := service.RemoveTag(cmd.Context(), taskID, args[1]); err != nil {
				return fmt.Errorf("remove tag: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "task_id=%d removed=%s\n", taskID, tasks.NormalizeTagName(args[1]))
			return nil
		},
	}
}

func newTagListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every known tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := a.tasks()
			if err != nil {
				return err
			}

			names, err := service.AllTags(cmd.Context())
			if err != nil {
				return fmt.Errorf("list tags: %w", err)
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tags found!")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newTagFindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find <tag>",
		Short: "List tasks carrying a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := a.tasks()
			if err != nil {
				return err
			}

			tagged, err := service.TasksByTag(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("find tasks by tag: %w", err)
			}
			if len(tagged) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No tasks tagged %q\n", args[0])
				return nil
			}
			for _, task := range tagged {
				fmt.Fprintln(cmd.OutOrStdout(), formatTaskRow(task.Task, task.Tags))
			}
			return nil
		},
	}
}
