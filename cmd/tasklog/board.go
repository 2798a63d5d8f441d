package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"tasklog/internal/tasks"
	"tasklog/internal/ui"
)

func newBoardCmd(a *app) *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Browse tasks, pending work and tags in tabs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := a.tasks()
			if err != nil {
				return err
			}

			actions := &boardActions{ctx: cmd.Context(), service: service}
			model, err := actions.Reload()
			if err != nil {
				return err
			}

			if preview {
				fmt.Fprintln(cmd.OutOrStdout(), "(preview)")
				fmt.Fprint(cmd.OutOrStdout(), model.View())
				return nil
			}
			return ui.RunInteractive(model, actions, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "Render the board once and exit")
	return cmd
}

type boardActions struct {
	ctx     context.Context
	service *tasks.Service
}

func (b *boardActions) Complete(taskID int64) (string, error) {
	updated, err := b.service.Complete(b.ctx, taskID)
	if err != nil {
		return "", err
	}
	if !updated {
		return "", taskNotFound(taskID)
	}
	return fmt.Sprintf("task %d completed", taskID), nil
}

func (b *boardActions) Delete(taskID int64) (string, error) {
	deleted, err := b.service.Delete(b.ctx, taskID)
	if err != nil {
		return "", err
	}
	if !deleted {
		return "", taskNotFound(taskID)
	}
	return fmt.Sprintf("task %d deleted", taskID), nil
}

func (b *boardActions) Reload() (ui.Model, error) {
	all, err := b.service.List(b.ctx)
	if err != nil {
		return ui.Model{}, fmt.Errorf("load board tasks: %w", err)
	}
	names, err := b.service.AllTags(b.ctx)
	if err != nil {
		return ui.Model{}, fmt.Errorf("load board tags: %w", err)
	}

	var sections ui.Sections
	for _, task := range all {
		row := formatTaskRow(task, nil)
		sections.Tasks = append(sections.Tasks, row)
		if task.Status == tasks.StatusPending {
			sections.Pending = append(sections.Pending, row)
		}
	}
	for _, name := range names {
		tagged, err := b.service.TasksByTag(b.ctx, name)
		if err != nil {
			return ui.Model{}, fmt.Errorf("load board tag %q: %w", name, err)
		}
		sections.Tags = append(sections.Tags, fmt.Sprintf("%s (%s)", name, english.Plural(len(tagged), "task", "")))
	}
	return ui.NewModelFromSections(sections), nil
}
