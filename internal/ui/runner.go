package ui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Actions lets the board change tasks. Each call returns the status line to
// show; Reload rebuilds the model afterwards.
type Actions interface {
	Complete(taskID int64) (string, error)
	Delete(taskID int64) (string, error)
	Reload() (Model, error)
}

func RunInteractive(initial Model, actions Actions, in io.Reader, out io.Writer) error {
	model := initial
	scanner := bufio.NewScanner(in)

	for {
		if _, err := fmt.Fprint(out, model.View()); err != nil {
			return fmt.Errorf("write ui view: %w", err)
		}
		if _, err := fmt.Fprint(out, "\ncommand> "); err != nil {
			return fmt.Errorf("write ui prompt: %w", err)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read ui command: %w", err)
			}
			return nil
		}

		fields := strings.Fields(strings.ToLower(scanner.Text()))
		command := ""
		if len(fields) > 0 {
			command = fields[0]
		}
		model = model.WithStatus("")

		switch command {
		case "q", "quit", "exit":
			return nil
		case "tab", "right", "l":
			model = model.NextTab()
		case "backtab", "left", "h":
			model = model.PrevTab()
		case "1", "2", "3":
			model = model.SelectTab(int(command[0] - '1'))
		case "done", "rm":
			next, err := runAction(model, actions, command, fields[1:])
			if err != nil {
				return err
			}
			model = next
		case "":
			// No-op; rerender.
		default:
			model = model.WithStatus("unknown command: " + command)
		}
	}
}

func runAction(model Model, actions Actions, command string, args []string) (Model, error) {
	if actions == nil {
		return model.WithStatus("board is read-only"), nil
	}
	if len(args) != 1 {
		return model.WithStatus(fmt.Sprintf("usage: %s <id>", command)), nil
	}
	taskID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return model.WithStatus(fmt.Sprintf("invalid task id %q", args[0])), nil
	}

	var status string
	switch command {
	case "done":
		status, err = actions.Complete(taskID)
	case "rm":
		status, err = actions.Delete(taskID)
	}
	if err != nil {
		return model.WithStatus("error: " + err.Error()), nil
	}

	reloaded, err := actions.Reload()
	if err != nil {
		return model, fmt.Errorf("reload board: %w", err)
	}
	return reloaded.Keep(model).WithStatus(status), nil
}
