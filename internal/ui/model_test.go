package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func sampleModel() Model {
	return NewModelFromSections(Sections{
		Tasks: []string{
			"#1 [pending] Write report",
			"#2 [completed] File taxes",
		},
		Pending: []string{
			"#1 [pending] Write report",
		},
		Tags: []string{
			"work (1)",
		},
	})
}

type fakeActions struct {
	completed []int64
	deleted   []int64
	failWith  error
}

func (f *fakeActions) Complete(taskID int64) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	f.completed = append(f.completed, taskID)
	return "task marked as complete", nil
}

func (f *fakeActions) Delete(taskID int64) (string, error) {
	f.deleted = append(f.deleted, taskID)
	return "task deleted", nil
}

func (f *fakeActions) Reload() (Model, error) {
	return NewModelFromSections(Sections{Tasks: []string{"#1 [completed] Write report"}}), nil
}

func TestModelRendersThreeTabs(t *testing.T) {
	view := sampleModel().View()
	for _, tab := range []string{"Tasks", "Pending", "Tags"} {
		if !strings.Contains(view, tab) {
			t.Fatalf("expected tab %q in view: %q", tab, view)
		}
	}
}

func TestViewCountsRowsPerTab(t *testing.T) {
	view := sampleModel().View()
	for _, want := range []string{"tasklog board: 2 tasks, 1 pending", "[ Tasks (2) ]", "Pending (1)", "Tags (1)"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view: %q", want, view)
		}
	}

	empty := NewModelFromSections(Sections{}).View()
	if !strings.Contains(empty, "[ Tasks (0) ]") || !strings.Contains(empty, "no tasks found") {
		t.Fatalf("expected zero count with empty-state row: %q", empty)
	}
}

func TestModelTabSwitch(t *testing.T) {
	updated := sampleModel().NextTab()
	if updated.activeTab != 1 {
		t.Fatalf("expected active tab index 1, got %d", updated.activeTab)
	}
	if back := updated.PrevTab().PrevTab(); back.activeTab != 2 {
		t.Fatalf("expected wraparound to tab 2, got %d", back.activeTab)
	}
}

func TestEmptySectionsShowFallbackRows(t *testing.T) {
	model := NewModelFromSections(Sections{})
	if view := model.View(); !strings.Contains(view, "no tasks found") {
		t.Fatalf("expected empty-state row: %q", view)
	}
	if view := model.SelectTab(2).View(); !strings.Contains(view, "no tags yet") {
		t.Fatalf("expected empty-state tags row: %q", view)
	}
}

func TestZeroValueModelDoesNotPanic(t *testing.T) {
	var model Model
	_ = model.NextTab()
	_ = model.PrevTab()
	view := model.View()
	if !strings.Contains(view, "tasklog board") {
		t.Fatalf("expected header in zero-value view: %q", view)
	}
}

func TestViewHandlesOutOfRangeActiveTab(t *testing.T) {
	model := sampleModel()
	model.activeTab = 999
	view := model.View()
	if !strings.Contains(view, "[ Tasks (2) ]") {
		t.Fatalf("expected fallback to first tab: %q", view)
	}
}

func TestRunInteractiveSwitchesTabsAndQuits(t *testing.T) {
	input := strings.NewReader("2\nq\n")
	var output bytes.Buffer

	if err := RunInteractive(sampleModel(), nil, input, &output); err != nil {
		t.Fatalf("RunInteractive failed: %v", err)
	}

	text := output.String()
	if !strings.Contains(text, "[ Pending (1) ]") {
		t.Fatalf("expected switched tab in output: %q", text)
	}
	if !strings.Contains(text, "command>") {
		t.Fatalf("expected prompt in output: %q", text)
	}
}

func TestRunInteractiveRunsActionsAndReloads(t *testing.T) {
	actions := &fakeActions{}
	input := strings.NewReader("done 1\nrm 2\nrm two\nq\n")
	var output bytes.Buffer

	if err := RunInteractive(sampleModel(), actions, input, &output); err != nil {
		t.Fatalf("RunInteractive failed: %v", err)
	}

	if len(actions.completed) != 1 || actions.completed[0] != 1 {
		t.Fatalf("expected task 1 completed, got %v", actions.completed)
	}
	if len(actions.deleted) != 1 || actions.deleted[0] != 2 {
		t.Fatalf("expected task 2 deleted, got %v", actions.deleted)
	}

	text := output.String()
	for _, want := range []string{"task marked as complete", "#1 [completed] Write report", `invalid task id "two"`} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output: %q", want, text)
		}
	}
}

func TestRunInteractiveShowsActionErrors(t *testing.T) {
	actions := &fakeActions{failWith: errors.New("database is locked")}
	input := strings.NewReader("done 1\nq\n")
	var output bytes.Buffer

	if err := RunInteractive(sampleModel(), actions, input, &output); err != nil {
		t.Fatalf("RunInteractive failed: %v", err)
	}
	if !strings.Contains(output.String(), "error: database is locked") {
		t.Fatalf("expected action error in output: %q", output.String())
	}
}

func TestRunInteractiveReadOnlyWithoutActions(t *testing.T) {
	input := strings.NewReader("rm 1\nq\n")
	var output bytes.Buffer

	if err := RunInteractive(sampleModel(), nil, input, &output); err != nil {
		t.Fatalf("RunInteractive failed: %v", err)
	}
	if !strings.Contains(output.String(), "board is read-only") {
		t.Fatalf("expected read-only notice: %q", output.String())
	}
}
