package ui

import (
	"fmt"
	"strings"
)

// Tab order is fixed; 1/2/3 in the runner index into it.
var boardTabs = []string{"Tasks", "Pending", "Tags"}

var emptyRows = map[string]string{
	"Tasks":   "no tasks found",
	"Pending": "nothing pending",
	"Tags":    "no tags yet",
}

// Model is the board state. Every method returns a new Model.
type Model struct {
	tabs      []string
	activeTab int
	rows      map[string][]string
	status    string
}

// Sections holds the pre-rendered rows for each tab.
type Sections struct {
	Tasks   []string
	Pending []string
	Tags    []string
}

func NewModelFromSections(input Sections) Model {
	return Model{
		tabs: boardTabs,
		rows: map[string][]string{
			"Tasks":   input.Tasks,
			"Pending": input.Pending,
			"Tags":    input.Tags,
		},
	}
}

func (m Model) NextTab() Model {
	return m.shiftTab(1)
}

func (m Model) PrevTab() Model {
	return m.shiftTab(-1)
}

func (m Model) shiftTab(delta int) Model {
	n := len(m.tabs)
	if n == 0 {
		return m
	}
	m.activeTab = ((m.activeTab+delta)%n + n) % n
	return m
}

func (m Model) SelectTab(index int) Model {
	if index >= 0 && index < len(m.tabs) {
		m.activeTab = index
	}
	return m
}

// WithStatus sets the one-line message shown under the rows.
func (m Model) WithStatus(status string) Model {
	m.status = status
	return m
}

// Keep carries the active tab over from a previous model.
func (m Model) Keep(previous Model) Model {
	return m.SelectTab(previous.activeTab)
}

func (m Model) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tasklog board: %d tasks, %d pending\n", len(m.rows["Tasks"]), len(m.rows["Pending"]))
	b.WriteString("keys: tab/shift+tab move | 1/2/3 jump | done <id> | rm <id> | q quit\n\n")
	if len(m.tabs) == 0 {
		return b.String()
	}

	active := m.activeTab
	if active < 0 || active >= len(m.tabs) {
		active = 0
	}

	labels := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		label := fmt.Sprintf("%s (%d)", tab, len(m.rows[tab]))
		if i == active {
			label = "[ " + label + " ]"
		} else {
			label = "  " + label + "  "
		}
		labels = append(labels, label)
	}
	b.WriteString(strings.Join(labels, " "))
	b.WriteString("\n\n")

	tab := m.tabs[active]
	rows := m.rows[tab]
	if len(rows) == 0 {
		rows = []string{emptyRows[tab]}
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "- %s\n", row)
	}

	if m.status != "" {
		fmt.Fprintf(&b, "\n%s\n", m.status)
	}
	return b.String()
}
