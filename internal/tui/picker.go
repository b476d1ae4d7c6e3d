// SPDX-License-Identifier: MIT
//
// Package tui holds the interactive operation picker and the lipgloss
// renderer for analysis reports.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"glitch/internal/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D7D7D"))
)

// ScreenType defines which screen is currently active
type ScreenType int

const (
	ListScreen ScreenType = iota
	DetailScreen
)

type keyMap struct {
	Up, Down, Enter, Back, Quit key.Binding
}

var keys = keyMap{
	Up:    key.NewBinding(key.WithKeys("up", "k")),
	Down:  key.NewBinding(key.WithKeys("down", "j")),
	Enter: key.NewBinding(key.WithKeys("enter")),
	Back:  key.NewBinding(key.WithKeys("esc")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c")),
}

// PickerModel is the Bubble Tea model for choosing an operation.
type PickerModel struct {
	ops           []*pipeline.Op
	selectedIndex int
	viewport      viewport.Model
	ready         bool
	activeScreen  ScreenType
	input         string // sample input file used to preview output names

	chosen *pipeline.Op
}

// NewPickerModel lists ops. input, when set, is used to preview the file
// name the operation would write.
func NewPickerModel(ops []*pipeline.Op, input string) PickerModel {
	return PickerModel{
		ops:          ops,
		activeScreen: ListScreen,
		input:        input,
	}
}

// Init initializes the Bubble Tea model
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Chosen returns the operation confirmed on the detail screen, or nil.
func (m PickerModel) Chosen() *pipeline.Op {
	return m.chosen
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.viewport.Style = lipgloss.NewStyle()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
		m.refresh()

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}

		switch m.activeScreen {
		case ListScreen:
			switch {
			case key.Matches(msg, keys.Up):
				if m.selectedIndex > 0 {
					m.selectedIndex--
					m.refresh()
				}

			case key.Matches(msg, keys.Down):
				if m.selectedIndex < len(m.ops)-1 {
					m.selectedIndex++
					m.refresh()
				}

			case key.Matches(msg, keys.Enter):
				if len(m.ops) > 0 {
					m.activeScreen = DetailScreen
					m.refresh()
				}
			}

		case DetailScreen:
			switch {
			case key.Matches(msg, keys.Back):
				m.activeScreen = ListScreen
				m.refresh()

			case key.Matches(msg, keys.Enter):
				m.chosen = m.ops[m.selectedIndex]
				return m, tea.Quit
			}
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *PickerModel) refresh() {
	if !m.ready {
		return
	}
	if m.activeScreen == DetailScreen {
		m.viewport.SetContent(m.renderDetail())
		return
	}
	m.viewport.SetContent(m.renderList())
}

// View renders the UI
func (m PickerModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var title, help string
	if m.activeScreen == ListScreen {
		title = titleStyle.Render("Operations")
		help = infoStyle.Render("↑/↓: Navigate • Enter: Details • q: Quit")
	} else {
		title = titleStyle.Render("Operation: " + m.ops[m.selectedIndex].Name)
		help = infoStyle.Render("Enter: Select • Esc: Back • q: Quit")
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, m.viewport.View(), help)
}

func (m PickerModel) renderList() string {
	if len(m.ops) == 0 {
		return "No operations registered."
	}

	var sb strings.Builder
	for i, op := range m.ops {
		line := fmt.Sprintf("  %-28s %s\n", op.Usage(), dimStyle.Render(op.Summary))
		if i == m.selectedIndex {
			line = highlightStyle.Render("▶ " + op.Usage())
			line = fmt.Sprintf("%-30s %s\n", line, op.Summary)
		}
		sb.WriteString(line)
	}
	return sb.String()
}

func (m PickerModel) renderDetail() string {
	op := m.ops[m.selectedIndex]

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", op.Summary)
	fmt.Fprintf(&sb, "Usage: %s\n\n", highlightStyle.Render(op.Usage()))

	if len(op.Params) == 0 {
		sb.WriteString("Parameters: none\n")
	} else {
		sb.WriteString("Parameters:\n")
		for _, p := range op.Params {
			fmt.Fprintf(&sb, "  %-10s %s\n", p.Name, p.Kind)
		}
	}

	if m.input != "" {
		raw := make([]string, len(op.Params))
		for i, p := range op.Params {
			raw[i] = "<" + p.Name + ">"
		}
		fmt.Fprintf(&sb, "\nWrites: %s\n", pipeline.OutputName(m.input, op, raw))
	}
	return sb.String()
}

// Pick runs the picker on the alternate screen and returns the chosen
// operation, or nil when the user quit without choosing.
func Pick(ops []*pipeline.Op, input string) (*pipeline.Op, error) {
	p := tea.NewProgram(
		NewPickerModel(ops, input),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	return final.(PickerModel).Chosen(), nil
}
