package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case ProfileLoadedMsg:
		m.applyProfile(msg.Profile)
		focus := m.setFocus(m.focus)
		return m, tea.Batch(focus, m.schedule())

	case debounceMsg:
		if msg.seq != m.seq {
			// superseded by a later edit
			return m, nil
		}
		return m, m.compute()

	case ResultMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.computing = false
		if msg.Err != nil {
			m.err = msg.Err
			m.result = nil
		} else {
			m.err = nil
			m.result = msg.Result
		}
		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keyboard shortcuts
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab", "down", "enter":
		return m, m.setFocus(m.focus + 1)

	case "shift+tab", "up":
		return m, m.setFocus(m.focus - 1)

	case "ctrl+n":
		focus := m.addGain()
		return m, tea.Batch(focus, m.schedule())

	case "ctrl+d":
		if _, row := m.focused(); row >= 0 {
			focus := m.removeGain(row)
			return m, tea.Batch(focus, m.schedule())
		}
		return m, nil

	case "ctrl+t":
		m.showDetail = !m.showDetail
		return m, nil
	}

	f, row := m.focused()
	if f.isChoice() {
		switch msg.String() {
		case "left":
			f.cycle(-1)
		case "right", " ":
			f.cycle(1)
		default:
			return m, nil
		}
		if row >= 0 {
			m.syncRow(row)
		}
		return m, m.schedule()
	}

	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.input.Value() == before {
		return m, cmd
	}
	if row >= 0 {
		m.syncRow(row)
	}
	return m, tea.Batch(cmd, m.schedule())
}
