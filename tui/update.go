package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// 扫描继续在后台进行；界面退出不会中断它
			return m, tea.Quit
		case "enter":
			if m.state == StateComplete {
				return m, tea.Quit
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := msg.Width - 8
		if w > 60 {
			w = 60
		}
		if w > 0 {
			m.progressBar.Width = w
		}
		return m, nil

	case progressMsg:
		m.processed = msg.Processed
		m.total = msg.Total
		m.duplicates = msg.Duplicates
		m.currentFile = msg.CurrentFile

		var cmd tea.Cmd
		if m.total > 0 {
			cmd = m.progressBar.SetPercent(float64(m.processed) / float64(m.total))
		}
		return m, tea.Batch(cmd, waitForProgress(m.progressCh))

	case doneMsg:
		m.state = StateComplete
		m.summary = msg.Summary
		m.err = msg.Err
		return m, tea.Sequence(m.progressBar.SetPercent(1), tea.Quit)

	case progress.FrameMsg:
		bar, cmd := m.progressBar.Update(msg)
		m.progressBar = bar.(progress.Model)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}
