package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/moyu-x/media-dedup/internal"
	"github.com/moyu-x/media-dedup/pkg/report"
)

type State int

const (
	StateScanning State = iota
	StateComplete
)

// model 是纯展示的扫描进度界面：配置都来自命令行，
// 这里只消费进度通道并渲染
type model struct {
	state       State
	processed   int
	total       int
	duplicates  int
	currentFile string
	summary     *report.Summary
	err         error

	progressCh <-chan internal.ProgressUpdate
	resultCh   <-chan Result

	progressBar progress.Model
	spinner     spinner.Model
	width       int
}

func initialModel(progressCh <-chan internal.ProgressUpdate, resultCh <-chan Result) model {
	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.PercentageStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Width(4)

	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		state:       StateScanning,
		progressCh:  progressCh,
		resultCh:    resultCh,
		progressBar: progressBar,
		spinner:     s,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForProgress(m.progressCh),
		waitForResult(m.resultCh),
	)
}

func waitForProgress(ch <-chan internal.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg(u)
	}
}

func waitForResult(ch <-chan Result) tea.Cmd {
	return func() tea.Msg {
		return doneMsg(<-ch)
	}
}
