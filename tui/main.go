package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/media-dedup/internal"
	"github.com/moyu-x/media-dedup/pkg/logger"
	"github.com/moyu-x/media-dedup/pkg/report"
)

// Run 渲染扫描进度界面直到扫描结束，返回扫描结果
// 界面是只读的：扫描本身在调用方的 goroutine 中进行
func Run(progress <-chan internal.ProgressUpdate, result <-chan Result) (*report.Summary, error) {
	logger.Get().Debug().Msg("启动 TUI 界面")

	p := tea.NewProgram(initialModel(progress, result))

	final, err := p.Run()
	if err != nil {
		logger.Get().Error().Err(err).Msg("TUI 运行错误")
		return nil, err
	}

	m := final.(model)
	if m.state != StateComplete {
		// 用户提前退出界面，等扫描在后台跑完
		res := <-result
		return res.Summary, res.Err
	}
	return m.summary, m.err
}
