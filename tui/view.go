package tui

import (
	"fmt"
	"strings"

	"github.com/moyu-x/media-dedup/pkg/report"
)

func (m model) View() string {
	var b strings.Builder

	switch m.state {
	case StateScanning:
		b.WriteString(titleStyle.Render("正在扫描媒体文件"))
		b.WriteString("\n\n")

		b.WriteString(fmt.Sprintf("%s 已处理 %d/%d 个文件，发现 %d 个重复\n\n",
			m.spinner.View(), m.processed, m.total, m.duplicates))

		b.WriteString(m.progressBar.View())
		b.WriteString("\n\n")

		if m.currentFile != "" {
			b.WriteString(filePathStyle.Render("当前: " + m.currentFile))
			b.WriteString("\n\n")
		}

		b.WriteString(hintStyle.Render("按 q 退出界面（扫描在后台继续）"))

	case StateComplete:
		if m.err != nil {
			b.WriteString(titleStyle.Render("扫描失败"))
			b.WriteString("\n\n")
			b.WriteString(m.err.Error())
			b.WriteString("\n")
			break
		}

		b.WriteString(successTitleStyle.Render("扫描完成"))
		b.WriteString("\n\n")
		b.WriteString(statsBoxStyle.Render(summaryLines(m.summary)))
		b.WriteString("\n")
	}

	return b.String()
}

func summaryLines(s *report.Summary) string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf(
		"总文件数:     %d\n唯一文件数:   %d\n目录内重复:   %d\n跨目录重复:   %d\n重命名候选:   %d\n已计划重命名: %d",
		s.TotalFiles, s.UniqueFiles, s.SameDirDupes, s.CrossDirDupes,
		s.RenameCandidates, s.PlannedRenames,
	)
}
