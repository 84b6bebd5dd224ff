package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/moyu-x/media-dedup/pkg/classify"
)

// Summary 汇总一次扫描的结果，供报告方直接消费的普通整数计数
type Summary struct {
	Root             string
	TotalFiles       int
	UniqueFiles      int
	SameDirDupes     int
	CrossDirDupes    int
	RenameCandidates int
	PlannedRenames   int
	SkippedFiles     int

	Elapsed     time.Duration
	HashTime    time.Duration
	BytesHashed int64
}

func FromReport(r classify.Report) *Summary {
	return &Summary{
		TotalFiles:       r.TotalFiles,
		UniqueFiles:      r.UniqueFiles,
		SameDirDupes:     r.SameDirDupes,
		CrossDirDupes:    r.CrossDirDupes,
		RenameCandidates: r.RenameCandidates,
	}
}

// Throughput 返回哈希阶段的吞吐量（字节/秒）
func (s *Summary) Throughput() float64 {
	if s.HashTime <= 0 {
		return 0
	}
	return float64(s.BytesHashed) / s.HashTime.Seconds()
}

// Render 以表格形式输出汇总
func (s *Summary) Render(out io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})

	tw.AppendHeader(table.Row{"指标", "数值"})
	tw.AppendRows([]table.Row{
		{"总文件数", s.TotalFiles},
		{"唯一文件数", s.UniqueFiles},
		{"目录内重复", s.SameDirDupes},
		{"跨目录重复", s.CrossDirDupes},
		{"重命名候选", s.RenameCandidates},
		{"已计划重命名", s.PlannedRenames},
	})
	if s.SkippedFiles > 0 {
		tw.AppendRow(table.Row{"跳过（读取失败）", s.SkippedFiles})
	}
	tw.AppendSeparator()
	tw.AppendRows([]table.Row{
		{"总耗时", s.Elapsed.Round(time.Millisecond).String()},
		{"哈希耗时", s.HashTime.Round(time.Millisecond).String()},
		{"处理数据量", FormatBytes(s.BytesHashed)},
		{"吞吐量", fmt.Sprintf("%s/s", FormatBytes(int64(s.Throughput())))},
	})
	tw.Render()
}

// FormatBytes 人类可读的字节数
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
