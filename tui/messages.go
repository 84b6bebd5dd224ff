package tui

import (
	"github.com/moyu-x/media-dedup/internal"
	"github.com/moyu-x/media-dedup/pkg/report"
)

// Result 是扫描 goroutine 的最终结果
type Result struct {
	Summary *report.Summary
	Err     error
}

type progressMsg internal.ProgressUpdate

type doneMsg Result
