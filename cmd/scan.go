package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/moyu-x/media-dedup/app"
	"github.com/moyu-x/media-dedup/internal"
	"github.com/moyu-x/media-dedup/pkg/logger"
	"github.com/moyu-x/media-dedup/pkg/report"
	"github.com/moyu-x/media-dedup/tui"
)

var scanCmd = &cobra.Command{
	Use:   "scan [directory]",
	Short: "扫描目录树并生成去重操作计划",
	Long: `遍历指定目录（默认当前目录）中的媒体文件，计算内容指纹并归组。
目录内重复会生成备份+删除命令，跨目录重复以注释形式列出供人工审查，
带数字尾缀的重复文件会得到重命名建议。所有操作写入脚本，不会直接执行。`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	workers, _ := cmd.Flags().GetInt("workers")
	ledgerPath, _ := cmd.Flags().GetString("ledger")
	scriptPath, _ := cmd.Flags().GetString("script")
	catalogPath, _ := cmd.Flags().GetString("catalog")
	verifyTypes, _ := cmd.Flags().GetBool("verify-types")
	verbose, _ := cmd.Flags().GetBool("verbose")
	useTUI, _ := cmd.Flags().GetBool("tui")

	opts := &app.ScanOptions{
		Root:        root,
		Workers:     workers,
		LedgerPath:  ledgerPath,
		ScriptPath:  scriptPath,
		CatalogPath: catalogPath,
		VerifyTypes: verifyTypes,
		Verbose:     verbose,
	}

	var summary *report.Summary
	var err error

	if useTUI && isatty.IsTerminal(os.Stdout.Fd()) {
		summary, err = runScanWithTUI(opts)
	} else {
		summary, err = app.RunScan(opts)
	}
	if err != nil {
		return err
	}

	printFinalReport(summary)
	return nil
}

func runScanWithTUI(opts *app.ScanOptions) (*report.Summary, error) {
	progress := make(chan internal.ProgressUpdate, 100)
	result := make(chan tui.Result, 1)
	opts.Progress = progress

	go func() {
		summary, err := app.RunScan(opts)
		result <- tui.Result{Summary: summary, Err: err}
	}()

	return tui.Run(progress, result)
}

func printFinalReport(s *report.Summary) {
	logger.Get().Info().Msg("========== 分析完成 ==========")
	s.Render(os.Stdout)
	logger.Get().Info().Msg("重要: 潜在的破坏性操作已写入脚本，请仔细审查后再执行")
	logger.Get().Info().Msg("脚本会先备份再删除目录内重复，跨目录重复保持注释状态")
}

func init() {
	scanCmd.Flags().IntP("workers", "w", 0, "指纹计算并行度（默认取配置）")
	scanCmd.Flags().String("ledger", "", "指纹台账路径（默认扫描根目录下 checksums.txt）")
	scanCmd.Flags().String("script", "", "操作脚本路径（默认扫描根目录下 potentially-destructive-remove.sh）")
	scanCmd.Flags().String("catalog", "", "扫描历史库路径（SQLite，留空禁用）")
	scanCmd.Flags().Bool("verify-types", false, "按文件头嗅探类型，扩展名不符时告警")
	scanCmd.Flags().BoolP("verbose", "v", false, "显示调试日志")
	scanCmd.Flags().Bool("tui", false, "显示交互式进度界面")

	rootCmd.AddCommand(scanCmd)
}
