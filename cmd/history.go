package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/moyu-x/media-dedup/pkg/catalog"
	"github.com/moyu-x/media-dedup/pkg/config"
	"github.com/moyu-x/media-dedup/pkg/logger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "查看扫描历史记录",
	Long:  `列出历史库中最近的扫描记录及其重复统计。需要先用 --catalog 运行过扫描。`,
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		path = cfg.Catalog.Path
	}
	if path == "" {
		return fmt.Errorf("未配置历史库路径，请使用 --catalog 指定")
	}

	limit, _ := cmd.Flags().GetInt("limit")

	cat, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer cat.Close()

	runs, err := cat.Runs(limit)
	if err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"运行 ID", "根目录", "开始时间", "总数", "唯一", "目录内重复", "跨目录重复"})
	for _, r := range runs {
		tw.AppendRow(table.Row{
			r.ID[:8], r.Root, r.StartedAt.Format("2006-01-02 15:04:05"),
			r.TotalFiles, r.UniqueFiles, r.SameDirDupes, r.CrossDirDupes,
		})
	}
	tw.Render()

	return nil
}

func init() {
	historyCmd.Flags().String("catalog", "", "扫描历史库路径")
	historyCmd.Flags().IntP("limit", "n", 10, "显示最近几次扫描")

	rootCmd.AddCommand(historyCmd)
}
