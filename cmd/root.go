package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "media-dedup",
	Short: "媒体文件重复检测与清理计划工具",
	Long: `Media Dedup 是一个命令行工具，用于在目录树中定位重复的媒体文件，
并生成一份可审查的操作计划（备份、删除、重命名）。

主要功能:
- 识别包含媒体文件的目录并按扩展名白名单过滤
- 使用 xxHash 计算每个文件的内容指纹
- 将相同内容的文件归组，区分目录内重复与跨目录重复
- 剥离文件名中历史去重留下的数字尾缀，自动规避命名冲突
- 生成 shell 操作脚本供人工审查后执行

本工具自身绝不删除或重命名任何文件。`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
