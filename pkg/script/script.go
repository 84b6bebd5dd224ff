package script

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/moyu-x/media-dedup/pkg/classify"
	"github.com/moyu-x/media-dedup/pkg/planner"
)

// Writer 生成可审查的操作脚本，所有破坏性命令都由用户自行执行
// 本工具自身绝不删除或重命名任何文件
type Writer struct {
	fs   afero.Fs
	path string
	file afero.File
}

// Create 创建脚本并写入头部：警告横幅、set -e、带时间戳的备份目录
func Create(fs afero.Fs, path, scriptDir string) (*Writer, error) {
	file, err := fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("创建脚本失败: %w", err)
	}

	w := &Writer{fs: fs, path: path, file: file}

	w.line("#!/usr/bin/env bash")
	w.line("")
	w.line("# WARNING: This script contains potentially destructive operations")
	w.line("# Review carefully before running!")
	w.line("# Generated on %s", time.Now().Format("2006-01-02 15:04:05"))
	w.line("")
	w.line("set -e")
	w.line("")
	w.line("create_parent_dirs() {")
	w.line("    local file=\"$1\"")
	w.line("    local target_dir=\"$2\"")
	w.line("    local parent_dir=\"$(dirname \"$file\")\"")
	w.line("    if [ \"$parent_dir\" != \".\" ]; then")
	w.line("        mkdir -p \"$target_dir/$parent_dir\"")
	w.line("    fi")
	w.line("}")
	w.line("")
	w.line("BACKUP_DIR=\"%s/backup_%s\"", scriptDir, time.Now().Format("20060102_150405"))
	w.line("mkdir -p \"$BACKUP_DIR\"")
	w.line("")
	w.line("# Operations are grouped by directory for easier review")
	w.line("")

	return w, nil
}

func (w *Writer) line(format string, args ...any) {
	fmt.Fprintf(w.file, format+"\n", args...)
}

// EmitRemovals 写出目录内重复的备份+删除命令，保留文件只出现在注释里
func (w *Writer) EmitRemovals(sets []planner.DuplicateSet) {
	w.line("###")
	w.line("# Within-Directory Duplicates")
	w.line("###")
	w.line("")

	lastDir := "\x00"
	for _, set := range sets {
		if set.Dir != lastDir {
			lastDir = set.Dir
			w.line("# Processing directory: %s", displayDir(set.Dir))
			w.line("mkdir -p \"$BACKUP_DIR/%s/\"", set.Dir)
			w.line("")
		}

		w.line("# Duplicate set with checksum: %s...", shortDigest(set.Digest))
		w.line("# Keeping: %s", set.Keeper.Name)

		for _, f := range set.Remove {
			w.line("# Backup and remove: %s", f.Name)
			w.line("cp \"%s\" \"$BACKUP_DIR/%s/%s\"", f.Path, set.Dir, f.Name)
			w.line("rm \"%s\"", f.Path)
		}
		w.line("")
	}
}

// EmitCrossDirectory 写出跨目录重复的建议，全部注释掉，按代表文件分组
func (w *Writer) EmitCrossDirectory(groups []classify.CrossGroup) {
	w.line("")
	w.line("###")
	w.line("# Cross-Directory Duplicates")
	w.line("###")
	w.line("")
	w.line("# WARNING: These are duplicates across different directories.")
	w.line("# The script does not automatically remove them as they may serve different purposes.")
	w.line("# Review and uncomment the sections below if you want to remove them.")
	w.line("")

	for _, g := range groups {
		rep := g.Files[0]
		w.line("# Duplicate set with checksum: %s...", shortDigest(g.Digest))
		w.line("# First encountered: %s in %s", rep.Name, displayDir(rep.Dir))
		w.line("# Other copies:")

		for _, f := range g.Files[1:] {
			w.line("# %s in %s", f.Name, displayDir(f.Dir))
			w.line("# cp \"%s\" \"$BACKUP_DIR/%s/%s\"", f.Path, f.Dir, f.Name)
			w.line("# rm \"%s\"", f.Path)
			w.line("#")
		}
		w.line("")
	}
}

// EmitRenames 写出备份+重命名命令，无法消解冲突的条目只留注释
func (w *Writer) EmitRenames(entries []planner.Entry) {
	w.line("")
	w.line("###")
	w.line("# Filename Cleanup (Remove Numeric Suffixes)")
	w.line("###")
	w.line("")
	w.line("# Files with numeric suffixes can be renamed to cleaner versions")
	w.line("# Be careful with these operations to avoid name conflicts")
	w.line("")

	lastDir := "\x00"
	for _, e := range entries {
		if e.File.Dir != lastDir {
			lastDir = e.File.Dir
			w.line("# Directory: %s", displayDir(e.File.Dir))
			w.line("mkdir -p \"$BACKUP_DIR/%s\"", e.File.Dir)
			w.line("")
		}

		if e.Err != nil {
			w.line("# SKIPPED (ambiguous): %s -> %s also collides", e.File.Name, e.Clean)
			w.line("")
			continue
		}

		dirPath := filepath.Dir(e.File.Path)
		if e.Conflict {
			w.line("# Rename with hash due to conflict: %s -> %s", e.File.Name, e.Target)
		} else {
			w.line("# Rename to remove suffix: %s -> %s", e.File.Name, e.Target)
		}
		w.line("cp \"%s\" \"$BACKUP_DIR/%s/%s\"", e.File.Path, e.File.Dir, e.File.Name)
		w.line("mv \"%s\" \"%s/%s\"", e.File.Path, dirPath, e.Target)
		w.line("")
	}
}

// Finalize 将脚本置为可执行并关闭
func (w *Writer) Finalize() error {
	if err := w.file.Close(); err != nil {
		return err
	}
	return w.fs.Chmod(w.path, 0755)
}

func (w *Writer) Path() string {
	return w.path
}

func displayDir(dir string) string {
	if dir == "" {
		return "root"
	}
	return dir
}

func shortDigest(digest string) string {
	if len(digest) < 8 {
		return digest
	}
	return digest[:8]
}
