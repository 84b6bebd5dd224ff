package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to create %s: %v", rel, err)
		}
	}
}

func TestRunScan_EndToEnd(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"dir1/show-01.mp4": "AAAA",
		"dir1/show-02.mp4": "AAAA",
		"dir1/unique.mp4":  "BBBB",
		"dir2/copy.mp4":    "AAAA",
		"dir2/notes.txt":   "not media",
	})

	summary, err := RunScan(&ScanOptions{
		Root:     root,
		Workers:  2,
		LogLevel: "error",
	})
	if err != nil {
		t.Fatalf("RunScan() error = %v", err)
	}

	if summary.TotalFiles != 4 {
		t.Errorf("TotalFiles = %d, want 4", summary.TotalFiles)
	}
	if summary.UniqueFiles != 2 {
		t.Errorf("UniqueFiles = %d, want 2", summary.UniqueFiles)
	}
	if summary.SameDirDupes != 1 {
		t.Errorf("SameDirDupes = %d, want 1", summary.SameDirDupes)
	}
	if summary.CrossDirDupes != 1 {
		t.Errorf("CrossDirDupes = %d, want 1", summary.CrossDirDupes)
	}
	if summary.RenameCandidates != 2 {
		t.Errorf("RenameCandidates = %d, want 2", summary.RenameCandidates)
	}
	if summary.PlannedRenames != 2 {
		t.Errorf("PlannedRenames = %d, want 2", summary.PlannedRenames)
	}

	// 台账：每个观察到的文件一行
	ledgerData, err := os.ReadFile(filepath.Join(root, "checksums.txt"))
	if err != nil {
		t.Fatalf("expected ledger to be written: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(ledgerData), "\n"), "\n")
	if len(lines) != 4 {
		t.Errorf("ledger has %d lines, want 4", len(lines))
	}

	// 操作脚本：可执行，包含三个小节
	scriptPath := filepath.Join(root, "potentially-destructive-remove.sh")
	info, err := os.Stat(scriptPath)
	if err != nil {
		t.Fatalf("expected script to be written: %v", err)
	}
	if info.Mode()&0111 == 0 {
		t.Error("script should be executable")
	}

	scriptData, err := os.ReadFile(scriptPath)
	if err != nil {
		t.Fatalf("failed to read script: %v", err)
	}
	out := string(scriptData)
	for _, want := range []string{
		"# Within-Directory Duplicates",
		"# Cross-Directory Duplicates",
		"# Filename Cleanup (Remove Numeric Suffixes)",
		"rm \"" + filepath.Join(root, "dir1", "show-02.mp4") + "\"",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("script missing %q", want)
		}
	}

	// dir2 的副本是跨目录重复，只能以注释形式出现
	if strings.Contains(out, "\nrm \""+filepath.Join(root, "dir2", "copy.mp4")+"\"") {
		t.Error("cross-directory duplicate must not have an active rm command")
	}
}

func TestRunScan_SkipsUnreadableLedgerEntries(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"dir1/one.mp4": "AAAA",
		"dir1/two.mp4": "BBBB",
	})

	summary, err := RunScan(&ScanOptions{
		Root:     root,
		Workers:  1,
		LogLevel: "error",
	})
	if err != nil {
		t.Fatalf("RunScan() error = %v", err)
	}
	if summary.TotalFiles != 2 || summary.SkippedFiles != 0 {
		t.Errorf("summary = %+v, want 2 files and no skips", summary)
	}
}

func TestRunScan_WithCatalog(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"dir1/a.mp4": "AAAA",
		"dir1/b.mp4": "AAAA",
	})

	summary, err := RunScan(&ScanOptions{
		Root:        root,
		Workers:     1,
		LogLevel:    "error",
		CatalogPath: filepath.Join(t.TempDir(), "history.db"),
	})
	if err != nil {
		t.Fatalf("RunScan() error = %v", err)
	}
	if summary.SameDirDupes != 1 {
		t.Errorf("SameDirDupes = %d, want 1", summary.SameDirDupes)
	}
}

func TestRunScan_SecondRunBacksUpLedger(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"dir1/a.mp4": "AAAA",
	})

	opts := func() *ScanOptions {
		return &ScanOptions{Root: root, Workers: 1, LogLevel: "error"}
	}

	if _, err := RunScan(opts()); err != nil {
		t.Fatalf("first RunScan() error = %v", err)
	}
	if _, err := RunScan(opts()); err != nil {
		t.Fatalf("second RunScan() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "checksums.txt.bak")); err != nil {
		t.Errorf("expected ledger backup after second run: %v", err)
	}
}
