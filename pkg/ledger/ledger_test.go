package ledger

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestLedger_AppendFormat(t *testing.T) {
	fs := afero.NewMemMapFs()

	l, err := Open(fs, "/media/checksums.txt")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := l.Append("00000000deadbeef", "/media/a.mp4"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := l.Append("00000000cafebabe", "/media/b.mp4"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := afero.ReadFile(fs, "/media/checksums.txt")
	if err != nil {
		t.Fatalf("failed to read ledger: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "00000000deadbeef  /media/a.mp4" {
		t.Errorf("line = %q, want two-space separated digest and path", lines[0])
	}
}

func TestLedger_BackupAndTruncateOnOpen(t *testing.T) {
	fs := afero.NewMemMapFs()

	old := "11111111aaaaaaaa  /media/old.mp4\n"
	if err := afero.WriteFile(fs, "/media/checksums.txt", []byte(old), 0644); err != nil {
		t.Fatalf("failed to seed old ledger: %v", err)
	}

	l, err := Open(fs, "/media/checksums.txt")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	backup, err := afero.ReadFile(fs, "/media/checksums.txt.bak")
	if err != nil {
		t.Fatalf("expected backup file: %v", err)
	}
	if string(backup) != old {
		t.Errorf("backup = %q, want old contents", string(backup))
	}

	fresh, err := afero.ReadFile(fs, "/media/checksums.txt")
	if err != nil {
		t.Fatalf("failed to read ledger: %v", err)
	}
	if len(fresh) != 0 {
		t.Errorf("ledger should start empty, got %q", string(fresh))
	}
}
