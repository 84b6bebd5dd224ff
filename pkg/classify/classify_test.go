package classify

import (
	"path/filepath"
	"testing"

	"github.com/moyu-x/media-dedup/internal"
)

func mediaFile(dir, name string) internal.MediaFile {
	return internal.MediaFile{
		Path: filepath.Join("/media", dir, name),
		Dir:  dir,
		Name: name,
		Ext:  "mp4",
	}
}

func TestEngine_UniqueFiles(t *testing.T) {
	e := NewEngine()

	e.Observe(mediaFile("a", "one.mp4"), "1111111111111111")
	e.Observe(mediaFile("a", "two.mp4"), "2222222222222222")
	e.Observe(mediaFile("b", "three.mp4"), "3333333333333333")

	r := e.Report()
	if r.TotalFiles != 3 {
		t.Errorf("TotalFiles = %d, want 3", r.TotalFiles)
	}
	if r.UniqueFiles != 3 {
		t.Errorf("UniqueFiles = %d, want 3", r.UniqueFiles)
	}
	if r.SameDirDupes != 0 || r.CrossDirDupes != 0 {
		t.Errorf("expected no duplicates, got same=%d cross=%d", r.SameDirDupes, r.CrossDirDupes)
	}
}

func TestEngine_SameDirDuplicates(t *testing.T) {
	e := NewEngine()

	e.Observe(mediaFile("a", "show-01.mp4"), "aaaaaaaaaaaaaaaa")
	e.Observe(mediaFile("a", "show-02.mp4"), "aaaaaaaaaaaaaaaa")
	e.Observe(mediaFile("a", "show-03.mp4"), "aaaaaaaaaaaaaaaa")

	r := e.Report()
	if r.UniqueFiles != 1 {
		t.Errorf("UniqueFiles = %d, want 1", r.UniqueFiles)
	}
	if r.SameDirDupes != 2 {
		t.Errorf("SameDirDupes = %d, want 2", r.SameDirDupes)
	}

	dirs := e.DuplicateDirs()
	if len(dirs) != 1 || dirs[0] != "a" {
		t.Fatalf("DuplicateDirs = %v, want [a]", dirs)
	}

	digests := e.DirectoryDuplicates("a")
	if len(digests) != 1 {
		t.Fatalf("expected digest recorded once, got %v", digests)
	}

	members := e.MembersIn("aaaaaaaaaaaaaaaa", "a")
	if len(members) != 3 {
		t.Errorf("expected 3 members in dir a, got %d", len(members))
	}
}

func TestEngine_RepresentativeFixedAtFirstInsertion(t *testing.T) {
	e := NewEngine()

	first := mediaFile("a", "first.mp4")
	e.Observe(first, "cccccccccccccccc")
	e.Observe(mediaFile("b", "second.mp4"), "cccccccccccccccc")

	rep, ok := e.Representative("cccccccccccccccc")
	if !ok {
		t.Fatal("expected representative to exist")
	}
	if rep.Path != first.Path {
		t.Errorf("representative = %s, want %s", rep.Path, first.Path)
	}
}

// 代表文件分类规则：同一指纹的后续文件与代表文件的目录比较，
// 因此跨目录的观察顺序会改变计数归属。
func TestEngine_OrderDependentClassification(t *testing.T) {
	digest := "dddddddddddddddd"
	a := mediaFile("dir1", "a.mp4")
	b := mediaFile("dir1", "b.mp4")
	c := mediaFile("dir2", "c.mp4")

	e := NewEngine()
	e.Observe(a, digest)
	e.Observe(b, digest)
	e.Observe(c, digest)

	r := e.Report()
	if r.SameDirDupes != 1 {
		t.Errorf("A,B,C order: SameDirDupes = %d, want 1 (B)", r.SameDirDupes)
	}
	if r.CrossDirDupes != 1 {
		t.Errorf("A,B,C order: CrossDirDupes = %d, want 1 (C)", r.CrossDirDupes)
	}

	// C 先被观察时代表文件变为 C（dir2），A 和 B 都计入跨目录
	e2 := NewEngine()
	e2.Observe(c, digest)
	e2.Observe(a, digest)
	e2.Observe(b, digest)

	r2 := e2.Report()
	if r2.SameDirDupes != 0 {
		t.Errorf("C,A,B order: SameDirDupes = %d, want 0", r2.SameDirDupes)
	}
	if r2.CrossDirDupes != 2 {
		t.Errorf("C,A,B order: CrossDirDupes = %d, want 2", r2.CrossDirDupes)
	}
}

func TestEngine_GroupInvariants(t *testing.T) {
	e := NewEngine()

	files := []struct {
		dir, name, digest string
	}{
		{"a", "x.mp4", "1111111111111111"},
		{"a", "y.mp4", "1111111111111111"},
		{"b", "z.mp4", "1111111111111111"},
		{"b", "w.mp4", "2222222222222222"},
		{"c", "v.mp4", "3333333333333333"},
	}
	for _, f := range files {
		e.Observe(mediaFile(f.dir, f.name), f.digest)
	}

	r := e.Report()
	if e.GroupSizeSum() != r.TotalFiles {
		t.Errorf("sum of group sizes = %d, want total %d", e.GroupSizeSum(), r.TotalFiles)
	}
	if e.GroupCount() != r.UniqueFiles {
		t.Errorf("group count = %d, want unique %d", e.GroupCount(), r.UniqueFiles)
	}

	// 同一路径只出现在一个组中，且组内不重复
	seen := make(map[string]int)
	for _, d := range []string{"1111111111111111", "2222222222222222", "3333333333333333"} {
		for _, m := range e.Group(d) {
			seen[m.Path]++
		}
	}
	for path, n := range seen {
		if n != 1 {
			t.Errorf("path %s appears %d times across groups", path, n)
		}
	}
}

func TestEngine_DirectoryIndexRequiresTwoMembersInDir(t *testing.T) {
	e := NewEngine()

	// dir1 有两个成员，dir2 只有一个：指纹只应出现在 dir1 的索引下
	digest := "eeeeeeeeeeeeeeee"
	e.Observe(mediaFile("dir1", "a.mp4"), digest)
	e.Observe(mediaFile("dir1", "b.mp4"), digest)
	e.Observe(mediaFile("dir2", "c.mp4"), digest)

	if got := e.DirectoryDuplicates("dir1"); len(got) != 1 {
		t.Errorf("dir1 duplicates = %v, want one digest", got)
	}
	if got := e.DirectoryDuplicates("dir2"); len(got) != 0 {
		t.Errorf("dir2 duplicates = %v, want none", got)
	}
}

func TestEngine_CrossGroups(t *testing.T) {
	e := NewEngine()

	digest := "ffffffffffffffff"
	rep := mediaFile("dir1", "orig.mp4")
	e.Observe(rep, digest)
	e.Observe(mediaFile("dir2", "copy.mp4"), digest)
	e.Observe(mediaFile("dir3", "copy2.mp4"), digest)

	groups := e.CrossGroups()
	if len(groups) != 1 {
		t.Fatalf("expected 1 cross group, got %d", len(groups))
	}
	if groups[0].Digest != digest {
		t.Errorf("digest = %s, want %s", groups[0].Digest, digest)
	}
	if groups[0].Files[0].Path != rep.Path {
		t.Errorf("first file should be the representative, got %s", groups[0].Files[0].Path)
	}
	if len(groups[0].Files) != 3 {
		t.Errorf("expected all 3 copies listed, got %d", len(groups[0].Files))
	}
}

func TestEngine_RenameCandidateCounting(t *testing.T) {
	e := NewEngine()

	e.Observe(mediaFile("a", "clean.mp4"), "1111111111111111")
	e.Observe(mediaFile("a", "noisy-01.mp4"), "2222222222222222")
	e.Observe(mediaFile("b", "noisy_3.mp4"), "3333333333333333")

	if r := e.Report(); r.RenameCandidates != 2 {
		t.Errorf("RenameCandidates = %d, want 2", r.RenameCandidates)
	}
}
