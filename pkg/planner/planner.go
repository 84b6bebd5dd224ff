package planner

import (
	"errors"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/moyu-x/media-dedup/internal"
	"github.com/moyu-x/media-dedup/pkg/classify"
	"github.com/moyu-x/media-dedup/pkg/hasher"
	"github.com/moyu-x/media-dedup/pkg/logger"
	"github.com/moyu-x/media-dedup/pkg/suffix"
)

// ErrAmbiguousRename 冲突消解后的名字仍然冲突
// 只消解一次，再次冲突的重命名会被报告而不是静默覆盖
var ErrAmbiguousRename = errors.New("disambiguated rename target still collides")

// 冲突来源
const (
	ReasonPlannedName  = "name already planned in this directory"
	ReasonExistingFile = "file with clean name already exists"
)

// Entry 是单个文件的重命名决定
type Entry struct {
	File     internal.MediaFile
	Digest   string
	Clean    string // 剥离尾缀后的目标名
	Target   string // 最终计划名（冲突时带指纹前缀）
	Conflict bool
	Reason   string
	Err      error // 二次冲突时为 ErrAmbiguousRename
}

// DuplicateSet 是同一目录内的一组相同文件及保留/移除划分
type DuplicateSet struct {
	Digest string
	Dir    string
	Keeper internal.MediaFile
	Remove []internal.MediaFile
}

// Planner 基于分类结果生成重命名计划，对文件系统只读
type Planner struct {
	fs afero.Fs
}

func New(fs afero.Fs) *Planner {
	return &Planner{fs: fs}
}

// SelectKeeper 在同目录重复组中选出保留的文件：
// 按观察顺序第一个没有噪音尾缀的成员；都有尾缀时取文件名最长者，
// 等长取先观察到的
func SelectKeeper(members []internal.MediaFile) internal.MediaFile {
	var keeper internal.MediaFile
	longest := 0

	for _, m := range members {
		if !suffix.HasNoiseSuffix(m.Name) {
			return m
		}
		if len(m.Name) > longest {
			longest = len(m.Name)
			keeper = m
		}
	}
	return keeper
}

// RemovalSets 为每个目录内重复组划分保留文件与待移除文件
// 结果按目录、指纹的首次出现顺序排列，保留文件绝不出现在移除列表中
func RemovalSets(eng *classify.Engine) []DuplicateSet {
	var sets []DuplicateSet

	for _, dir := range eng.DuplicateDirs() {
		for _, digest := range eng.DirectoryDuplicates(dir) {
			members := eng.MembersIn(digest, dir)
			if len(members) < 2 {
				continue
			}

			keeper := SelectKeeper(members)
			remove := make([]internal.MediaFile, 0, len(members)-1)
			for _, m := range members {
				if m.Path != keeper.Path {
					remove = append(remove, m)
				}
			}

			sets = append(sets, DuplicateSet{
				Digest: digest,
				Dir:    dir,
				Keeper: keeper,
				Remove: remove,
			})
		}
	}
	return sets
}

// Plan 为所有目录内重复且带噪音尾缀的文件生成重命名决定
//
// 两级冲突检测：目标名已被本轮其他计划占用，或文件系统中已存在
// 同名文件且不是自身。冲突时在扩展名前插入指纹前 8 位消解一次；
// 消解结果仍冲突则标记 ErrAmbiguousRename。
func (p *Planner) Plan(eng *classify.Engine, digestOf func(path string) string) []Entry {
	var entries []Entry

	for _, dir := range eng.DuplicateDirs() {
		// 本轮已分配的目标名，按目录隔离
		planned := make(map[string]struct{})

		for _, file := range duplicateFiles(eng, dir) {
			if !suffix.HasNoiseSuffix(file.Name) {
				continue
			}

			clean := suffix.StripNoiseSuffix(file.Name)
			entry := Entry{
				File:   file,
				Digest: digestOf(file.Path),
				Clean:  clean,
			}

			reason, conflict := p.checkConflict(file, clean, planned)
			if !conflict {
				entry.Target = clean
				planned[clean] = struct{}{}
				entries = append(entries, entry)
				continue
			}

			entry.Conflict = true
			entry.Reason = reason

			hashed := hashedName(clean, entry.Digest)
			if _, secondLevel := p.checkConflict(file, hashed, planned); secondLevel {
				entry.Err = ErrAmbiguousRename
				logger.Get().Warn().Msgf("重命名无法消解冲突: %s -> %s", file.Name, hashed)
				entries = append(entries, entry)
				continue
			}

			entry.Target = hashed
			planned[hashed] = struct{}{}
			logger.Get().Debug().Msgf("冲突消解: %s -> %s (%s)", file.Name, hashed, reason)
			entries = append(entries, entry)
		}
	}
	return entries
}

// duplicateFiles 返回目录内属于任一重复组的文件，按观察顺序去重
func duplicateFiles(eng *classify.Engine, dir string) []internal.MediaFile {
	var files []internal.MediaFile
	seen := make(map[string]struct{})

	for _, digest := range eng.DirectoryDuplicates(dir) {
		members := eng.MembersIn(digest, dir)
		if len(members) < 2 {
			continue
		}
		for _, m := range members {
			if _, ok := seen[m.Path]; ok {
				continue
			}
			seen[m.Path] = struct{}{}
			files = append(files, m)
		}
	}
	return files
}

func (p *Planner) checkConflict(file internal.MediaFile, target string, planned map[string]struct{}) (string, bool) {
	if _, ok := planned[target]; ok {
		return ReasonPlannedName, true
	}

	targetPath := filepath.Join(filepath.Dir(file.Path), target)
	if targetPath != file.Path {
		if exists, _ := afero.Exists(p.fs, targetPath); exists {
			return ReasonExistingFile, true
		}
	}
	return "", false
}

// hashedName 在扩展名前插入指纹前 8 位：name.ext -> name_a1b2c3d4.ext
func hashedName(name, digest string) string {
	ext := ""
	base := name
	if dot := filepath.Ext(name); dot != "" {
		ext = dot
		base = name[:len(name)-len(dot)]
	}
	return base + "_" + hasher.ShortDigest(digest) + ext
}
