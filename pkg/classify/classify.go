package classify

import (
	"github.com/moyu-x/media-dedup/internal"
	"github.com/moyu-x/media-dedup/pkg/logger"
	"github.com/moyu-x/media-dedup/pkg/suffix"
)

// Engine 增量消费 (文件, 指纹) 观察序列，构建去重分类所需的全部索引
//
// 分类规则：某指纹第一个被观察到的文件是它的代表文件，之后所有同指纹
// 文件按"所在目录是否等于代表文件目录"计入目录内或跨目录重复。
// 该规则对跨目录的观察顺序敏感，这是有意保留的参照行为。
type Engine struct {
	groups map[string][]internal.MediaFile
	order  []string // 指纹的首次出现顺序
	reps   map[string]internal.MediaFile

	dirDupes    map[string][]string // 目录 -> 该目录内有 ≥2 个成员的指纹
	dirDupeSeen map[string]map[string]struct{}
	dirOrder    []string

	crossDupes []string // 跨目录重复的指纹，首次判定顺序
	crossSeen  map[string]struct{}

	totalFiles       int
	uniqueFiles      int
	sameDirDupes     int
	crossDirDupes    int
	renameCandidates int
}

// Report 是一次扫描的分类结果快照，供汇总报告使用
type Report struct {
	TotalFiles       int
	UniqueFiles      int
	SameDirDupes     int
	CrossDirDupes    int
	RenameCandidates int
}

// CrossGroup 是一组跨目录重复文件，Files[0] 是代表文件
type CrossGroup struct {
	Digest string
	Files  []internal.MediaFile
}

func NewEngine() *Engine {
	return &Engine{
		groups:      make(map[string][]internal.MediaFile),
		reps:        make(map[string]internal.MediaFile),
		dirDupes:    make(map[string][]string),
		dirDupeSeen: make(map[string]map[string]struct{}),
		crossSeen:   make(map[string]struct{}),
	}
}

// Observe 记录一次观察，每个被发现的媒体文件恰好调用一次
// 必须按目录、目录内文件的枚举顺序调用
func (e *Engine) Observe(file internal.MediaFile, digest string) {
	e.totalFiles++

	if suffix.HasNoiseSuffix(file.Name) {
		e.renameCandidates++
	}

	rep, known := e.reps[digest]
	if !known {
		e.reps[digest] = file
		e.groups[digest] = append(e.groups[digest], file)
		e.order = append(e.order, digest)
		e.uniqueFiles++
		return
	}

	e.groups[digest] = append(e.groups[digest], file)

	if file.Dir == rep.Dir {
		e.sameDirDupes++
		e.addDirDupe(file.Dir, digest)
		logger.Get().Debug().Msgf("目录内重复: %s (指纹 %s)", file.Path, digest)
	} else {
		e.crossDirDupes++
		if _, ok := e.crossSeen[digest]; !ok {
			e.crossSeen[digest] = struct{}{}
			e.crossDupes = append(e.crossDupes, digest)
		}
		logger.Get().Debug().Msgf("跨目录重复: %s (指纹 %s)", file.Path, digest)
	}
}

func (e *Engine) addDirDupe(dir, digest string) {
	seen, ok := e.dirDupeSeen[dir]
	if !ok {
		seen = make(map[string]struct{})
		e.dirDupeSeen[dir] = seen
		e.dirOrder = append(e.dirOrder, dir)
	}
	if _, ok := seen[digest]; ok {
		return
	}
	seen[digest] = struct{}{}
	e.dirDupes[dir] = append(e.dirDupes[dir], digest)
}

// Group 返回指纹对应的全部成员，按首次观察顺序
func (e *Engine) Group(digest string) []internal.MediaFile {
	return e.groups[digest]
}

// Representative 返回指纹的代表文件（首个观察到的成员）
func (e *Engine) Representative(digest string) (internal.MediaFile, bool) {
	rep, ok := e.reps[digest]
	return rep, ok
}

// DuplicateDirs 返回存在目录内重复的目录，按首次出现顺序
func (e *Engine) DuplicateDirs() []string {
	return e.dirOrder
}

// DirectoryDuplicates 返回目录内有 ≥2 个成员的指纹集合
func (e *Engine) DirectoryDuplicates(dir string) []string {
	return e.dirDupes[dir]
}

// MembersIn 返回指纹在指定目录内的成员，按首次观察顺序
func (e *Engine) MembersIn(digest, dir string) []internal.MediaFile {
	var members []internal.MediaFile
	for _, f := range e.groups[digest] {
		if f.Dir == dir {
			members = append(members, f)
		}
	}
	return members
}

// CrossGroups 返回全部跨目录重复组，按判定顺序
func (e *Engine) CrossGroups() []CrossGroup {
	out := make([]CrossGroup, 0, len(e.crossDupes))
	for _, digest := range e.crossDupes {
		out = append(out, CrossGroup{Digest: digest, Files: e.groups[digest]})
	}
	return out
}

// Report 返回计数快照
func (e *Engine) Report() Report {
	return Report{
		TotalFiles:       e.totalFiles,
		UniqueFiles:      e.uniqueFiles,
		SameDirDupes:     e.sameDirDupes,
		CrossDirDupes:    e.crossDirDupes,
		RenameCandidates: e.renameCandidates,
	}
}

// GroupCount 返回指纹组数量，等于唯一文件数
func (e *Engine) GroupCount() int {
	return len(e.groups)
}

// GroupSizeSum 返回所有组成员数之和，等于观察到的文件总数
func (e *Engine) GroupSizeSum() int {
	total := 0
	for _, members := range e.groups {
		total += len(members)
	}
	return total
}
