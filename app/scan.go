package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"

	"github.com/moyu-x/media-dedup/internal"
	"github.com/moyu-x/media-dedup/pkg/catalog"
	"github.com/moyu-x/media-dedup/pkg/classify"
	"github.com/moyu-x/media-dedup/pkg/config"
	"github.com/moyu-x/media-dedup/pkg/hasher"
	"github.com/moyu-x/media-dedup/pkg/ledger"
	"github.com/moyu-x/media-dedup/pkg/logger"
	"github.com/moyu-x/media-dedup/pkg/planner"
	"github.com/moyu-x/media-dedup/pkg/report"
	"github.com/moyu-x/media-dedup/pkg/scanner"
	"github.com/moyu-x/media-dedup/pkg/script"
)

type ScanOptions struct {
	Root        string
	Workers     int
	Extensions  []string
	LedgerPath  string
	ScriptPath  string
	CatalogPath string
	VerifyTypes bool
	Verbose     bool
	LogLevel    string
	LogFile     string

	// 可选的进度通道，供 TUI 消费；发送不阻塞扫描
	Progress chan<- internal.ProgressUpdate
}

// RunScan 执行一次完整的扫描：发现目录、计算指纹、分类重复、
// 生成重命名计划并写出操作脚本。目录严格串行处理，目录内的
// 指纹计算并行，观察按字典序应用。
func RunScan(opts *ScanOptions) (*report.Summary, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyDefaults(opts, cfg)

	logLevel := opts.LogLevel
	if opts.Verbose {
		logLevel = "debug"
	}
	if err := logger.Init(logLevel, opts.LogFile); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, err
	}
	logger.Get().Info().Msgf("工作目录: %s", root)

	// 防止两次扫描同时写台账和脚本
	lock := flock.New(filepath.Join(root, ".media-dedup.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("获取运行锁失败: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("另一次扫描正在进行: %s", root)
	}
	defer lock.Unlock()

	fs := afero.NewOsFs()
	started := time.Now()

	sc := scanner.New(fs, root, opts.Extensions)
	dirs, err := sc.MediaDirs()
	if err != nil {
		return nil, err
	}

	listings := make([][]internal.MediaFile, 0, len(dirs))
	total := 0
	for _, dir := range dirs {
		files, err := sc.ListMedia(dir)
		if err != nil {
			return nil, fmt.Errorf("读取目录失败 %s: %w", dir, err)
		}
		listings = append(listings, files)
		total += len(files)
	}
	logger.Get().Info().Msgf("共找到 %d 个媒体文件", total)

	led, err := ledger.Open(fs, resolvePath(root, opts.LedgerPath))
	if err != nil {
		return nil, err
	}
	defer led.Close()

	var cat *catalog.Catalog
	runID := ""
	if opts.CatalogPath != "" {
		cat, err = catalog.Open(opts.CatalogPath)
		if err != nil {
			return nil, err
		}
		defer cat.Close()

		runID, err = cat.BeginRun(root)
		if err != nil {
			return nil, err
		}
	}

	pool := hasher.NewPool(opts.Workers)
	if err := pool.Start(); err != nil {
		return nil, err
	}
	defer pool.Close()

	engine := classify.NewEngine()
	digestByPath := make(map[string]string, total)

	var bytesHashed int64
	var hashTime time.Duration
	processed := 0
	skipped := 0

	for i, dir := range dirs {
		files := listings[i]
		if len(files) == 0 {
			continue
		}
		logger.Get().Info().Msgf("检查目录: %s (%d 个媒体文件)", dir, len(files))

		paths := make([]string, 0, len(files))
		for _, f := range files {
			paths = append(paths, f.Path)
			if opts.VerifyTypes {
				sc.VerifyExtension(f)
			}
		}

		hashStart := time.Now()
		results := pool.HashAll(paths)
		hashTime += time.Since(hashStart)

		// files 已按文件名排序，按此顺序应用观察，
		// 保证代表文件的选取与并行度无关
		for _, f := range files {
			r := results[f.Path]
			if r.Error != nil {
				logger.Get().Warn().Err(r.Error).Msgf("跳过无法读取的文件: %s", f.Path)
				skipped++
				continue
			}

			logger.Get().Debug().Msgf("计算指纹: %s (%s...)", f.Name, hasher.ShortDigest(r.Digest))

			engine.Observe(f, r.Digest)
			digestByPath[f.Path] = r.Digest
			bytesHashed += r.Bytes

			if err := led.Append(r.Digest, f.Path); err != nil {
				return nil, err
			}
			if cat != nil {
				if err := cat.RecordFile(runID, r.Digest, f.Path, f.Size); err != nil {
					logger.Get().Warn().Err(err).Msgf("历史库写入失败: %s", f.Path)
				}
			}

			processed++
			notify(opts.Progress, internal.ProgressUpdate{
				Processed:   processed,
				Total:       total,
				Duplicates:  engine.Report().SameDirDupes + engine.Report().CrossDirDupes,
				CurrentFile: f.Name,
			})
		}
	}

	logger.Get().Info().Msg("分析重复文件并准备操作...")

	sets := planner.RemovalSets(engine)
	entries := planner.New(fs).Plan(engine, func(path string) string {
		return digestByPath[path]
	})

	sw, err := script.Create(fs, resolvePath(root, opts.ScriptPath), root)
	if err != nil {
		return nil, err
	}
	sw.EmitRemovals(sets)
	sw.EmitCrossDirectory(engine.CrossGroups())
	sw.EmitRenames(entries)
	if err := sw.Finalize(); err != nil {
		return nil, fmt.Errorf("写出脚本失败: %w", err)
	}

	summary := report.FromReport(engine.Report())
	summary.Root = root
	summary.SkippedFiles = skipped
	summary.Elapsed = time.Since(started)
	summary.HashTime = hashTime
	summary.BytesHashed = bytesHashed
	for _, e := range entries {
		if e.Err == nil {
			summary.PlannedRenames++
		} else {
			logger.Get().Warn().Msgf("重命名冲突无法消解: %s (%s)", e.File.Path, e.Reason)
		}
	}

	if cat != nil {
		if err := cat.FinishRun(runID, summary); err != nil {
			logger.Get().Warn().Err(err).Msg("历史库回填失败")
		}
	}

	logger.Get().Info().Msgf("台账已写入: %s", led.Path())
	logger.Get().Info().Msgf("操作脚本已写入: %s", sw.Path())

	return summary, nil
}

func applyDefaults(opts *ScanOptions, cfg *config.Config) {
	if opts.Workers <= 0 {
		opts.Workers = cfg.Performance.Workers
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = cfg.Scanner.Extensions
	}
	if opts.LedgerPath == "" {
		opts.LedgerPath = cfg.Output.Ledger
	}
	if opts.ScriptPath == "" {
		opts.ScriptPath = cfg.Output.Script
	}
	if opts.CatalogPath == "" {
		opts.CatalogPath = cfg.Catalog.Path
	}
	if opts.LogLevel == "" {
		opts.LogLevel = cfg.Logging.Level
	}
	if opts.LogFile == "" {
		opts.LogFile = cfg.Logging.File
	}
	if !opts.VerifyTypes {
		opts.VerifyTypes = cfg.Scanner.VerifyTypes
	}
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func notify(ch chan<- internal.ProgressUpdate, u internal.ProgressUpdate) {
	if ch == nil {
		return
	}
	select {
	case ch <- u:
	default:
	}
}
