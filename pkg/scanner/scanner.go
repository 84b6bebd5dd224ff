package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/h2non/filetype"
	"github.com/spf13/afero"

	"github.com/moyu-x/media-dedup/internal"
	"github.com/moyu-x/media-dedup/pkg/logger"
)

// Scanner 发现包含媒体文件的目录并列出其中的媒体文件
// 只看扩展名白名单，不做递归归组：每个目录单独产出自己的文件列表
type Scanner struct {
	fs   afero.Fs
	root string
	exts map[string]struct{}
}

func New(fs afero.Fs, root string, extensions []string) *Scanner {
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}
	return &Scanner{fs: fs, root: root, exts: exts}
}

// MediaDirs 返回根目录加上所有至少包含一个媒体文件的子目录，按遍历顺序
func (s *Scanner) MediaDirs() ([]string, error) {
	logger.Get().Info().Msg("识别包含媒体文件的目录...")

	dirs := []string{s.root}

	err := afero.Walk(s.fs, s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logger.Get().Warn().Err(err).Msgf("遍历目录失败: %s", path)
			return nil
		}
		if !info.IsDir() || path == s.root {
			return nil
		}

		hasMedia, err := s.hasMediaFile(path)
		if err != nil {
			logger.Get().Warn().Err(err).Msgf("读取目录失败: %s", path)
			return nil
		}
		if hasMedia {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info().Msgf("找到 %d 个包含媒体文件的目录", len(dirs))
	return dirs, nil
}

func (s *Scanner) hasMediaFile(dir string) (bool, error) {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if !e.IsDir() && s.isMedia(e.Name()) {
			return true, nil
		}
	}
	return false, nil
}

// ListMedia 返回目录内的媒体文件，按文件名字典序
// 排序保证并行指纹计算下"首次观察"的顺序可复现
func (s *Scanner) ListMedia(dir string) ([]internal.MediaFile, error) {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, err
	}

	var files []internal.MediaFile
	for _, e := range entries {
		if e.IsDir() || !s.isMedia(e.Name()) {
			continue
		}

		rel, err := filepath.Rel(s.root, dir)
		if err != nil {
			return nil, err
		}
		if rel == "." {
			rel = ""
		}

		files = append(files, internal.MediaFile{
			Path: filepath.Join(dir, e.Name()),
			Dir:  rel,
			Name: e.Name(),
			Ext:  strings.ToLower(strings.TrimPrefix(filepath.Ext(e.Name()), ".")),
			Size: e.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func (s *Scanner) isMedia(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	_, ok := s.exts[ext]
	return ok
}

// VerifyExtension 读取文件头做类型嗅探，扩展名与实际内容不符时告警
// 只影响日志，不影响分类
func (s *Scanner) VerifyExtension(file internal.MediaFile) {
	f, err := s.fs.Open(file.Path)
	if err != nil {
		return
	}
	defer f.Close()

	head := make([]byte, 261)
	n, err := f.Read(head)
	if err != nil || n == 0 {
		return
	}

	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown {
		return
	}

	if kind.Extension != file.Ext {
		logger.Get().Warn().Msgf("文件类型与扩展名不符: %s (扩展名 %s, 实际 %s)",
			file.Path, file.Ext, kind.Extension)
	}
}
