package ledger

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/moyu-x/media-dedup/pkg/logger"
)

// Ledger 是追加式的指纹台账，每个观察到的文件一行：<digest>  <path>
//
// 每次运行都从零开始：已有台账先备份为 .bak 再清空，
// 旧指纹绝不作为缓存参与比较。
type Ledger struct {
	fs   afero.Fs
	path string
	file afero.File
}

func Open(fs afero.Fs, path string) (*Ledger, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("台账检查失败: %w", err)
	}

	if exists {
		backup := path + ".bak"
		logger.Get().Info().Msgf("备份旧台账: %s", backup)
		if err := copyFile(fs, path, backup); err != nil {
			return nil, fmt.Errorf("台账备份失败: %w", err)
		}
	}

	file, err := fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("台账创建失败: %w", err)
	}

	return &Ledger{fs: fs, path: path, file: file}, nil
}

func (l *Ledger) Append(digest, path string) error {
	if _, err := fmt.Fprintf(l.file, "%s  %s\n", digest, path); err != nil {
		return fmt.Errorf("台账写入失败: %w", err)
	}
	return nil
}

func (l *Ledger) Path() string {
	return l.path
}

func (l *Ledger) Close() error {
	return l.file.Close()
}

func copyFile(fs afero.Fs, src, dst string) error {
	data, err := afero.ReadFile(fs, src)
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, dst, data, 0644)
}
