package catalog

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/moyu-x/media-dedup/pkg/logger"
	"github.com/moyu-x/media-dedup/pkg/report"
)

// Run 是一次扫描的历史记录
type Run struct {
	ID               string `gorm:"primaryKey"`
	Root             string `gorm:"not null"`
	StartedAt        time.Time
	FinishedAt       time.Time
	TotalFiles       int
	UniqueFiles      int
	SameDirDupes     int
	CrossDirDupes    int
	RenameCandidates int
}

func (Run) TableName() string {
	return "runs"
}

// FileRecord 是单个文件在某次扫描中的指纹记录
type FileRecord struct {
	ID     int64  `gorm:"primaryKey"`
	RunID  string `gorm:"index;not null"`
	Digest string `gorm:"index;not null"`
	Path   string `gorm:"not null"`
	Size   int64
}

func (FileRecord) TableName() string {
	return "file_records"
}

// Catalog 是可选的 SQLite 扫描历史库：扫描期间只写不读，
// 历史指纹绝不参与当前运行的重复判定
type Catalog struct {
	db *gorm.DB
}

func Open(path string) (*Catalog, error) {
	logger.Get().Info().Msgf("打开扫描历史库: %s", path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Get().Error().Err(err).Msgf("创建历史库目录失败: %s", filepath.Dir(path))
		return nil, err
	}

	dsn := path + "?_pragma=journal_mode(WAL)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Get().Error().Err(err).Msg("打开历史库失败")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&Run{}, &FileRecord{}); err != nil {
		logger.Get().Error().Err(err).Msg("创建历史库表失败")
		return nil, err
	}

	return &Catalog{db: db}, nil
}

// BeginRun 登记一次新扫描，返回运行 ID
func (c *Catalog) BeginRun(root string) (string, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Root:      root,
		StartedAt: time.Now(),
	}
	if err := c.db.Create(run).Error; err != nil {
		return "", err
	}
	logger.Get().Debug().Msgf("历史库登记扫描: %s", run.ID)
	return run.ID, nil
}

func (c *Catalog) RecordFile(runID, digest, path string, size int64) error {
	rec := &FileRecord{
		RunID:  runID,
		Digest: digest,
		Path:   path,
		Size:   size,
	}
	return c.db.Create(rec).Error
}

// FinishRun 回填本次扫描的计数
func (c *Catalog) FinishRun(runID string, s *report.Summary) error {
	return c.db.Model(&Run{}).Where("id = ?", runID).Updates(map[string]any{
		"finished_at":       time.Now(),
		"total_files":       s.TotalFiles,
		"unique_files":      s.UniqueFiles,
		"same_dir_dupes":    s.SameDirDupes,
		"cross_dir_dupes":   s.CrossDirDupes,
		"rename_candidates": s.RenameCandidates,
	}).Error
}

// Runs 返回最近的扫描记录，按开始时间倒序
func (c *Catalog) Runs(limit int) ([]Run, error) {
	var runs []Run
	err := c.db.Order("started_at desc").Limit(limit).Find(&runs).Error
	return runs, err
}

// RunFiles 返回某次扫描的全部文件记录
func (c *Catalog) RunFiles(runID string) ([]FileRecord, error) {
	var recs []FileRecord
	err := c.db.Where("run_id = ?", runID).Order("id").Find(&recs).Error
	return recs, err
}

func (c *Catalog) Close() error {
	logger.Get().Debug().Msg("关闭扫描历史库")
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
