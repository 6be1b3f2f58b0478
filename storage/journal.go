package storage

import (
	"errors"
	"sync"

	"github.com/cxykevin/contentio/library/json"
	"github.com/cxykevin/contentio/product"
	"github.com/cxykevin/contentio/storage/structs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Journal 将诊断写入数据库的 Sink，一个 Journal 对应一次命令执行
type Journal struct {
	db  *gorm.DB
	run structs.Runs
	mu  sync.Mutex
	err error
}

// NewJournal 新建一次执行记录
func NewJournal(db *gorm.DB, command string) (*Journal, error) {
	if db == nil {
		return nil, errors.New("journal: nil db")
	}
	j := &Journal{
		db:  db,
		run: structs.Runs{Command: command, Version: product.Version},
	}
	if err := db.Create(&j.run).Error; err != nil {
		return nil, err
	}
	return j, nil
}

// RunID 本次执行的编号
func (j *Journal) RunID() uint32 {
	return j.run.ID
}

// Err 返回第一个写入错误，Report 本身不返回错误
func (j *Journal) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

func (j *Journal) fail(err error) {
	if err != nil && j.err == nil {
		j.err = err
		logger.Error("journal write failed: %v", err)
	}
}

// Report 实现 json.Sink
func (j *Journal) Report(d json.Diagnostic) {
	if d.Err == nil {
		return
	}
	row := structs.Diagnostics{
		RunID:    j.run.ID,
		Source:   d.Err.Pos.Source,
		Line:     int32(d.Err.Pos.Line),
		Column:   int32(d.Err.Pos.Column),
		Offset:   int64(d.Err.Pos.Offset),
		EOF:      d.Err.EOF,
		Severity: structs.DiagnosticsSeverityError,
		Message:  d.Err.Message,
		Fix:      d.Err.Fix,
		Text:     d.Err.Error(),
	}
	if d.Severity == json.SeverityWarning {
		row.Severity = structs.DiagnosticsSeverityWarning
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.db.Omit(clause.Associations).Create(&row).Error; err != nil {
		j.fail(err)
		return
	}
	counter := "errors"
	if row.Severity == structs.DiagnosticsSeverityWarning {
		counter = "warnings"
	}
	j.fail(j.db.Model(&j.run).UpdateColumn(counter, gorm.Expr(counter+" + ?", 1)).Error)
}

// AddFile 记录一个处理过的文件
func (j *Journal) AddFile(path string, size int64, failed bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	file := structs.Files{Path: path, RunID: j.run.ID, Bytes: size, Failed: failed}
	if err := j.db.Omit(clause.Associations).Save(&file).Error; err != nil {
		j.fail(err)
		return
	}
	j.fail(j.db.Model(&j.run).UpdateColumn("files", gorm.Expr("files + ?", 1)).Error)
}

// ListFilter 诊断查询条件，零值字段不参与过滤
type ListFilter struct {
	RunID    uint32
	Source   string
	Warnings bool // 只看警告
	Errors   bool // 只看错误
	Limit    int
}

// ListDiagnostics 按时间顺序列出诊断
func ListDiagnostics(db *gorm.DB, filter ListFilter) ([]structs.Diagnostics, error) {
	q := db.Model(&structs.Diagnostics{})
	if filter.RunID != 0 {
		q = q.Where("run_id = ?", filter.RunID)
	}
	if filter.Source != "" {
		q = q.Where("source = ?", filter.Source)
	}
	switch {
	case filter.Warnings && !filter.Errors:
		q = q.Where("severity = ?", structs.DiagnosticsSeverityWarning)
	case filter.Errors && !filter.Warnings:
		q = q.Where("severity = ?", structs.DiagnosticsSeverityError)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var out []structs.Diagnostics
	err := q.Order("id").Find(&out).Error
	return out, err
}

// SourceCount 单个来源的诊断数量
type SourceCount struct {
	Source   string
	Errors   int64
	Warnings int64
}

// CountBySource 按来源汇总诊断数量
func CountBySource(db *gorm.DB, runID uint32) ([]SourceCount, error) {
	q := db.Model(&structs.Diagnostics{}).
		Select("source, "+
			"SUM(CASE WHEN severity = ? THEN 1 ELSE 0 END) AS errors, "+
			"SUM(CASE WHEN severity = ? THEN 1 ELSE 0 END) AS warnings",
			structs.DiagnosticsSeverityError, structs.DiagnosticsSeverityWarning).
		Group("source").
		Order("source")
	if runID != 0 {
		q = q.Where("run_id = ?", runID)
	}
	var out []SourceCount
	err := q.Scan(&out).Error
	return out, err
}

// ListRuns 最近的执行记录，新的在前
func ListRuns(db *gorm.DB, limit int) ([]structs.Runs, error) {
	q := db.Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []structs.Runs
	err := q.Find(&out).Error
	return out, err
}

// LastRun 最近一次执行
func LastRun(db *gorm.DB) (structs.Runs, error) {
	var run structs.Runs
	err := db.Order("id DESC").First(&run).Error
	return run, err
}
