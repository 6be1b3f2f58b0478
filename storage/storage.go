// Package storage 基于 sqlite 的诊断记录
package storage

import (
	"github.com/cxykevin/contentio/internal/configutil"
	"github.com/cxykevin/contentio/log"
	"gorm.io/gorm"
)

const defaultJournalFile = ".contentio/journal.sqlite"
const envJournalName = "CONTENTIO_JOURNAL_PATH"

var logger *log.LogsObj

func init() {
	logger = log.New("storage")
}

// InitStorage 打开诊断记录库，环境变量 CONTENTIO_JOURNAL_PATH 优先于 path
func InitStorage(path string) (*gorm.DB, error) {
	if path == "" {
		path = defaultJournalFile
	}
	path = configutil.ExpandPath(configutil.EnvOr(envJournalName, path))

	logger.Info("storage init in %s", log.SanitizePath(path))
	db, err := InitDB(path)
	if err != nil {
		logger.Error("failed to init db %s: %v", log.SanitizePath(path), err)
		return nil, err
	}
	return db, nil
}
