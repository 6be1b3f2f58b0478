package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cxykevin/contentio/product"
	"github.com/cxykevin/contentio/storage/structs"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// InitDB 打开数据库并迁移表结构
func InitDB(dbPath string) (*gorm.DB, error) {
	if dbPath == "" {
		dbPath = defaultJournalFile
	}

	// 支持内存数据库
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create db directory %s: %w", dir, err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: NewLogger()})
	if err != nil {
		return nil, fmt.Errorf("failed to open db %s: %w", dbPath, err)
	}
	// 内存数据库每个连接都是独立的库
	if dbPath == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to open db %s: %w", dbPath, err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(structs.Tables...); err != nil {
		return nil, fmt.Errorf("failed to automigrate: %w", err)
	}

	meta := structs.Meta{ID: 1}
	if err := db.FirstOrCreate(&meta).Error; err != nil {
		return nil, fmt.Errorf("failed to read meta: %w", err)
	}
	if meta.Version != product.VersionID {
		if err := db.Model(&meta).Update("version", product.VersionID).Error; err != nil {
			return nil, fmt.Errorf("failed to update meta: %w", err)
		}
	}
	return db, nil
}

// ReadMeta 读取数据库元信息
func ReadMeta(db *gorm.DB) (structs.Meta, error) {
	var meta structs.Meta
	err := db.Order("id").First(&meta).Error
	return meta, err
}
