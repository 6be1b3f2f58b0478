package storage

import (
	"context"
	"errors"
	"time"

	alog "github.com/cxykevin/contentio/log"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var dbLogger = alog.New("gorm")

// Logger 将 GORM 日志转发到模块日志，并记录慢查询
type Logger struct {
	slow  time.Duration
	level gormLogger.LogLevel
}

// NewLogger 创建日志器
func NewLogger() gormLogger.Interface {
	return &Logger{
		slow:  time.Millisecond * 300,
		level: gormLogger.Warn,
	}
}

// LogMode 设置日志级别
func (l *Logger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.level = level
	return &nl
}

// Info 打印信息级别日志
func (l *Logger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormLogger.Info {
		dbLogger.Info(msg, data...)
	}
}

// Warn 打印警告级别日志
func (l *Logger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormLogger.Warn {
		dbLogger.Warn(msg, data...)
	}
}

// Error 打印错误级别日志
func (l *Logger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormLogger.Error {
		dbLogger.Error(msg, data...)
	}
}

// Trace 跟踪 SQL 执行耗时与错误
func (l *Logger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	elapsedMs := float64(elapsed.Nanoseconds()) / 1e6

	// 错误优先级比慢查询与普通日志高，找不到记录不算错误
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		dbLogger.Error("[%.3fms] rows:%d %s; error: %v", elapsedMs, rows, sql, err)
		return
	}

	if l.slow > 0 && elapsed > l.slow {
		dbLogger.Warn("slow query > %s [%.3fms] rows:%d %s", l.slow.String(), elapsedMs, rows, sql)
		return
	}

	if l.level >= gormLogger.Info {
		dbLogger.Debug("[%.3fms] rows:%d %s", elapsedMs, rows, sql)
	}
}
