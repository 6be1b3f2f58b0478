// Package configutil 配置与日志共用的路径工具
package configutil

import (
	"os"
	"path/filepath"
)

// ExpandPath 展开路径中的 ~ 和环境变量
func ExpandPath(path string) string {
	if path == "~" || (len(path) > 1 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator)) {
		// 获取用户家目录
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = homeDir + path[1:]
		}
	}
	// 展开环境变量
	return os.ExpandEnv(path)
}

// EnvOr 环境变量非空时返回其值，否则返回 def
func EnvOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
