package log

import (
	"os"
	"path/filepath"
	"strings"
)

var homeDir = func() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" || home == "/" {
		return ""
	}
	return filepath.Clean(home)
}()

// SanitizePath 将用户家目录替换为 ~
func SanitizePath(path string) string {
	if homeDir == "" {
		return path
	}
	if path == homeDir {
		return "~"
	}
	if strings.HasPrefix(path, homeDir+string(filepath.Separator)) {
		return "~" + path[len(homeDir):]
	}
	return path
}

// Sanitize 将文本中出现的用户家目录全部替换为 ~
func Sanitize(text string) string {
	if homeDir == "" || text == "" {
		return text
	}
	return strings.ReplaceAll(text, homeDir+string(filepath.Separator), "~"+string(filepath.Separator))
}
