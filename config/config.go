// Package config 配置文件读写
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/cxykevin/contentio/config/structs"
	"github.com/cxykevin/contentio/internal/configutil"
	"github.com/cxykevin/contentio/library/json"
	"github.com/cxykevin/contentio/product"
	"gopkg.in/yaml.v3"
)

// GlobalConfig 配置文件对象
var GlobalConfig = Default()

const defaultConfigPath = "~/.config/contentio/config.yaml"
const envConfigName = "CONTENTIO_CONFIG_PATH"

var configPath string

// Default 默认配置
func Default() *structs.Config {
	cfg := structs.BuildDefault(structs.Config{})
	cfg.Version = product.VersionID
	return &cfg
}

// Path 当前配置文件路径（已展开）
func Path() string {
	if configPath == "" {
		configPath = configutil.ExpandPath(configutil.EnvOr(envConfigName, defaultConfigPath))
	}
	return configPath
}

// Load 加载配置文件，文件不存在时写入默认配置，损坏时备份为 .bak 后重建
func Load() {
	configPath = ""
	GlobalConfig = Default()
	expandedPath := Path()

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			backup(expandedPath)
		}
		Save()
		return
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		backup(expandedPath)
		Save()
		return
	}
	GlobalConfig = cfg
}

// backup 将无法读取的配置文件改名为 .bak
func backup(path string) {
	if _, err := os.Stat(path); err == nil {
		os.Rename(path, path+".bak")
	}
}

// Save 保存配置文件
func Save() error {
	expandedPath := Path()

	// 确保目录存在
	if err := os.MkdirAll(filepath.Dir(expandedPath), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(GlobalConfig)
	if err != nil {
		return err
	}
	return os.WriteFile(expandedPath, data, 0644)
}

// ReaderOptions 将检查配置映射为读取选项
func ReaderOptions(source string, sink json.Sink) json.Options {
	return json.Options{
		Source:      source,
		Encoding:    GlobalConfig.Format.Encoding,
		Sink:        sink,
		CheckStyle:  GlobalConfig.Check.Style,
		CheckPlural: GlobalConfig.Check.Plural,
		MaxDepth:    GlobalConfig.Check.MaxDepth,
	}
}

// IsTranslationMember 成员是否按翻译文本读取，以及是否需要复数形式
func IsTranslationMember(name string) (translation bool, plural bool) {
	for _, m := range GlobalConfig.Check.TranslationMembers {
		if m == name {
			translation = true
			break
		}
	}
	if !translation {
		return false, false
	}
	for _, m := range GlobalConfig.Check.PluralMembers {
		if m == name {
			return true, true
		}
	}
	return true, false
}
