// Package structs 配置文件结构
package structs

// CheckConfig 读取时的检查项
type CheckConfig struct {
	Style              bool     `yaml:"style" default:"true"`                        // 文本风格检查
	Plural             bool     `yaml:"plural" default:"false"`                      // 要求可推导的复数形式
	MaxDepth           int      `yaml:"max_depth" default:"512"`                     // 最大嵌套深度
	TranslationMembers []string `yaml:"translation_members" default:"name,description"` // 按翻译文本读取的成员
	PluralMembers      []string `yaml:"plural_members" default:"name"`                  // 其中需要复数形式的成员
}

// FormatConfig 输出格式
type FormatConfig struct {
	Indent   string `yaml:"indent" default:"  "` // 缩进，空串为紧凑输出
	Encoding string `yaml:"encoding" default:""` // 源文件编码标签，空为自动识别
}

// JournalConfig 诊断记录
type JournalConfig struct {
	Enable bool   `yaml:"enable" default:"false"`
	Path   string `yaml:"path" default:"~/.config/contentio/journal.sqlite"`
}

// RLEConfig 数组折叠
type RLEConfig struct {
	Rule   string `yaml:"rule" default:""`         // 等价规则表达式，空为结构相等
	MaxRun int    `yaml:"max_run" default:"1048576"` // 单组最大重复次数
}

// Config 配置文件
type Config struct {
	Version int32         `yaml:"version"`
	Theme   string        `yaml:"theme" default:"Default Dark Theme"`
	Check   CheckConfig   `yaml:"check"`
	Format  FormatConfig  `yaml:"format"`
	Journal JournalConfig `yaml:"journal"`
	RLE     RLEConfig     `yaml:"rle"`
}
