package structs

import "fmt"

// Color RGB 颜色
type Color struct {
	R uint8
	G uint8
	B uint8
}

// Hex 返回 #RRGGBB 形式
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Theme 诊断输出主题
type Theme struct {
	Name     string
	Error    Color // 错误级别
	Warning  Color // 警告级别
	Location Color // 文件:行:列
	Caret    Color // 插入符
	Fix      Color // 修复建议
	Summary  Color // 汇总行
}

// DefaultThemes 默认主题列表
var DefaultThemes = []Theme{
	{
		Name:     "Default Dark Theme",
		Error:    Color{239, 68, 68},   // #EF4444 红色
		Warning:  Color{245, 158, 11},  // #F59E0B 黄色
		Location: Color{96, 165, 250},  // #60A5FA 潜蓝
		Caret:    Color{34, 197, 94},   // #22C55E 绿色
		Fix:      Color{168, 85, 247},  // #A855F7 紫色
		Summary:  Color{156, 163, 175}, // #9CA3AF 灰色
	},
	{
		Name:     "Default Light Theme",
		Error:    Color{185, 28, 28},  // #B91C1C
		Warning:  Color{180, 83, 9},   // #B45309
		Location: Color{30, 64, 175},  // #1E40AF 深蓝
		Caret:    Color{21, 128, 61},  // #15803D
		Fix:      Color{126, 34, 206}, // #7E22CE
		Summary:  Color{96, 98, 102},  // #606266
	},
}

// FindTheme 按名称查找主题，找不到时返回第一个
func FindTheme(name string) Theme {
	for _, th := range DefaultThemes {
		if th.Name == name {
			return th
		}
	}
	return DefaultThemes[0]
}
