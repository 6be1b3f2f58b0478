// Package structs 诊断记录的数据库表
package structs

// Tables 需要 AutoMigrate 的表
var Tables = []any{
	&Meta{},
	&Runs{},
	&Files{},
	&Diagnostics{},
}

// Meta 数据库元信息，只有一行
type Meta struct {
	ID      uint32 `gorm:"primaryKey"`
	Version int32  // 写入该库的程序版本编号
}

// Runs 一次命令执行
type Runs struct {
	ID       uint32 `gorm:"primaryKey;autoIncrement"`
	Command  string
	Version  string
	Time     uint64 `gorm:"autoCreateTime"`
	Files    int32
	Errors   int32
	Warnings int32
}

// Files 每次执行中处理过的文件
type Files struct {
	Path   string `gorm:"primaryKey"`
	RunID  uint32 `gorm:"primaryKey"`
	Runs   Runs   `gorm:"foreignKey:RunID"`
	Bytes  int64
	Failed bool // 读取或解析在 EOF 类错误处中止
}
