package structs

// DiagnosticsSeverity 诊断级别
type DiagnosticsSeverity uint8

// 诊断级别
const (
	DiagnosticsSeverityError DiagnosticsSeverity = iota
	DiagnosticsSeverityWarning
)

// Diagnostics 诊断记录
type Diagnostics struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	RunID    uint32 `gorm:"index"`
	Runs     Runs   `gorm:"foreignKey:RunID;constraints:OnDelete:CASCADE;OnUpdate:CASCADE"`
	Source   string `gorm:"index"`
	Line     int32
	Column   int32
	Offset   int64
	EOF      bool
	Severity DiagnosticsSeverity
	Message  string `gorm:"type:text"`
	Fix      string
	Text     string `gorm:"type:text"` // 完整的多行诊断文本
	Time     uint64 `gorm:"autoCreateTime"`
}
