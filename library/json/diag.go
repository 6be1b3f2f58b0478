package json

// Severity 诊断级别
type Severity int

const (
	// SeverityError 当前值加载失败
	SeverityError Severity = iota
	// SeverityWarning 仅提示，不影响加载结果
	SeverityWarning
)

// String 返回级别名
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARN"
	}
	return "UNKNOWN"
}

// Diagnostic 一条交给日志接收端的诊断
type Diagnostic struct {
	Severity Severity
	Err      *JSONError
}

// String 日志中使用的文本形式
func (d Diagnostic) String() string {
	if d.Err == nil {
		return "(json-error)"
	}
	return "(json-error)\n" + d.Err.Error()
}

// Sink 诊断接收端，只接收文本和结构化信息，不决定是否展示给用户
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc 函数适配器
type SinkFunc func(d Diagnostic)

// Report 实现 Sink
func (f SinkFunc) Report(d Diagnostic) {
	f(d)
}

// Warner 任意带 printf 风格 Warn 方法的日志对象（例如 log.LogsObj）
type Warner interface {
	Warn(msg string, v ...any)
}

type logSink struct {
	l Warner
}

// LogSink 将诊断写入日志
func LogSink(l Warner) Sink {
	return logSink{l: l}
}

func (s logSink) Report(d Diagnostic) {
	s.l.Warn("%s", d.String())
}

type multiSink []Sink

// MultiSink 将诊断分发给多个接收端，nil 会被忽略
func MultiSink(sinks ...Sink) Sink {
	var m multiSink
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m multiSink) Report(d Diagnostic) {
	for _, s := range m {
		s.Report(d)
	}
}
