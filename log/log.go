// Package log 日志模块
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cxykevin/contentio/internal/configutil"
)

const defaultLogPath = "~/.config/contentio/log.log"
const envLogName = "CONTENTIO_LOG_PATH"

// Logger 日志对象
var Logger *log.Logger

var loggerInited bool = false
var loadLck sync.Mutex

// 异步日志相关
type logMessage struct {
	level      string
	moduleName string
	message    string
}

var logChannel chan logMessage
var logWaitGroup sync.WaitGroup
var logFlushMutex sync.Mutex
var droppedLogCount uint64
var isShutdown uint32

// Load 按环境变量打开日志文件，失败时日志写入 io.Discard
func Load() {
	loadLck.Lock()
	defer loadLck.Unlock()
	if loggerInited {
		return
	}
	expandedPath := configutil.ExpandPath(configutil.EnvOr(envLogName, defaultLogPath))

	var out io.Writer = io.Discard
	if err := os.MkdirAll(filepath.Dir(expandedPath), 0755); err == nil {
		// 每次启动清空日志
		file, err := os.OpenFile(expandedPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			out = file
		}
	}
	start(out)
}

// LoadTo 将日志写入 w，已经加载过时不生效
func LoadTo(w io.Writer) {
	loadLck.Lock()
	defer loadLck.Unlock()
	if loggerInited {
		return
	}
	start(w)
}

func start(w io.Writer) {
	Logger = log.New(w, "", log.LstdFlags)
	// 缓冲1000条日志
	logChannel = make(chan logMessage, 1000)
	go logWorker()
	loggerInited = true
	atomic.StoreUint32(&isShutdown, 0)

	New("log").Info("log inited")
}

// logWorker 异步日志处理worker
func logWorker() {
	for msg := range logChannel {
		Logger.Printf("[%s][%s] %s", msg.level, msg.moduleName, msg.message)
		logWaitGroup.Done()
	}
}

// Flush 等待所有pending的日志写入完成
func Flush() {
	logFlushMutex.Lock()
	defer logFlushMutex.Unlock()
	logWaitGroup.Wait()
}

// Shutdown 写完剩余日志后停止worker，之后的日志同步写入
func Shutdown() {
	if !loggerInited || atomic.LoadUint32(&isShutdown) == 1 {
		return
	}
	atomic.StoreUint32(&isShutdown, 1)
	Flush()
	close(logChannel)
}

// LogsObj 模块日志对象
type LogsObj struct {
	moduleName string
}

// format 格式化并转义换行，一条多行诊断只占一行日志
func format(msg string, v ...any) string {
	str := fmt.Sprintf(msg, v...)
	str = Sanitize(str)
	return strings.NewReplacer(
		"\\", "\\\\",
		"\n", "\\n",
		"\r", "\\r",
		"\t", "\\t",
	).Replace(str)
}

func (l *LogsObj) log(level string, msg string, v ...any) {
	str := format(msg, v...)

	if atomic.LoadUint32(&isShutdown) == 1 {
		Logger.Printf("[%s][%s] %s", level, l.moduleName, str)
		return
	}

	// 异步写入日志
	logFlushMutex.Lock()
	logWaitGroup.Add(1)
	logFlushMutex.Unlock()

	select {
	case logChannel <- logMessage{
		level:      level,
		moduleName: l.moduleName,
		message:    str,
	}:
	default:
		logWaitGroup.Done()
		atomic.AddUint64(&droppedLogCount, 1)
		l.logSync("WARN", "log channel full, drop log (total dropped: %d)", atomic.LoadUint64(&droppedLogCount))
	}
}

func (l *LogsObj) logSync(level string, msg string, v ...any) {
	Logger.Printf("[%s][%s] %s", level, l.moduleName, format(msg, v...))
}

// Info 打印日志
func (l *LogsObj) Info(msg string, v ...any) {
	l.log("INFO", msg, v...)
}

// Warn 打印警告
func (l *LogsObj) Warn(msg string, v ...any) {
	l.log("WARN", msg, v...)
}

// Error 打印错误 - 强制同步写入
func (l *LogsObj) Error(msg string, v ...any) {
	// 先flush所有pending的日志
	Flush()
	l.logSync("ERROR", msg, v...)
}

// Debug 打印调试
func (l *LogsObj) Debug(msg string, v ...any) {
	l.log("DEBUG", msg, v...)
}

// New 创建日志对象
func New(moduleName string) *LogsObj {
	if !loggerInited {
		Load()
	}
	return &LogsObj{moduleName: moduleName}
}
