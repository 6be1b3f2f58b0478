package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/cxykevin/contentio/internal/configutil"
)

const defaultLogPath = "~/.config/contentio/log.log"

// LogEntry 表示日志条目的结构
type LogEntry struct {
	Timestamp string
	Level     string
	Category  string
	Message   string
	Line      string
}

// Options 命令行参数的结构
type Options struct {
	FilePath string
	MinLevel string
	Module   string // 只显示该模块
	NoColor  bool
	Expand   bool // 展开转义的换行，还原多行诊断
	Watch    bool // 监控模式标志
}

var levelColors = map[string]lipgloss.Color{
	"DEBUG": lipgloss.Color("6"),
	"INFO":  lipgloss.Color("2"),
	"WARN":  lipgloss.Color("3"),
	"ERROR": lipgloss.Color("1"),
}

var levelPriority = map[string]int{
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
}

var (
	timestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	categoryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	unparsedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// 2025/12/07 14:04:35 [INFO][log] log inited
var logLineRe = regexp.MustCompile(`^(\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2})\s+\[([A-Z]+)\]\[([^\]]+)\]\s+(.*)$`)

func parseOptions(args []string) (Options, error) {
	fs := flag.NewFlagSet("logreader", flag.ContinueOnError)
	fs.Usage = displayUsage
	minLevel := fs.String("level", "DEBUG", "Minimum log level to display (DEBUG, INFO, WARN, ERROR)")
	module := fs.String("module", "", "Only display entries of this module")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	expand := fs.Bool("expand", false, "Expand escaped newlines in messages")
	watch := fs.Bool("d", false, "Enable watch mode (monitor file changes)")
	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}

	// 未给出路径时读取 CONTENTIO_LOG_PATH
	filePath := configutil.EnvOr("CONTENTIO_LOG_PATH", defaultLogPath)
	if rest := fs.Args(); len(rest) > 0 {
		filePath = rest[0]
	}

	return Options{
		FilePath: configutil.ExpandPath(filePath),
		MinLevel: strings.ToUpper(*minLevel),
		Module:   *module,
		NoColor:  *noColor,
		Expand:   *expand,
		Watch:    *watch,
	}, nil
}

func parseLogLine(line string) *LogEntry {
	matches := logLineRe.FindStringSubmatch(line)
	if len(matches) != 5 {
		return nil
	}

	return &LogEntry{
		Timestamp: matches[1],
		Level:     matches[2],
		Category:  matches[3],
		Message:   matches[4],
		Line:      line,
	}
}

// unescapeMessage 还原日志写入时转义的字符
func unescapeMessage(msg string) string {
	var b strings.Builder
	for i := 0; i < len(msg); i++ {
		if msg[i] != '\\' || i+1 == len(msg) {
			b.WriteByte(msg[i])
			continue
		}
		i++
		switch msg[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(msg[i])
		}
	}
	return b.String()
}

func shouldDisplay(entry *LogEntry, opts Options) bool {
	if opts.Module != "" && entry.Category != opts.Module {
		return false
	}
	entryPriority, exists := levelPriority[entry.Level]
	if !exists {
		return true
	}

	minPriority, exists := levelPriority[opts.MinLevel]
	if !exists {
		return true
	}

	return entryPriority >= minPriority
}

func colorize(text string, style lipgloss.Style, noColor bool) string {
	if noColor {
		return text
	}
	return style.Render(text)
}

func formatLogEntry(entry *LogEntry, opts Options) string {
	levelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	if c, ok := levelColors[entry.Level]; ok {
		levelStyle = levelStyle.Foreground(c)
	}
	timestamp := colorize(entry.Timestamp, timestampStyle, opts.NoColor)
	level := colorize("["+entry.Level+"]", levelStyle, opts.NoColor)
	category := colorize("["+entry.Category+"]", categoryStyle, opts.NoColor)
	message := entry.Message
	if opts.Expand {
		message = unescapeMessage(message)
	}

	return fmt.Sprintf("%s %s %s %s", timestamp, level, category, message)
}

// readLogFrom 从指定行号开始读取日志，返回读到的总行数
func readLogFrom(in io.Reader, out io.Writer, opts Options, startLine int) (int, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		if lineNum <= startLine {
			continue
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry := parseLogLine(line)
		if entry == nil {
			fmt.Fprintf(out, "%s unparsable: %s\n", colorize(fmt.Sprintf("[LINE %d]", lineNum), unparsedStyle, opts.NoColor), line)
			continue
		}

		if shouldDisplay(entry, opts) {
			fmt.Fprintln(out, formatLogEntry(entry, opts))
		}
	}

	if err := scanner.Err(); err != nil {
		return lineNum, fmt.Errorf("failed to read log: %w", err)
	}
	return lineNum, nil
}

// readLogFile 从指定行号开始读取日志文件
func readLogFile(opts Options, startLine int) (int, error) {
	file, err := os.Open(opts.FilePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open log: %w", err)
	}
	defer file.Close()
	return readLogFrom(file, os.Stdout, opts, startLine)
}

// clearScreen 清屏并清除滚动历史
func clearScreen() {
	fmt.Print("\033[2J\033[H\033[3J")
}

func displayUsage() {
	fmt.Println("usage: logreader [options] [log file]")
	fmt.Println("")
	fmt.Println("options:")
	fmt.Println("  -level <level>   minimum level to display (DEBUG, INFO, WARN, ERROR)")
	fmt.Println("  -module <name>   only display entries of this module")
	fmt.Println("  -no-color        disable colored output")
	fmt.Println("  -expand          expand escaped newlines (multi-line diagnostics)")
	fmt.Println("  -d               watch the file for changes")
	fmt.Println("  -h, --help       show this help")
	fmt.Println("")
	fmt.Println("examples:")
	fmt.Println("  logreader")
	fmt.Println("  logreader -level WARN -module lint -expand")
	fmt.Println("  logreader -no-color -level ERROR contentio.log")
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err == flag.ErrHelp {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	lastLine, err := readLogFile(opts, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// 如果启用监控模式，则开始监控文件变化
	if opts.Watch {
		watcher := newFileWatcher(opts)
		watcher.initState(lastLine)
		watcher.watch()
	}
}

// FileWatcher 用于监控文件变化
type FileWatcher struct {
	opts        Options
	lastSize    int64
	lastModTime time.Time
	lastLine    int
}

func newFileWatcher(opts Options) *FileWatcher {
	return &FileWatcher{opts: opts}
}

// initState 初始化监控器状态
func (fw *FileWatcher) initState(lines int) {
	info, err := os.Stat(fw.opts.FilePath)
	if err != nil {
		return
	}
	fw.lastSize = info.Size()
	fw.lastModTime = info.ModTime()
	fw.lastLine = lines
}

func (fw *FileWatcher) watch() {
	for {
		time.Sleep(500 * time.Millisecond)

		info, err := os.Stat(fw.opts.FilePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}

		// 文件被截断（每次启动都会清空日志），清屏重新输出全部
		if info.Size() < fw.lastSize {
			clearScreen()
			fw.lastLine = 0
		}

		if info.Size() != fw.lastSize || info.ModTime().After(fw.lastModTime) {
			lines, err := readLogFile(fw.opts, fw.lastLine)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			} else {
				fw.lastLine = lines
			}
			fw.lastSize = info.Size()
			fw.lastModTime = info.ModTime()
		}
	}
}
