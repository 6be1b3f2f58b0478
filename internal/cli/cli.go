// Package cli contentio 命令行入口
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"

	"github.com/cxykevin/contentio/config"
	"github.com/cxykevin/contentio/config/structs"
	"github.com/cxykevin/contentio/library/json"
	"github.com/cxykevin/contentio/log"
	"github.com/cxykevin/contentio/product"
	"github.com/cxykevin/contentio/storage"
	"gorm.io/gorm"
)

var logger = log.New("cli")

// 退出码
const (
	exitOK    = 0
	exitFound = 1 // 发现错误
	exitUsage = 2
)

// ExitUsage 参数或运行环境错误时的退出码
const ExitUsage = exitUsage

// env 一次命令执行共享的输出与全局参数
type env struct {
	stdout  io.Writer
	stderr  io.Writer
	noColor bool
	journal bool
}

type command struct {
	usage string
	run   func(e *env, args []string) int
}

var commands = map[string]command{
	"lint":    {"check files and print diagnostics", runLint},
	"fmt":     {"rewrite files in canonical form", runFmt},
	"journal": {"list diagnostics recorded by earlier runs", runJournal},
	"version": {"print version information", runVersion},
}

// Run 解析参数并执行子命令，返回退出码
func Run(args []string, stdout, stderr io.Writer) int {
	e := &env{stdout: stdout, stderr: stderr}

	fs := flag.NewFlagSet(product.Name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&e.noColor, "no-color", false, "disable colored output")
	fs.BoolVar(&e.journal, "journal", config.GlobalConfig.Journal.Enable, "record diagnostics in the journal")
	fs.Usage = func() { usage(fs) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	rest := fs.Args()
	if len(rest) == 0 {
		usage(fs)
		return exitUsage
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "%s: unknown command %q\n", product.Name, rest[0])
		usage(fs)
		return exitUsage
	}
	logger.Info("run %s %v", rest[0], rest[1:])
	return cmd.run(e, rest[1:])
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintf(out, "usage: %s [flags] <command> [args]\n\ncommands:\n", product.Name)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-8s %s\n", name, commands[name].usage)
	}
	fmt.Fprintln(out, "\nflags:")
	fs.PrintDefaults()
}

// newPrinter 按当前主题创建诊断输出
func (e *env) newPrinter(out io.Writer) *printer {
	theme := structs.FindTheme(config.GlobalConfig.Theme)
	return &printer{out: out, styles: newStyles(theme, e.noColor)}
}

// openJournal 打开诊断记录，失败时只提示，不影响命令本身
func (e *env) openJournal(command string) *storage.Journal {
	if !e.journal {
		return nil
	}
	db, err := storage.InitStorage(config.GlobalConfig.Journal.Path)
	if err != nil {
		fmt.Fprintf(e.stderr, "%s: journal disabled: %v\n", product.Name, err)
		return nil
	}
	j, err := storage.NewJournal(db, command)
	if err != nil {
		fmt.Fprintf(e.stderr, "%s: journal disabled: %v\n", product.Name, err)
		return nil
	}
	return j
}

// sink 组合终端输出、日志与记录
func sink(p *printer, j *storage.Journal) json.Sink {
	sinks := []json.Sink{p, json.LogSink(logger)}
	if j != nil {
		sinks = append(sinks, j)
	}
	return json.MultiSink(sinks...)
}

func closeJournal(e *env, j *storage.Journal) {
	if j == nil {
		return
	}
	if err := j.Err(); err != nil {
		fmt.Fprintf(e.stderr, "%s: journal incomplete: %v\n", product.Name, err)
	}
}

func openDB(e *env) (*gorm.DB, bool) {
	db, err := storage.InitStorage(config.GlobalConfig.Journal.Path)
	if err != nil {
		fmt.Fprintf(e.stderr, "%s: %v\n", product.Name, err)
		return nil, false
	}
	return db, true
}

func runVersion(e *env, args []string) int {
	fmt.Fprintln(e.stdout, product.UserAgent)
	return exitOK
}
