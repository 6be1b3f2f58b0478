package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/cxykevin/contentio/config"
	"github.com/cxykevin/contentio/library/json"
	"github.com/cxykevin/contentio/library/translation"
	"github.com/cxykevin/contentio/product"
	"github.com/cxykevin/contentio/storage"
)

func runLint(e *env, args []string) int {
	fs := flag.NewFlagSet("lint", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	style := fs.Bool("style", config.GlobalConfig.Check.Style, "check text style")
	plural := fs.Bool("plural", config.GlobalConfig.Check.Plural, "require plural forms that can be generated")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(e.stderr, "usage: contentio lint [-style] [-plural] files...")
		return exitUsage
	}

	p := e.newPrinter(e.stdout)
	j := e.openJournal("lint")
	defer closeJournal(e, j)
	s := sink(p, j)

	failed := 0
	for _, path := range files {
		opts := config.ReaderOptions(path, s)
		opts.CheckStyle = *style
		opts.CheckPlural = *plural
		if !lintFile(e, path, opts, j) {
			failed++
		}
	}
	p.summary(len(files))
	if failed > 0 || p.errors > 0 {
		return exitFound
	}
	return exitOK
}

// lintFile 检查单个文件，返回是否完整读完
func lintFile(e *env, path string, opts json.Options, j *storage.Journal) bool {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(e.stderr, "%s: %v\n", product.Name, err)
		return false
	}
	defer f.Close()

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	r, err := json.ReadSource(f, opts)
	if err != nil {
		fmt.Fprintf(e.stderr, "%s: %s: %v\n", product.Name, path, err)
		if j != nil {
			j.AddFile(path, size, true)
		}
		return false
	}

	err = lintValue(r, "")
	if err == nil {
		err = r.Finish()
	}
	if err != nil {
		// 读取无法继续，只报告第一个硬错误
		r.Report(json.SeverityError, err)
	}
	if j != nil {
		j.AddFile(path, size, err != nil)
	}
	return err == nil
}

// lintValue 遍历一个值，翻译成员按翻译文本读取，其余只检查语法
func lintValue(r *json.Reader, member string) error {
	kind := r.PeekKind()
	if isText, needsPlural := config.IsTranslationMember(member); isText &&
		(kind == json.TokenString || kind == json.TokenObjectStart) {
		t := translation.New("")
		if needsPlural {
			t = translation.NewPlural("", "")
		}
		_, err := r.TryRead(&t)
		return err
	}

	switch kind {
	case json.TokenArrayStart:
		if err := r.StartArray(); err != nil {
			return err
		}
		for {
			done, err := r.EndArray()
			if err != nil || done {
				return err
			}
			// 数组元素沿用所在成员的名字
			if err := lintValue(r, member); err != nil {
				return err
			}
		}
	case json.TokenObjectStart:
		if err := r.StartObject(); err != nil {
			return err
		}
		for {
			done, err := r.EndObject()
			if err != nil || done {
				return err
			}
			name, err := r.GetMemberName()
			if err != nil {
				return err
			}
			if err := lintValue(r, name); err != nil {
				return err
			}
		}
	}
	return r.SkipValue()
}
