package cli

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/cxykevin/contentio/config"
	"github.com/cxykevin/contentio/library/json"
	"github.com/cxykevin/contentio/library/rle"
	"github.com/cxykevin/contentio/product"
)

func runFmt(e *env, args []string) int {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	write := fs.Bool("w", false, "write result to the source file instead of stdout")
	collapse := fs.Bool("rle", false, "collapse runs of equivalent array elements")
	rule := fs.String("rule", config.GlobalConfig.RLE.Rule, "equivalence rule used by -rle")
	indent := fs.String("indent", config.GlobalConfig.Format.Indent, "indent per level, empty for compact output")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(e.stderr, "usage: contentio fmt [-w] [-rle] [-rule expr] [-indent s] files...")
		return exitUsage
	}

	var c *collapser
	if *collapse {
		compiled, err := rle.CompileRule(*rule)
		if err != nil {
			fmt.Fprintf(e.stderr, "%s: %v\n", product.Name, err)
			return exitUsage
		}
		c = newCollapser(compiled, config.GlobalConfig.RLE.MaxRun)
	}

	// 格式化结果可能写到 stdout，诊断统一写到 stderr
	p := e.newPrinter(e.stderr)
	j := e.openJournal("fmt")
	defer closeJournal(e, j)
	s := sink(p, j)

	code := exitOK
	for _, path := range files {
		out, size, ok := formatFile(e, path, config.ReaderOptions(path, s), *indent, c)
		if j != nil {
			j.AddFile(path, size, !ok)
		}
		if !ok {
			code = exitFound
			continue
		}
		if *write {
			if err := writeIfChanged(path, out); err != nil {
				fmt.Fprintf(e.stderr, "%s: %v\n", product.Name, err)
				code = exitFound
			}
			continue
		}
		e.stdout.Write(out)
	}
	return code
}

// formatFile 读取并重新输出一个文件，失败时诊断已经报告
func formatFile(e *env, path string, opts json.Options, indent string, c *collapser) (out []byte, size int64, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(e.stderr, "%s: %v\n", product.Name, err)
		return nil, 0, false
	}
	defer f.Close()
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	r, err := json.ReadSource(f, opts)
	if err != nil {
		fmt.Fprintf(e.stderr, "%s: %s: %v\n", product.Name, path, err)
		return nil, size, false
	}
	v, err := r.GetValue()
	if err == nil {
		err = r.Finish()
	}
	if err != nil {
		r.Report(json.SeverityError, err)
		return nil, size, false
	}

	var buf bytes.Buffer
	w := json.NewIndentWriter(&buf, indent)
	if c != nil {
		c.write(w, v)
	} else {
		w.Value(v)
	}
	if err := w.Err(); err != nil {
		fmt.Fprintf(e.stderr, "%s: %s: %v\n", product.Name, path, err)
		return nil, size, false
	}
	buf.WriteByte('\n')
	return buf.Bytes(), size, true
}

func writeIfChanged(path string, out []byte) error {
	old, err := os.ReadFile(path)
	if err == nil && bytes.Equal(old, out) {
		return nil
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, out, mode)
}

// collapser 递归折叠所有数组
type collapser struct {
	codec rle.Codec[json.Value]
}

func newCollapser(rule *rle.Rule, maxRun int) *collapser {
	c := &collapser{codec: rle.ValueCodec(rule)}
	c.codec.MaxRun = maxRun
	c.codec.Write = c.write
	return c
}

func (c *collapser) write(w *json.Writer, v json.Value) {
	switch v.Kind() {
	case json.KindArray:
		rle.Write(w, v.Elements(), c.codec)
	case json.KindObject:
		w.StartObject()
		for _, m := range v.Members() {
			w.Name(m.Name)
			c.write(w, m.Value)
		}
		w.EndObject()
	default:
		w.Value(v)
	}
}
