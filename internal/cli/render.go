package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/cxykevin/contentio/config/structs"
	"github.com/cxykevin/contentio/library/json"
)

// styles 诊断输出样式，plain 时不输出任何转义序列
type styles struct {
	plain    bool
	err      lipgloss.Style
	warn     lipgloss.Style
	location lipgloss.Style
	caret    lipgloss.Style
	fix      lipgloss.Style
	summary  lipgloss.Style
}

func newStyles(theme structs.Theme, noColor bool) styles {
	if noColor {
		return styles{plain: true}
	}
	fg := func(c structs.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
	}
	return styles{
		err:      fg(theme.Error).Bold(true),
		warn:     fg(theme.Warning).Bold(true),
		location: fg(theme.Location),
		caret:    fg(theme.Caret).Bold(true),
		fix:      fg(theme.Fix),
		summary:  fg(theme.Summary),
	}
}

func (s styles) render(st lipgloss.Style, text string) string {
	if s.plain {
		return text
	}
	return st.Render(text)
}

// printer 将诊断渲染到终端，同时计数
type printer struct {
	out      io.Writer
	styles   styles
	mu       sync.Mutex
	errors   int
	warnings int
}

// Report 实现 json.Sink
func (p *printer) Report(d json.Diagnostic) {
	if d.Err == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	label, st := "error:", p.styles.err
	if d.Severity == json.SeverityWarning {
		label, st = "warning:", p.styles.warn
		p.warnings++
	} else {
		p.errors++
	}
	loc := d.Err.Pos.Source + ":EOF"
	if !d.Err.EOF {
		loc = d.Err.Pos.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Json error: %s: %s\n", p.styles.render(st, label), p.styles.render(p.styles.location, loc), d.Err.Message)
	if body, ok := strings.CutPrefix(d.Err.Error(), "Json error: "); ok {
		lines := strings.Split(body, "\n")
		// 第一行是已经输出的标题
		for _, line := range lines[1:] {
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "^":
				b.WriteString(p.styles.render(p.styles.caret, line))
			case strings.HasPrefix(trimmed, "Suggested fix:"):
				b.WriteString(p.styles.render(p.styles.fix, line))
			default:
				b.WriteString(line)
			}
			b.WriteByte('\n')
		}
	}
	io.WriteString(p.out, strings.TrimRight(b.String(), "\n")+"\n")
}

// summary 输出汇总行
func (p *printer) summary(files int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	line := fmt.Sprintf("%d %s checked, %d %s, %d %s",
		files, plural(files, "file"), p.errors, plural(p.errors, "error"), p.warnings, plural(p.warnings, "warning"))
	fmt.Fprintln(p.out, p.styles.render(p.styles.summary, line))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
