package cli

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/cxykevin/contentio/product"
	"github.com/cxykevin/contentio/storage"
	"github.com/cxykevin/contentio/storage/structs"
	"gorm.io/gorm"
)

func runJournal(e *env, args []string) int {
	fs := flag.NewFlagSet("journal", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	runID := fs.Uint("run", 0, "run to show, 0 for the latest")
	source := fs.String("source", "", "only show diagnostics of this source")
	warnings := fs.Bool("warnings", false, "only show warnings")
	errs := fs.Bool("errors", false, "only show errors")
	limit := fs.Int("limit", 0, "maximum number of rows, 0 for no limit")
	summary := fs.Bool("summary", false, "count diagnostics per source")
	runs := fs.Bool("runs", false, "list recorded runs")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	db, ok := openDB(e)
	if !ok {
		return exitFound
	}
	if *runs {
		return listRuns(e, db, *limit)
	}

	id := uint32(*runID)
	if id == 0 {
		last, err := storage.LastRun(db)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Fprintln(e.stdout, "no runs recorded")
			return exitOK
		}
		if err != nil {
			fmt.Fprintf(e.stderr, "%s: %v\n", product.Name, err)
			return exitFound
		}
		id = last.ID
	}

	if *summary {
		counts, err := storage.CountBySource(db, id)
		if err != nil {
			fmt.Fprintf(e.stderr, "%s: %v\n", product.Name, err)
			return exitFound
		}
		t := e.newTable("SOURCE", "ERRORS", "WARNINGS")
		for _, c := range counts {
			t.Row(c.Source, strconv.FormatInt(c.Errors, 10), strconv.FormatInt(c.Warnings, 10))
		}
		fmt.Fprintln(e.stdout, t.Render())
		return exitOK
	}

	rows, err := storage.ListDiagnostics(db, storage.ListFilter{
		RunID:    id,
		Source:   *source,
		Warnings: *warnings,
		Errors:   *errs,
		Limit:    *limit,
	})
	if err != nil {
		fmt.Fprintf(e.stderr, "%s: %v\n", product.Name, err)
		return exitFound
	}
	// 重新渲染记录下来的诊断文本
	st := e.newPrinter(e.stdout).styles
	for _, row := range rows {
		label, style := "error:", st.err
		if row.Severity == structs.DiagnosticsSeverityWarning {
			label, style = "warning:", st.warn
		}
		fmt.Fprintf(e.stdout, "%s %s\n", st.render(style, label), row.Text)
	}
	return exitOK
}

func listRuns(e *env, db *gorm.DB, limit int) int {
	runs, err := storage.ListRuns(db, limit)
	if err != nil {
		fmt.Fprintf(e.stderr, "%s: %v\n", product.Name, err)
		return exitFound
	}
	t := e.newTable("RUN", "COMMAND", "TIME", "FILES", "ERRORS", "WARNINGS")
	for _, r := range runs {
		t.Row(
			strconv.FormatUint(uint64(r.ID), 10),
			r.Command,
			time.Unix(int64(r.Time), 0).Format("2006-01-02 15:04:05"),
			strconv.Itoa(int(r.Files)),
			strconv.Itoa(int(r.Errors)),
			strconv.Itoa(int(r.Warnings)),
		)
	}
	fmt.Fprintln(e.stdout, t.Render())
	return exitOK
}

// newTable 汇总表格，无颜色时只保留边框
func (e *env) newTable(headers ...string) *table.Table {
	t := table.New().Border(lipgloss.NormalBorder()).Headers(headers...)
	if e.noColor {
		return t
	}
	st := e.newPrinter(e.stdout).styles
	return t.StyleFunc(func(row, col int) lipgloss.Style {
		s := lipgloss.NewStyle().Padding(0, 1)
		if row == table.HeaderRow {
			return s.Inherit(st.summary).Bold(true)
		}
		return s
	})
}
