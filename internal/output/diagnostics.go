package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/panbanda/selectorlint/pkg/analyzer/bycss"
	"github.com/panbanda/selectorlint/pkg/selector"
)

// DiagnosticsReport renders the result of a lint run, grouped by file.
type DiagnosticsReport struct {
	Analysis *bycss.Analysis
}

// NewDiagnosticsReport wraps an analysis for rendering.
func NewDiagnosticsReport(a *bycss.Analysis) *DiagnosticsReport {
	return &DiagnosticsReport{Analysis: a}
}

func (r *DiagnosticsReport) RenderData() any {
	return r.Analysis
}

func (r *DiagnosticsReport) RenderText(w io.Writer, colored bool) error {
	diags := r.Analysis.Diagnostics
	for start := 0; start < len(diags); {
		end := start
		for end < len(diags) && diags[end].File == diags[start].File {
			end++
		}

		if colored {
			color.New(color.Underline).Fprintln(w, diags[start].File)
		} else {
			fmt.Fprintln(w, diags[start].File)
		}

		table := newPlainTable(w)
		for _, d := range diags[start:end] {
			kind := string(d.Kind)
			if colored {
				kind = kindColor(d.Kind).Sprint(kind)
			}
			table.Append([]string{fmt.Sprintf("%d:%d", d.Line, d.Column), kind, d.Message})
		}
		table.Render()
		fmt.Fprintln(w)
		start = end
	}

	summary := r.summaryLine()
	switch {
	case !colored:
		fmt.Fprintln(w, summary)
	case r.Analysis.Summary.TotalDiagnostics == 0:
		color.New(color.FgGreen).Fprintln(w, summary)
	default:
		color.New(color.FgRed, color.Bold).Fprintln(w, summary)
	}
	return nil
}

func (r *DiagnosticsReport) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "## Selector Lint\n\n")

	if len(r.Analysis.Diagnostics) > 0 {
		fmt.Fprintln(w, "| File | Line | Rule | Message | Source |")
		fmt.Fprintln(w, "| --- | --- | --- | --- | --- |")
		for _, d := range r.Analysis.Diagnostics {
			fmt.Fprintf(w, "| %s | %d:%d | %s | %s | `%s` |\n",
				d.File, d.Line, d.Column, d.Kind, d.Message, markdownCell(d.Source))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, r.summaryLine())
	fmt.Fprintln(w)
	return nil
}

func (r *DiagnosticsReport) summaryLine() string {
	s := r.Analysis.Summary
	if s.TotalDiagnostics == 0 {
		return fmt.Sprintf("No selector problems in %s.", plural(s.FilesAnalyzed, "file"))
	}

	parts := make([]string, 0, len(selector.Kinds))
	for _, k := range selector.Kinds {
		if n := s.ByKind[string(k)]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	return fmt.Sprintf("%s (%s) in %s.",
		plural(s.TotalDiagnostics, "problem"), strings.Join(parts, ", "), plural(s.FilesWithDiagnostics, "file"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// markdownCell flattens text for use inside a table cell.
func markdownCell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "`", "'")
}

// kindColor returns the text style for a diagnostic kind.
func kindColor(k selector.Kind) *color.Color {
	if k == selector.NoClasses {
		return color.New(color.FgRed)
	}
	return color.New(color.FgYellow)
}
