package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/kmacleod/gavel/internal/review"
	"github.com/kmacleod/gavel/internal/rules"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}
	counts := report.Summary.Counts
	total := counts.Block + counts.Warn + counts.Suggest

	ew.printf("Gavel Review — verdict: %s\n", strings.ToUpper(string(report.Verdict)))
	ew.printf("Rules: %d | Units: %d\n", report.Summary.RuleCount, report.Summary.UnitCount)
	ew.println(strings.Repeat("─", 60))
	ew.printf("Findings: %d total", total)
	if total > 0 {
		ew.printf(" (%d block, %d warn, %d suggest)", counts.Block, counts.Warn, counts.Suggest)
	}
	ew.println("")
	ew.println(strings.Repeat("─", 60))

	if total == 0 {
		ew.println("\nNo policy violations found.")
	}

	for _, sev := range []rules.Severity{rules.SeverityBlock, rules.SeverityWarn, rules.SeveritySuggest} {
		findings := report.FindingsBySeverity(sev)
		if len(findings) == 0 {
			continue
		}

		ew.printf("\n%s %s\n", severityIcon(sev), strings.ToUpper(string(sev)))
		ew.println(strings.Repeat("─", 40))

		for _, f := range findings {
			ew.printf("\n  %s:%d-%d  [%s] %s\n",
				f.Path, f.Lines.Start, f.Lines.End, f.RuleID, f.Category)
			for _, line := range wrapText(f.Message, 70) {
				ew.printf("    %s\n", line)
			}
			if f.Snippet != "" {
				ew.printf("    > %s\n", f.Snippet)
			}
			if f.Fix != "" {
				ew.println("  Fix:")
				for _, line := range wrapText(f.Fix, 70) {
					ew.printf("    %s\n", line)
				}
			}
		}
	}

	if len(report.Diagnostics) > 0 {
		ew.printf("\n%s\n", strings.Repeat("─", 60))
		ew.printf("Diagnostics: %d rule evaluation(s) failed\n", report.Summary.FailedEval)
		for _, d := range report.Diagnostics {
			ew.printf("  %s on %s: %s\n", d.RuleID, d.Path, d.Error)
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Run %s\n", report.RunID)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func severityIcon(s rules.Severity) string {
	switch s {
	case rules.SeverityBlock:
		return "[!!]"
	case rules.SeverityWarn:
		return "[!]"
	case rules.SeveritySuggest:
		return "[-]"
	default:
		return "[?]"
	}
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
