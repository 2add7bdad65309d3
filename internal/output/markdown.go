package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/kmacleod/gavel/internal/review"
	"github.com/kmacleod/gavel/internal/rules"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *review.Report) error {
	counts := report.Summary.Counts
	total := counts.Block + counts.Warn + counts.Suggest

	fmt.Fprintf(w, "## Gavel Review — %s\n\n", verdictBadge(report.Verdict))

	fmt.Fprintf(w, "| Severity | Count |\n")
	fmt.Fprintf(w, "|----------|-------|\n")
	fmt.Fprintf(w, "| Block    | %d    |\n", counts.Block)
	fmt.Fprintf(w, "| Warn     | %d    |\n", counts.Warn)
	fmt.Fprintf(w, "| Suggest  | %d    |\n", counts.Suggest)
	fmt.Fprintf(w, "| **Total** | **%d** |\n\n", total)

	if total == 0 {
		fmt.Fprintln(w, "No policy violations found. :white_check_mark:")
	}

	for _, sev := range []rules.Severity{rules.SeverityBlock, rules.SeverityWarn, rules.SeveritySuggest} {
		findings := report.FindingsBySeverity(sev)
		if len(findings) == 0 {
			continue
		}

		fmt.Fprintf(w, "<details>\n<summary>%s %s (%d)</summary>\n\n",
			mdSeverityIcon(sev), strings.ToUpper(string(sev)), len(findings))

		for _, f := range findings {
			fmt.Fprintf(w, "### %s\n\n", f.RuleID)
			fmt.Fprintf(w, "**`%s:%d-%d`** | %s\n\n", f.Path, f.Lines.Start, f.Lines.End, f.Category)
			fmt.Fprintf(w, "%s\n\n", f.Message)
			if f.Snippet != "" {
				fmt.Fprintf(w, "```%s\n%s\n```\n\n", inferLang(f.Path), f.Snippet)
			}
			if f.Fix != "" {
				fmt.Fprintf(w, "**Fix:** %s\n\n", f.Fix)
			}
			fmt.Fprintf(w, "---\n\n")
		}

		fmt.Fprintf(w, "</details>\n\n")
	}

	if len(report.Diagnostics) > 0 {
		fmt.Fprintf(w, "> :warning: %d rule evaluation(s) failed and were skipped.\n\n",
			report.Summary.FailedEval)
	}

	fmt.Fprintf(w, "*Run `%s` — %d rules over %d units*\n",
		report.RunID, report.Summary.RuleCount, report.Summary.UnitCount)

	return nil
}

func verdictBadge(v review.Verdict) string {
	switch v {
	case review.VerdictBlocked:
		return ":no_entry: BLOCKED"
	case review.VerdictWarned:
		return ":warning: WARNED"
	default:
		return ":white_check_mark: CLEAN"
	}
}

func mdSeverityIcon(s rules.Severity) string {
	switch s {
	case rules.SeverityBlock:
		return ":red_circle:"
	case rules.SeverityWarn:
		return ":orange_circle:"
	case rules.SeveritySuggest:
		return ":yellow_circle:"
	default:
		return ":white_circle:"
	}
}

func inferLang(path string) string {
	langMap := map[string]string{
		".go":   "go",
		".py":   "python",
		".js":   "javascript",
		".ts":   "typescript",
		".rs":   "rust",
		".java": "java",
		".rb":   "ruby",
		".cs":   "csharp",
		".php":  "php",
		".sh":   "bash",
		".sql":  "sql",
		".yaml": "yaml",
		".yml":  "yaml",
		".json": "json",
	}
	for ext, lang := range langMap {
		if strings.HasSuffix(path, ext) {
			return lang
		}
	}
	return ""
}
