package review

import (
	"sort"

	"github.com/kmacleod/gavel/internal/rules"
)

// Verdict is the aggregate outcome of a review.
type Verdict string

const (
	// VerdictBlocked means at least one block-severity finding exists.
	VerdictBlocked Verdict = "blocked"
	// VerdictWarned means no blockers, but at least one warn finding.
	VerdictWarned Verdict = "warned"
	// VerdictClean means no block or warn findings.
	VerdictClean Verdict = "clean"
)

// LineRange is an inclusive 1-indexed range of lines.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Finding is one concrete rule violation located in a source unit.
type Finding struct {
	RuleID   string         `json:"ruleId"`
	Severity rules.Severity `json:"severity"`
	Category rules.Category `json:"category"`
	Path     string         `json:"path"`
	Lines    LineRange      `json:"lines"`
	Message  string         `json:"message"`
	Fix      string         `json:"fix,omitempty"`
	Snippet  string         `json:"snippet,omitempty"`
}

// Diagnostic records a rule evaluation that failed. Diagnostics never block
// the review; they degrade its completeness, not its availability.
type Diagnostic struct {
	RuleID string `json:"ruleId"`
	Path   string `json:"path"`
	Error  string `json:"error"`
}

// SeverityCounts holds finding counts by severity tier.
type SeverityCounts struct {
	Block   int `json:"block"`
	Warn    int `json:"warn"`
	Suggest int `json:"suggest"`
}

// Summary provides an overview of a report.
type Summary struct {
	Counts     SeverityCounts `json:"counts"`
	UnitCount  int            `json:"unitCount"`
	RuleCount  int            `json:"ruleCount"`
	FailedEval int            `json:"failedEval"`
}

// Report is the immutable output of one review invocation.
type Report struct {
	Tool        string       `json:"tool"`
	Version     string       `json:"version"`
	RunID       string       `json:"runId"`
	Verdict     Verdict      `json:"verdict"`
	Summary     Summary      `json:"summary"`
	Findings    []Finding    `json:"findings"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// FindingsBySeverity returns the report's findings at the given tier, in
// report order.
func (r *Report) FindingsBySeverity(s rules.Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == s {
			out = append(out, f)
		}
	}
	return out
}

// ComputeVerdict derives the verdict from a set of findings.
func ComputeVerdict(findings []Finding) Verdict {
	verdict := VerdictClean
	for _, f := range findings {
		switch f.Severity {
		case rules.SeverityBlock:
			return VerdictBlocked
		case rules.SeverityWarn:
			verdict = VerdictWarned
		}
	}
	return verdict
}

// ComputeCounts tallies findings by severity.
func ComputeCounts(findings []Finding) SeverityCounts {
	var c SeverityCounts
	for _, f := range findings {
		switch f.Severity {
		case rules.SeverityBlock:
			c.Block++
		case rules.SeverityWarn:
			c.Warn++
		case rules.SeveritySuggest:
			c.Suggest++
		}
	}
	return c
}

// dedupKey identifies a finding for duplicate detection.
type dedupKey struct {
	ruleID string
	path   string
	lines  LineRange
}

// DeduplicateFindings removes findings that share (rule, path, line range),
// keeping the first occurrence's rendering.
func DeduplicateFindings(findings []Finding) []Finding {
	seen := make(map[dedupKey]bool, len(findings))
	out := findings[:0:0]
	for _, f := range findings {
		k := dedupKey{f.RuleID, f.Path, f.Lines}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, f)
	}
	return out
}

// SortFindings orders findings by severity (block first), then path, then
// start line, then rule ID. The order is a deterministic total order.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		ri, rj := rules.SeverityRank(findings[i].Severity), rules.SeverityRank(findings[j].Severity)
		if ri != rj {
			return ri > rj
		}
		if findings[i].Path != findings[j].Path {
			return findings[i].Path < findings[j].Path
		}
		if findings[i].Lines.Start != findings[j].Lines.Start {
			return findings[i].Lines.Start < findings[j].Lines.Start
		}
		return findings[i].RuleID < findings[j].RuleID
	})
}
