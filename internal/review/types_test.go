package review

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kmacleod/gavel/internal/rules"
)

func TestComputeVerdict(t *testing.T) {
	tests := []struct {
		name     string
		findings []Finding
		want     Verdict
	}{
		{"no findings", nil, VerdictClean},
		{"suggest only", []Finding{{Severity: rules.SeveritySuggest}}, VerdictClean},
		{"warn present", []Finding{{Severity: rules.SeveritySuggest}, {Severity: rules.SeverityWarn}}, VerdictWarned},
		{"block wins", []Finding{{Severity: rules.SeverityWarn}, {Severity: rules.SeverityBlock}}, VerdictBlocked},
		{"single block", []Finding{{Severity: rules.SeverityBlock}}, VerdictBlocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeVerdict(tt.findings))
		})
	}
}

func TestComputeCounts(t *testing.T) {
	findings := []Finding{
		{Severity: rules.SeverityBlock},
		{Severity: rules.SeverityWarn},
		{Severity: rules.SeverityWarn},
		{Severity: rules.SeveritySuggest},
	}
	c := ComputeCounts(findings)
	assert.Equal(t, 1, c.Block)
	assert.Equal(t, 2, c.Warn)
	assert.Equal(t, 1, c.Suggest)
}

func TestDeduplicateFindings(t *testing.T) {
	findings := []Finding{
		{RuleID: "r", Path: "a.cs", Lines: LineRange{1, 1}, Message: "first"},
		{RuleID: "r", Path: "a.cs", Lines: LineRange{1, 1}, Message: "second"},
		{RuleID: "r", Path: "a.cs", Lines: LineRange{2, 2}, Message: "other line"},
		{RuleID: "s", Path: "a.cs", Lines: LineRange{1, 1}, Message: "other rule"},
	}
	out := DeduplicateFindings(findings)
	assert.Len(t, out, 3)
	// First occurrence's rendering wins.
	assert.Equal(t, "first", out[0].Message)
}

func TestSortFindings(t *testing.T) {
	findings := []Finding{
		{RuleID: "b", Severity: rules.SeveritySuggest, Path: "z.cs", Lines: LineRange{1, 1}},
		{RuleID: "a", Severity: rules.SeverityBlock, Path: "z.cs", Lines: LineRange{9, 9}},
		{RuleID: "c", Severity: rules.SeverityBlock, Path: "a.cs", Lines: LineRange{5, 5}},
		{RuleID: "d", Severity: rules.SeverityWarn, Path: "a.cs", Lines: LineRange{2, 2}},
		{RuleID: "e", Severity: rules.SeverityBlock, Path: "a.cs", Lines: LineRange{1, 1}},
	}
	SortFindings(findings)

	ids := make([]string, len(findings))
	for i, f := range findings {
		ids[i] = f.RuleID
	}
	// block first (by path then line), then warn, then suggest.
	assert.Equal(t, []string{"e", "c", "a", "d", "b"}, ids)
}

func TestSortFindings_TieBreakOnRuleID(t *testing.T) {
	findings := []Finding{
		{RuleID: "zz", Severity: rules.SeverityWarn, Path: "a.cs", Lines: LineRange{3, 3}},
		{RuleID: "aa", Severity: rules.SeverityWarn, Path: "a.cs", Lines: LineRange{3, 3}},
	}
	SortFindings(findings)
	assert.Equal(t, "aa", findings[0].RuleID)
}

func TestFindingsBySeverity(t *testing.T) {
	report := &Report{
		Findings: []Finding{
			{RuleID: "a", Severity: rules.SeverityBlock},
			{RuleID: "b", Severity: rules.SeverityWarn},
			{RuleID: "c", Severity: rules.SeverityBlock},
		},
	}
	blocks := report.FindingsBySeverity(rules.SeverityBlock)
	assert.Len(t, blocks, 2)
	assert.Equal(t, "a", blocks[0].RuleID)
	assert.Equal(t, "c", blocks[1].RuleID)
	assert.Empty(t, report.FindingsBySeverity(rules.SeveritySuggest))
}
