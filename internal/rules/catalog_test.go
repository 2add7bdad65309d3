package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patternRule(id string, cat Category, sev Severity, match string) Rule {
	return Rule{
		ID:       id,
		Category: cat,
		Severity: sev,
		Summary:  "test rule " + id,
		Predicate: Predicate{
			Kind:  KindPattern,
			Match: match,
		},
	}
}

func TestNewCatalog_Valid(t *testing.T) {
	catalog, err := NewCatalog([]Rule{
		patternRule("a", CategorySecurity, SeverityBlock, "eval("),
		patternRule("b", CategoryStyle, SeveritySuggest, "TODO"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())
}

func TestNewCatalog_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Rule)
		reason string
	}{
		{"missing id", func(r *Rule) { r.ID = "" }, "missing id"},
		{"missing category", func(r *Rule) { r.Category = "" }, "missing category"},
		{"unknown category", func(r *Rule) { r.Category = "cosmic" }, "unknown category"},
		{"missing severity", func(r *Rule) { r.Severity = "" }, "missing severity"},
		{"unknown severity", func(r *Rule) { r.Severity = "fatal" }, "unknown severity"},
		{"missing predicate kind", func(r *Rule) { r.Predicate.Kind = "" }, "missing predicate kind"},
		{"unknown predicate kind", func(r *Rule) { r.Predicate.Kind = "ast" }, "unknown predicate kind"},
		{"pattern without match", func(r *Rule) { r.Predicate.Match = "" }, "missing match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := patternRule("x", CategorySecurity, SeverityWarn, "foo")
			tt.mutate(&r)

			_, err := NewCatalog([]Rule{r})
			require.Error(t, err)

			var malformed *MalformedRuleError
			require.ErrorAs(t, err, &malformed)
			assert.Contains(t, malformed.Reason, tt.reason)
		})
	}
}

func TestNewCatalog_StructuralValidation(t *testing.T) {
	r := Rule{
		ID:       "struct",
		Category: CategorySecurity,
		Severity: SeverityBlock,
		Predicate: Predicate{
			Kind:        KindStructural,
			Trigger:     `\[HttpGet`,
			WithinLines: 2,
		},
	}
	_, err := NewCatalog([]Rule{r})
	var malformed *MalformedRuleError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Reason, "missing companion")
}

func TestNewCatalog_DuplicateID(t *testing.T) {
	_, err := NewCatalog([]Rule{
		patternRule("dup", CategorySecurity, SeverityBlock, "a"),
		patternRule("dup", CategoryStyle, SeveritySuggest, "b"),
	})
	var malformed *MalformedRuleError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "dup", malformed.ID)
	assert.Contains(t, malformed.Reason, "duplicate id")
}

func TestNewCatalog_StyleCannotBlock(t *testing.T) {
	_, err := NewCatalog([]Rule{
		patternRule("style-blocker", CategoryStyle, SeverityBlock, "fmt"),
	})
	require.Error(t, err)

	var invalid *InvalidSeverityForCategoryError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "style-blocker", invalid.ID)
	assert.Equal(t, CategoryStyle, invalid.Category)
	assert.Equal(t, SeverityBlock, invalid.Severity)
}

func TestNewCatalog_NoPartialCatalog(t *testing.T) {
	catalog, err := NewCatalog([]Rule{
		patternRule("good", CategorySecurity, SeverityBlock, "a"),
		{ID: "bad", Category: CategorySecurity}, // missing severity
	})
	require.Error(t, err)
	assert.Nil(t, catalog)
}

func TestCatalog_RulesOrderAndFilter(t *testing.T) {
	catalog, err := NewCatalog([]Rule{
		patternRule("r1", CategorySecurity, SeverityBlock, "a"),
		patternRule("r2", CategoryStyle, SeveritySuggest, "b"),
		patternRule("r3", CategorySecurity, SeverityWarn, "c"),
	})
	require.NoError(t, err)

	all := catalog.Rules()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"r1", "r2", "r3"}, []string{all[0].ID, all[1].ID, all[2].ID})

	sec := catalog.Rules(CategorySecurity)
	require.Len(t, sec, 2)
	assert.Equal(t, "r1", sec[0].ID)
	assert.Equal(t, "r3", sec[1].ID)

	none := catalog.Rules(CategoryPerformance)
	assert.Empty(t, none)
}

func TestCatalog_Lookup(t *testing.T) {
	catalog, err := NewCatalog([]Rule{patternRule("here", CategoryStyle, SeveritySuggest, "x")})
	require.NoError(t, err)

	r, ok := catalog.Lookup("here")
	require.True(t, ok)
	assert.Equal(t, "here", r.ID)

	_, ok = catalog.Lookup("missing")
	assert.False(t, ok)
}

func TestCatalog_Digest(t *testing.T) {
	c1, err := NewCatalog([]Rule{patternRule("a", CategorySecurity, SeverityBlock, "x")})
	require.NoError(t, err)
	c2, err := NewCatalog([]Rule{patternRule("a", CategorySecurity, SeverityBlock, "x")})
	require.NoError(t, err)
	c3, err := NewCatalog([]Rule{patternRule("a", CategorySecurity, SeverityBlock, "y")})
	require.NoError(t, err)

	assert.Equal(t, c1.Digest(), c2.Digest())
	assert.NotEqual(t, c1.Digest(), c3.Digest())
}

func TestSeverityRank(t *testing.T) {
	assert.Greater(t, SeverityRank(SeverityBlock), SeverityRank(SeverityWarn))
	assert.Greater(t, SeverityRank(SeverityWarn), SeverityRank(SeveritySuggest))
	assert.Equal(t, 0, SeverityRank(Severity("bogus")))
}
