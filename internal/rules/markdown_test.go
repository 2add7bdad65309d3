package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMarkdownRules(t *testing.T) {
	doc := []byte("# Security policy\n" +
		"\n" +
		"Never concatenate SQL.\n" +
		"\n" +
		"```gavel-rule\n" +
		"id: sec-sql-concat\n" +
		"category: security\n" +
		"severity: block\n" +
		"summary: SQL concatenation\n" +
		"predicate:\n" +
		"  kind: pattern\n" +
		"  match: '\" +'\n" +
		"```\n" +
		"\n" +
		"An unrelated code sample:\n" +
		"\n" +
		"```csharp\n" +
		"var q = \"SELECT * FROM Users\";\n" +
		"```\n" +
		"\n" +
		"```gavel-rule\n" +
		"id: rel-blocking\n" +
		"category: reliability\n" +
		"severity: warn\n" +
		"summary: blocking call\n" +
		"predicate:\n" +
		"  kind: pattern\n" +
		"  match: .Result\n" +
		"```\n")

	rules, err := ExtractMarkdownRules(doc)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "sec-sql-concat", rules[0].ID)
	assert.Equal(t, "rel-blocking", rules[1].ID)
	assert.Equal(t, SeverityWarn, rules[1].Severity)
}

func TestExtractMarkdownRules_NoBlocks(t *testing.T) {
	rules, err := ExtractMarkdownRules([]byte("# Just prose\n\nNothing to see.\n"))
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestExtractMarkdownRules_BadYAML(t *testing.T) {
	doc := []byte("```gavel-rule\nid: [broken\n```\n")
	_, err := ExtractMarkdownRules(doc)
	require.Error(t, err)
}
