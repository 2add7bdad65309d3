package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinCatalog(t *testing.T) {
	catalog, err := BuiltinCatalog()
	require.NoError(t, err)
	assert.Greater(t, catalog.Len(), 0)

	r, ok := catalog.Lookup("sec-sql-concat")
	require.True(t, ok)
	assert.Equal(t, CategorySecurity, r.Category)
	assert.Equal(t, SeverityBlock, r.Severity)

	// The builtin pack must itself satisfy the catalog policy: no style
	// rule may block.
	for _, r := range catalog.Rules(CategoryStyle) {
		assert.NotEqual(t, SeverityBlock, r.Severity, "style rule %s", r.ID)
	}
}
