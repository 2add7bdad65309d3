package rules

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// Catalog is an immutable, validated set of rules in definition order.
type Catalog struct {
	rules  []Rule
	byID   map[string]int
	digest string
}

// NewCatalog validates the given definitions and builds a catalog. Any
// invalid definition aborts construction; no partial catalog is produced.
func NewCatalog(defs []Rule) (*Catalog, error) {
	byID := make(map[string]int, len(defs))
	rules := make([]Rule, 0, len(defs))
	for i, def := range defs {
		if err := def.validate(i); err != nil {
			return nil, err
		}
		if prev, ok := byID[def.ID]; ok {
			return nil, &MalformedRuleError{
				Index:  i,
				ID:     def.ID,
				Reason: fmt.Sprintf("duplicate id (first defined at index %d)", prev),
			}
		}
		byID[def.ID] = i
		rules = append(rules, def)
	}

	c := &Catalog{rules: rules, byID: byID}
	c.digest = computeDigest(rules)
	return c, nil
}

// Len returns the number of rules in the catalog.
func (c *Catalog) Len() int {
	return len(c.rules)
}

// Rules returns the catalog's rules in definition order. If categories are
// given, only rules in those categories are returned. The returned slice is
// freshly allocated; callers may not mutate catalog state through it.
func (c *Catalog) Rules(categories ...Category) []Rule {
	if len(categories) == 0 {
		out := make([]Rule, len(c.rules))
		copy(out, c.rules)
		return out
	}
	want := make(map[Category]bool, len(categories))
	for _, cat := range categories {
		want[cat] = true
	}
	var out []Rule
	for _, r := range c.rules {
		if want[r.Category] {
			out = append(out, r)
		}
	}
	return out
}

// Lookup returns the rule with the given ID.
func (c *Catalog) Lookup(id string) (Rule, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Rule{}, false
	}
	return c.rules[i], true
}

// Digest is a stable content hash of the catalog, suitable for cache keys.
func (c *Catalog) Digest() string {
	return c.digest
}

func computeDigest(rules []Rule) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, r := range rules {
		// Rule contains only plain data fields; encoding cannot fail.
		_ = enc.Encode(r)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
