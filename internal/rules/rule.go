package rules

import "fmt"

// Severity is the three-tier review outcome a rule can demand.
type Severity string

const (
	SeverityBlock   Severity = "block"
	SeverityWarn    Severity = "warn"
	SeveritySuggest Severity = "suggest"
)

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityBlock:
		return 3
	case SeverityWarn:
		return 2
	case SeveritySuggest:
		return 1
	default:
		return 0
	}
}

// ValidSeverity reports whether s is one of the three known tiers.
func ValidSeverity(s Severity) bool {
	return SeverityRank(s) > 0
}

// Category groups rules by the concern they police.
type Category string

const (
	CategorySecurity    Category = "security"
	CategoryReliability Category = "reliability"
	CategoryStyle       Category = "style"
	CategoryPerformance Category = "performance"
)

// ValidCategory reports whether c is a known category.
func ValidCategory(c Category) bool {
	switch c {
	case CategorySecurity, CategoryReliability, CategoryStyle, CategoryPerformance:
		return true
	}
	return false
}

// PredicateKind names a detection predicate form.
type PredicateKind string

const (
	// KindPattern matches a substring or regular expression line by line.
	KindPattern PredicateKind = "pattern"
	// KindStructural matches a trigger line whose companion marker is
	// missing within a surrounding line window.
	KindStructural PredicateKind = "structural"
)

// Predicate is the declarative detection condition of a rule. It is data,
// not code: the matcher interprets it by kind.
type Predicate struct {
	Kind PredicateKind `yaml:"kind" json:"kind"`

	// Pattern predicate parameters.
	Match     string `yaml:"match,omitempty" json:"match,omitempty"`
	Regexp    bool   `yaml:"regexp,omitempty" json:"regexp,omitempty"`
	AddedOnly bool   `yaml:"addedOnly,omitempty" json:"addedOnly,omitempty"`

	// Structural predicate parameters. Trigger and Companion are regular
	// expressions; WithinLines bounds how far from the trigger the
	// companion may appear (both directions).
	Trigger     string `yaml:"trigger,omitempty" json:"trigger,omitempty"`
	Companion   string `yaml:"companion,omitempty" json:"companion,omitempty"`
	WithinLines int    `yaml:"withinLines,omitempty" json:"withinLines,omitempty"`
}

// Rule is a single review policy check. Rules are immutable once loaded into
// a catalog.
type Rule struct {
	ID        string    `yaml:"id" json:"id"`
	Category  Category  `yaml:"category" json:"category"`
	Severity  Severity  `yaml:"severity" json:"severity"`
	Summary   string    `yaml:"summary" json:"summary"`
	Rationale string    `yaml:"rationale,omitempty" json:"rationale,omitempty"`
	Predicate Predicate `yaml:"predicate" json:"predicate"`
	Fix       string    `yaml:"fix,omitempty" json:"fix,omitempty"`
	Refs      []string  `yaml:"refs,omitempty" json:"refs,omitempty"`
}

// MalformedRuleError reports a structurally invalid rule definition. It is
// fatal to catalog construction.
type MalformedRuleError struct {
	Index  int
	ID     string
	Reason string
}

func (e *MalformedRuleError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("malformed rule %q: %s", e.ID, e.Reason)
	}
	return fmt.Sprintf("malformed rule at index %d: %s", e.Index, e.Reason)
}

// InvalidSeverityForCategoryError reports a rule whose severity is not
// permitted for its category. Style rules can never block a review.
type InvalidSeverityForCategoryError struct {
	ID       string
	Category Category
	Severity Severity
}

func (e *InvalidSeverityForCategoryError) Error() string {
	return fmt.Sprintf("rule %q: severity %q is not allowed for category %q",
		e.ID, e.Severity, e.Category)
}

// validate checks a single rule definition. idx is the definition position,
// used when the rule has no ID to name.
func (r *Rule) validate(idx int) error {
	if r.ID == "" {
		return &MalformedRuleError{Index: idx, Reason: "missing id"}
	}
	if r.Category == "" {
		return &MalformedRuleError{Index: idx, ID: r.ID, Reason: "missing category"}
	}
	if !ValidCategory(r.Category) {
		return &MalformedRuleError{Index: idx, ID: r.ID, Reason: fmt.Sprintf("unknown category %q", r.Category)}
	}
	if r.Severity == "" {
		return &MalformedRuleError{Index: idx, ID: r.ID, Reason: "missing severity"}
	}
	if !ValidSeverity(r.Severity) {
		return &MalformedRuleError{Index: idx, ID: r.ID, Reason: fmt.Sprintf("unknown severity %q", r.Severity)}
	}
	if r.Category == CategoryStyle && r.Severity == SeverityBlock {
		return &InvalidSeverityForCategoryError{ID: r.ID, Category: r.Category, Severity: r.Severity}
	}
	return r.Predicate.validate(idx, r.ID)
}

func (p *Predicate) validate(idx int, id string) error {
	switch p.Kind {
	case KindPattern:
		if p.Match == "" {
			return &MalformedRuleError{Index: idx, ID: id, Reason: "pattern predicate missing match"}
		}
	case KindStructural:
		if p.Trigger == "" {
			return &MalformedRuleError{Index: idx, ID: id, Reason: "structural predicate missing trigger"}
		}
		if p.Companion == "" {
			return &MalformedRuleError{Index: idx, ID: id, Reason: "structural predicate missing companion"}
		}
		if p.WithinLines < 0 {
			return &MalformedRuleError{Index: idx, ID: id, Reason: "withinLines must not be negative"}
		}
	case "":
		return &MalformedRuleError{Index: idx, ID: id, Reason: "missing predicate kind"}
	default:
		return &MalformedRuleError{Index: idx, ID: id, Reason: fmt.Sprintf("unknown predicate kind %q", p.Kind)}
	}
	return nil
}
