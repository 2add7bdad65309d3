package review

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kmacleod/gavel/internal/redact"
	"github.com/kmacleod/gavel/internal/rules"
	"github.com/kmacleod/gavel/internal/source"
)

// EvalError reports the failure of one rule's predicate against one unit.
// It is isolated to that (rule, unit) pair and never aborts the rest of a
// review.
type EvalError struct {
	RuleID string
	Path   string
	Err    error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("rule %q on %s: %v", e.RuleID, e.Path, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// EvalOptions scopes a single rule evaluation.
type EvalOptions struct {
	// DiffOnly restricts matching to lines the unit's diff metadata marks
	// as added.
	DiffOnly bool
}

// EvaluateRule applies one rule's predicate to one unit and returns the
// resulting findings, in ascending line order. Evaluation is pure: the same
// inputs always yield the same findings, which is what makes report caching
// and the lock-free parallel matrix sound.
func EvaluateRule(rule rules.Rule, unit *source.Unit, opts EvalOptions) ([]Finding, error) {
	var (
		findings []Finding
		err      error
	)
	switch rule.Predicate.Kind {
	case rules.KindPattern:
		findings, err = evalPattern(rule, unit, opts)
	case rules.KindStructural:
		findings, err = evalStructural(rule, unit, opts)
	default:
		err = fmt.Errorf("unknown predicate kind %q", rule.Predicate.Kind)
	}
	if err != nil {
		return nil, &EvalError{RuleID: rule.ID, Path: unit.Path(), Err: err}
	}
	return findings, nil
}

func evalPattern(rule rules.Rule, unit *source.Unit, opts EvalOptions) ([]Finding, error) {
	pred := rule.Predicate
	match := matchSubstring(pred.Match)
	if pred.Regexp {
		re, err := regexp.Compile(pred.Match)
		if err != nil {
			return nil, fmt.Errorf("compiling match pattern: %w", err)
		}
		match = re.FindString
	}

	addedOnly := opts.DiffOnly || pred.AddedOnly

	var findings []Finding
	for n := 1; n <= unit.LineCount(); n++ {
		if addedOnly && !unit.IsAdded(n) {
			continue
		}
		line, err := unit.Line(n)
		if err != nil {
			return nil, err
		}
		hit := match(line)
		if hit == "" {
			continue
		}
		findings = append(findings, newFinding(rule, unit, n, hit, line))
	}
	return findings, nil
}

// evalStructural reports trigger lines whose companion marker is absent
// within the configured window, clipped to the unit's bounds.
func evalStructural(rule rules.Rule, unit *source.Unit, opts EvalOptions) ([]Finding, error) {
	pred := rule.Predicate
	trigger, err := regexp.Compile(pred.Trigger)
	if err != nil {
		return nil, fmt.Errorf("compiling trigger pattern: %w", err)
	}
	companion, err := regexp.Compile(pred.Companion)
	if err != nil {
		return nil, fmt.Errorf("compiling companion pattern: %w", err)
	}

	window := pred.WithinLines
	if window == 0 {
		window = 1
	}

	var findings []Finding
	for n := 1; n <= unit.LineCount(); n++ {
		if opts.DiffOnly && !unit.IsAdded(n) {
			continue
		}
		line, lineErr := unit.Line(n)
		if lineErr != nil {
			return nil, lineErr
		}
		hit := trigger.FindString(line)
		if hit == "" {
			continue
		}
		if companionNearby(companion, unit, n, window) {
			continue
		}
		findings = append(findings, newFinding(rule, unit, n, hit, line))
	}
	return findings, nil
}

func companionNearby(companion *regexp.Regexp, unit *source.Unit, at, window int) bool {
	start := at - window
	if start < 1 {
		start = 1
	}
	end := at + window
	if end > unit.LineCount() {
		end = unit.LineCount()
	}
	for n := start; n <= end; n++ {
		line, err := unit.Line(n)
		if err != nil {
			return false
		}
		if companion.MatchString(line) {
			return true
		}
	}
	return false
}

func newFinding(rule rules.Rule, unit *source.Unit, line int, match, text string) Finding {
	return Finding{
		RuleID:   rule.ID,
		Severity: rule.Severity,
		Category: rule.Category,
		Path:     unit.Path(),
		Lines:    LineRange{Start: line, End: line},
		Message:  renderTemplate(rule.Summary, unit.Path(), line, match),
		Fix:      renderTemplate(rule.Fix, unit.Path(), line, match),
		Snippet:  redact.Line(strings.TrimSpace(text)),
	}
}

// renderTemplate expands the {path}, {line}, and {match} placeholders that
// rule message and fix templates may carry.
func renderTemplate(tmpl, path string, line int, match string) string {
	if tmpl == "" {
		return ""
	}
	return strings.NewReplacer(
		"{path}", path,
		"{line}", strconv.Itoa(line),
		"{match}", match,
	).Replace(tmpl)
}

// matchSubstring returns a matcher that reports the literal substring when
// present in a line.
func matchSubstring(sub string) func(string) string {
	return func(line string) string {
		if strings.Contains(line, sub) {
			return sub
		}
		return ""
	}
}
