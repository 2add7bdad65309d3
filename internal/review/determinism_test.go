package review

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/kmacleod/gavel/internal/rules"
	"github.com/kmacleod/gavel/internal/source"
)

// genCatalog draws a small catalog of substring pattern rules over a tiny
// token alphabet so matches are frequent.
func genCatalog(t *rapid.T) *rules.Catalog {
	tokens := []string{"ToList()", "SELECT", "TODO", "password", "Wait()"}
	severities := []rules.Severity{rules.SeverityBlock, rules.SeverityWarn, rules.SeveritySuggest}
	categories := []rules.Category{rules.CategorySecurity, rules.CategoryReliability, rules.CategoryPerformance}

	n := rapid.IntRange(1, 4).Draw(t, "ruleCount")
	defs := make([]rules.Rule, 0, n)
	for i := 0; i < n; i++ {
		defs = append(defs, rules.Rule{
			ID:       fmt.Sprintf("rule-%d", i),
			Category: rapid.SampledFrom(categories).Draw(t, "category"),
			Severity: rapid.SampledFrom(severities).Draw(t, "severity"),
			Summary:  "hit {match} at {path}:{line}",
			Predicate: rules.Predicate{
				Kind:  rules.KindPattern,
				Match: rapid.SampledFrom(tokens).Draw(t, "token"),
			},
		})
	}
	catalog, err := rules.NewCatalog(defs)
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}
	return catalog
}

func genUnits(t *rapid.T) []*source.Unit {
	lines := []string{
		"var q = db.Query(sql).ToList();",
		`var s = "SELECT * FROM Users";`,
		"// TODO fix this later",
		`var password = "hunter2secret";`,
		"task.Wait();",
		"return Ok();",
	}

	n := rapid.IntRange(0, 3).Draw(t, "unitCount")
	units := make([]*source.Unit, 0, n)
	for i := 0; i < n; i++ {
		lineCount := rapid.IntRange(1, 8).Draw(t, "lineCount")
		content := ""
		for j := 0; j < lineCount; j++ {
			content += rapid.SampledFrom(lines).Draw(t, "line") + "\n"
		}
		units = append(units, source.FromText(fmt.Sprintf("file-%d.cs", i), content))
	}
	return units
}

func TestReview_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		catalog := genCatalog(t)
		units := genUnits(t)
		opts := Options{MaxParallelism: rapid.IntRange(1, 8).Draw(t, "parallelism")}

		first, err := Review(context.Background(), catalog, units, opts)
		if err != nil {
			t.Fatalf("first run: %v", err)
		}
		second, err := Review(context.Background(), catalog, units, opts)
		if err != nil {
			t.Fatalf("second run: %v", err)
		}

		a, err := json.Marshal(first)
		if err != nil {
			t.Fatalf("marshal first: %v", err)
		}
		b, err := json.Marshal(second)
		if err != nil {
			t.Fatalf("marshal second: %v", err)
		}
		if string(a) != string(b) {
			t.Fatalf("reports differ:\n%s\n%s", a, b)
		}
	})
}

func TestReview_Invariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		catalog := genCatalog(t)
		units := genUnits(t)

		report, err := Review(context.Background(), catalog, units, Options{})
		if err != nil {
			t.Fatalf("review: %v", err)
		}

		byPath := map[string]*source.Unit{}
		for _, u := range units {
			byPath[u.Path()] = u
		}

		seen := map[string]bool{}
		for _, f := range report.Findings {
			// Dedup invariant: no two findings share (rule, path, range).
			key := fmt.Sprintf("%s|%s|%d-%d", f.RuleID, f.Path, f.Lines.Start, f.Lines.End)
			if seen[key] {
				t.Fatalf("duplicate finding %s", key)
			}
			seen[key] = true

			// Bounds invariant: line ranges stay inside the unit.
			u := byPath[f.Path]
			if u == nil {
				t.Fatalf("finding references unknown unit %s", f.Path)
			}
			if f.Lines.Start < 1 || f.Lines.End > u.LineCount() {
				t.Fatalf("finding %s out of bounds: %d-%d of %d lines",
					key, f.Lines.Start, f.Lines.End, u.LineCount())
			}
		}

		// Verdict invariant.
		want := VerdictClean
		for _, f := range report.Findings {
			if f.Severity == rules.SeverityBlock {
				want = VerdictBlocked
				break
			}
			if f.Severity == rules.SeverityWarn {
				want = VerdictWarned
			}
		}
		if report.Verdict != want {
			t.Fatalf("verdict %s, want %s", report.Verdict, want)
		}
	})
}
