package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kmacleod/gavel/internal/rules"
	"github.com/kmacleod/gavel/internal/source"
)

const (
	toolName = "gavel"
	// reportVersion is the report schema version, not the CLI version.
	reportVersion = "1.0"

	// defaultParallelism bounds the worker pool when the caller does not.
	defaultParallelism = 4
)

// ErrNoRulesApplicable means the review produced zero signal: the filtered
// catalog was empty, or every single evaluation failed. A report in that
// state must not be presented as clean, so the invocation fails instead.
var ErrNoRulesApplicable = errors.New("no rules applicable")

// Options configures one review invocation.
type Options struct {
	// Categories restricts the catalog to the given rule categories.
	// Empty means all categories.
	Categories []rules.Category
	// DiffOnly restricts matching to lines marked as added by diff
	// metadata.
	DiffOnly bool
	// MaxParallelism bounds concurrent rule evaluations. Zero or negative
	// selects the default.
	MaxParallelism int
}

// Engine runs a rule catalog against a set of source units.
type Engine struct {
	opts Options
}

// NewEngine creates an engine with the given options.
func NewEngine(opts Options) *Engine {
	if opts.MaxParallelism <= 0 {
		opts.MaxParallelism = defaultParallelism
	}
	return &Engine{opts: opts}
}

// evalResult is one cell of the rule x unit evaluation matrix. Each worker
// writes only its own cell, so the matrix needs no locking.
type evalResult struct {
	findings []Finding
	err      *EvalError
}

// Run evaluates every applicable rule against every unit and reduces the
// results into a report. Individual evaluation failures become report
// diagnostics; Run itself fails only when the whole invocation produced no
// signal, or when ctx is cancelled. Cancellation discards in-flight results
// rather than returning a misleading partial report.
func (e *Engine) Run(ctx context.Context, catalog *rules.Catalog, units []*source.Unit) (*Report, error) {
	ruleSet := catalog.Rules(e.opts.Categories...)
	if len(ruleSet) == 0 {
		return nil, fmt.Errorf("catalog has no rules after category filtering: %w", ErrNoRulesApplicable)
	}

	results := make([]evalResult, len(ruleSet)*len(units))
	evalOpts := EvalOptions{DiffOnly: e.opts.DiffOnly}

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.opts.MaxParallelism)

dispatch:
	for ui, unit := range units {
		for ri, rule := range ruleSet {
			select {
			case <-ctx.Done():
				break dispatch
			case sem <- struct{}{}:
			}

			wg.Add(1)
			go func(idx int, rule rules.Rule, unit *source.Unit) {
				defer wg.Done()
				defer func() { <-sem }()

				findings, err := EvaluateRule(rule, unit, evalOpts)
				if err != nil {
					var evalErr *EvalError
					if !errors.As(err, &evalErr) {
						evalErr = &EvalError{RuleID: rule.ID, Path: unit.Path(), Err: err}
					}
					results[idx] = evalResult{err: evalErr}
					return
				}
				results[idx] = evalResult{findings: findings}
			}(ui*len(ruleSet)+ri, rule, unit)
		}
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return e.reduce(catalog, ruleSet, units, results)
}

// reduce is the single-threaded aggregation phase: dedup, sort, verdict.
func (e *Engine) reduce(catalog *rules.Catalog, ruleSet []rules.Rule, units []*source.Unit, results []evalResult) (*Report, error) {
	var (
		findings    []Finding
		diagnostics []Diagnostic
		failed      int
	)
	for _, r := range results {
		if r.err != nil {
			failed++
			diagnostics = append(diagnostics, Diagnostic{
				RuleID: r.err.RuleID,
				Path:   r.err.Path,
				Error:  r.err.Err.Error(),
			})
			continue
		}
		findings = append(findings, r.findings...)
	}

	if len(units) > 0 && failed == len(results) {
		return nil, fmt.Errorf("all %d rule evaluations failed: %w", failed, ErrNoRulesApplicable)
	}

	findings = DeduplicateFindings(findings)
	SortFindings(findings)
	if findings == nil {
		findings = []Finding{}
	}

	return &Report{
		Tool:    toolName,
		Version: reportVersion,
		RunID:   runID(catalog, units),
		Verdict: ComputeVerdict(findings),
		Summary: Summary{
			Counts:     ComputeCounts(findings),
			UnitCount:  len(units),
			RuleCount:  len(ruleSet),
			FailedEval: failed,
		},
		Findings:    findings,
		Diagnostics: diagnostics,
	}, nil
}

// runID derives the invocation ID from the inputs. Identical catalog and
// units yield an identical ID, keeping whole reports byte-for-byte
// reproducible.
func runID(catalog *rules.Catalog, units []*source.Unit) string {
	var b strings.Builder
	b.WriteString(catalog.Digest())
	for _, u := range units {
		b.WriteString(u.Digest())
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(b.String())).String()
}

// Review is the top-level convenience entry: build an engine and run it.
func Review(ctx context.Context, catalog *rules.Catalog, units []*source.Unit, opts Options) (*Report, error) {
	return NewEngine(opts).Run(ctx, catalog, units)
}
