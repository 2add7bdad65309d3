// Package review contains the core analysis engine for policy-driven code
// review.
//
// It evaluates every catalog rule against every source unit, in parallel
// across a bounded worker pool, then reduces the results into a Report: a
// deduplicated, deterministically ordered list of findings plus a
// block/warn/clean verdict. Evaluation of a single (rule, unit) pair is pure
// and side-effect free, so the matrix needs no locks and identical inputs
// always produce byte-identical reports.
//
// A rule whose predicate fails to evaluate is isolated: the failure is
// recorded as a report diagnostic and the remaining rules still run. Only
// when no rule at all could be evaluated does the invocation fail, so a
// zero-signal run is never presented as a clean review.
package review
