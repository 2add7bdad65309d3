// Gavel is a local-first CLI for policy-driven code review.
//
// It loads declarative rule packs (YAML, or markdown rulebooks with embedded
// rule blocks), evaluates them against files or git diffs, and emits
// structured findings with a block/warn/clean verdict and deterministic exit
// codes suitable for CI gating and git hooks.
//
// Usage:
//
//	gavel review files src/...       # review whole files
//	gavel review unstaged            # review working tree changes
//	gavel review staged              # review staged changes
//	gavel review range main..HEAD    # review a revision range
//	gavel rules check policy.yaml    # validate a rule pack
//	gavel rules import rulebook.md   # extract rules from a markdown rulebook
package main
