// Package source models the artifacts under review: files or diff hunks
// addressed by 1-indexed line numbers.
//
// A Unit is an immutable snapshot of one file's content, optionally carrying
// diff metadata that records which lines were added by the change under
// review. Without diff metadata every line counts as added, so whole-file
// review and diff-scoped review share one code path. ParseDiff builds units
// directly from unified diff text.
package source
