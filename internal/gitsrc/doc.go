// Package gitsrc collects source units from a git working tree.
//
// It shells out to the git CLI for diffs (unstaged, staged, revision range)
// and tracked-file listings, filters paths with include/exclude globs, and
// parses the results into source units for the review engine. All failures
// at this boundary surface as SourceUnavailableError so callers can tell
// "could not obtain the code" apart from review failures.
package gitsrc
