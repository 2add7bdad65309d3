package source

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Unit is one reviewable artifact: a file path plus its line-addressed
// content. Units are immutable snapshots scoped to a single review
// invocation.
type Unit struct {
	path  string
	lines []string
	// added records which 1-indexed lines were introduced by the diff
	// under review. nil means no diff metadata: every line is "added".
	added map[int]bool
}

// OutOfBoundsError reports a line range outside a unit's bounds.
type OutOfBoundsError struct {
	Path  string
	Start int
	End   int
	Lines int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("%s: line range %d-%d outside [1, %d]", e.Path, e.Start, e.End, e.Lines)
}

// FromText builds a unit from raw file content. Trailing newlines do not
// produce a phantom empty last line.
func FromText(path, content string) *Unit {
	content = strings.TrimSuffix(content, "\n")
	var lines []string
	if content != "" {
		lines = strings.Split(content, "\n")
	}
	return &Unit{path: path, lines: lines}
}

// Path returns the unit's file path.
func (u *Unit) Path() string {
	return u.path
}

// LineCount returns the number of lines in the unit.
func (u *Unit) LineCount() int {
	return len(u.lines)
}

// Line returns the 1-indexed line n.
func (u *Unit) Line(n int) (string, error) {
	if n < 1 || n > len(u.lines) {
		return "", &OutOfBoundsError{Path: u.path, Start: n, End: n, Lines: len(u.lines)}
	}
	return u.lines[n-1], nil
}

// Range returns lines start through end inclusive, joined by newlines.
func (u *Unit) Range(start, end int) (string, error) {
	if start < 1 || end > len(u.lines) || start > end {
		return "", &OutOfBoundsError{Path: u.path, Start: start, End: end, Lines: len(u.lines)}
	}
	return strings.Join(u.lines[start-1:end], "\n"), nil
}

// IsAdded reports whether line n was added by the diff under review. Units
// built without diff metadata treat every in-bounds line as added.
func (u *Unit) IsAdded(n int) bool {
	if n < 1 || n > len(u.lines) {
		return false
	}
	if u.added == nil {
		return true
	}
	return u.added[n]
}

// HasDiffMetadata reports whether the unit carries added-line information.
func (u *Unit) HasDiffMetadata() bool {
	return u.added != nil
}

// AddedCount returns how many lines the diff metadata marks as added. It
// returns LineCount for units without metadata.
func (u *Unit) AddedCount() int {
	if u.added == nil {
		return len(u.lines)
	}
	return len(u.added)
}

// Digest is a stable content hash of the unit, suitable for cache keys.
func (u *Unit) Digest() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\n", u.path)
	for _, line := range u.lines {
		fmt.Fprintf(h, "%s\n", line)
	}
	if u.added != nil {
		for n := 1; n <= len(u.lines); n++ {
			if u.added[n] {
				fmt.Fprintf(h, "+%d\n", n)
			}
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
