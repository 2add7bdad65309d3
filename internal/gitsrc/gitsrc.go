package gitsrc

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kmacleod/gavel/internal/source"
)

// SourceUnavailableError means the code under review could not be obtained.
// The review aborts before the engine runs.
type SourceUnavailableError struct {
	Op  string
	Err error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable (%s): %v", e.Op, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// Options controls how sources are gathered.
type Options struct {
	ContextLines int
	Include      []string
	Exclude      []string
}

// maxFileBytes is the per-file size limit for whole-file collection.
const maxFileBytes = 1 << 20 // 1MB

// Unstaged returns units for working tree changes vs the index.
func Unstaged(opts Options) ([]*source.Unit, error) {
	return diffUnits("unstaged", opts, "diff")
}

// Staged returns units for index changes vs HEAD.
func Staged(opts Options) ([]*source.Unit, error) {
	return diffUnits("staged", opts, "diff", "--cached")
}

// Range returns units for a revision range such as origin/main..HEAD. When
// mergeBase is set, ".." is widened to "..." so the comparison starts at the
// merge base.
func Range(revRange string, mergeBase bool, opts Options) ([]*source.Unit, error) {
	if mergeBase && strings.Contains(revRange, "..") && !strings.Contains(revRange, "...") {
		revRange = strings.Replace(revRange, "..", "...", 1)
	}
	return diffUnits("range "+revRange, opts, "diff", revRange)
}

func diffUnits(op string, opts Options, gitArgs ...string) ([]*source.Unit, error) {
	if opts.ContextLines > 0 {
		gitArgs = append(gitArgs, fmt.Sprintf("-U%d", opts.ContextLines))
	}
	out, err := gitOutput(gitArgs...)
	if err != nil {
		return nil, &SourceUnavailableError{Op: op, Err: err}
	}
	units, err := source.ParseDiff(out)
	if err != nil {
		return nil, &SourceUnavailableError{Op: op, Err: err}
	}
	return filterUnits(units, opts), nil
}

// Files reads the named files directly from disk, one unit per file.
func Files(paths []string, opts Options) ([]*source.Unit, error) {
	var units []*source.Unit
	for _, path := range paths {
		if !included(path, opts) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &SourceUnavailableError{Op: "read " + path, Err: err}
		}
		if len(data) > maxFileBytes {
			continue
		}
		units = append(units, source.FromText(path, string(data)))
	}
	return units, nil
}

// Tracked returns units for every git-tracked file matching the filters,
// sorted by path for stable review order.
func Tracked(opts Options) ([]*source.Unit, error) {
	out, err := gitOutput("ls-files")
	if err != nil {
		return nil, &SourceUnavailableError{Op: "ls-files", Err: err}
	}
	var paths []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !included(line, opts) {
			continue
		}
		paths = append(paths, line)
	}
	sort.Strings(paths)

	var units []*source.Unit
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue // deleted-but-tracked or unreadable
		}
		if len(data) > maxFileBytes || looksBinary(data) {
			continue
		}
		units = append(units, source.FromText(path, string(data)))
	}
	return units, nil
}

func filterUnits(units []*source.Unit, opts Options) []*source.Unit {
	var kept []*source.Unit
	for _, u := range units {
		if included(u.Path(), opts) {
			kept = append(kept, u)
		}
	}
	return kept
}

func included(path string, opts Options) bool {
	if len(opts.Include) > 0 && !MatchesAny(path, opts.Include) {
		return false
	}
	if MatchesAny(path, opts.Exclude) {
		return false
	}
	return true
}

// MatchesAny reports whether the path matches any of the doublestar glob
// patterns. Invalid patterns match nothing.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		ok, err := doublestar.Match(pattern, path)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// looksBinary applies git's own heuristic: a NUL byte in the first block.
func looksBinary(data []byte) bool {
	probe := data
	if len(probe) > 8000 {
		probe = probe[:8000]
	}
	for _, b := range probe {
		if b == 0 {
			return true
		}
	}
	return false
}

func gitOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
