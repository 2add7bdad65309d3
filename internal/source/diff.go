package source

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// hunkHeaderRe matches "@@ -l,c +l,c @@" hunk headers. The count components
// are optional per the unified diff format.
var hunkHeaderRe = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,(\d+))? @@`)

// ParseDiff parses unified diff text into one unit per changed file. Each
// unit holds the post-image lines the diff reveals (added and context lines,
// placed at their new-file line numbers) with added lines recorded as diff
// metadata. Deleted files and binary sections produce no unit.
func ParseDiff(diff string) ([]*Unit, error) {
	var units []*Unit
	for _, section := range splitSections(diff) {
		unit, err := parseSection(section)
		if err != nil {
			return nil, err
		}
		if unit != nil {
			units = append(units, unit)
		}
	}
	return units, nil
}

// splitSections breaks a multi-file diff at "diff --git" boundaries. Input
// without the git header is treated as a single section.
func splitSections(diff string) []string {
	if strings.TrimSpace(diff) == "" {
		return nil
	}
	var sections []string
	var current strings.Builder
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "diff --git") && current.Len() > 0 {
			sections = append(sections, current.String())
			current.Reset()
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	if s := current.String(); strings.TrimSpace(s) != "" {
		sections = append(sections, s)
	}
	return sections
}

func parseSection(section string) (*Unit, error) {
	path := pathFromSection(section)
	if path == "" {
		// Deleted file ("+++ /dev/null") or binary section.
		return nil, nil
	}

	// Sparse post-image: new-file line number -> content.
	content := make(map[int]string)
	added := make(map[int]bool)
	maxLine := 0

	newLine := 0
	inHunk := false
	for _, line := range strings.Split(section, "\n") {
		if m := hunkHeaderRe.FindStringSubmatch(line); m != nil {
			start, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("%s: bad hunk header %q: %w", path, line, err)
			}
			newLine = start
			inHunk = true
			continue
		}
		if !inHunk {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			// File headers of a following section fragment.
		case strings.HasPrefix(line, "+"):
			content[newLine] = line[1:]
			added[newLine] = true
			if newLine > maxLine {
				maxLine = newLine
			}
			newLine++
		case strings.HasPrefix(line, "-"):
			// Old-image line, not present in the post-image.
		case strings.HasPrefix(line, " "):
			content[newLine] = line[1:]
			if newLine > maxLine {
				maxLine = newLine
			}
			newLine++
		case strings.HasPrefix(line, `\`):
			// "\ No newline at end of file"
		default:
			inHunk = false
		}
	}

	if maxLine == 0 {
		return nil, nil
	}

	lines := make([]string, maxLine)
	for n, text := range content {
		lines[n-1] = text
	}
	return &Unit{path: path, lines: lines, added: added}, nil
}

func pathFromSection(section string) string {
	for _, line := range strings.Split(section, "\n") {
		if strings.HasPrefix(line, "+++ b/") {
			return strings.TrimPrefix(line, "+++ b/")
		}
		if strings.HasPrefix(line, "+++ ") {
			p := strings.TrimSpace(strings.TrimPrefix(line, "+++ "))
			if p == "/dev/null" {
				return ""
			}
			return p
		}
	}
	return ""
}
