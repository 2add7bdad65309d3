package redact

import "regexp"

const mask = "[REDACTED]"

// secretPattern pairs a label with a detection regexp. Labels exist for
// tests and debugging; matching text is always replaced with the same mask.
type secretPattern struct {
	name string
	re   *regexp.Regexp
}

var secretPatterns = []secretPattern{
	{"assignment", regexp.MustCompile(`(?i)(api[_-]?key|secret|token|password|passwd|credential)\s*[:=]\s*["']?[^\s"']{8,}["']?`)},
	{"aws-key-id", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"bearer", regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`)},
	{"jwt", regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`)},
	{"private-key", regexp.MustCompile(`-----BEGIN[A-Z ]*PRIVATE KEY-----`)},
	{"github-token", regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`)},
	{"slack-token", regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`)},
	{"api-sk", regexp.MustCompile(`sk-[A-Za-z0-9_-]{20,}`)},
}

// Line masks secret-looking material in a single source line.
func Line(line string) string {
	for _, p := range secretPatterns {
		line = p.re.ReplaceAllString(line, mask)
	}
	return line
}

// Text masks secret-looking material in a block of text.
func Text(text string) string {
	return Line(text)
}
