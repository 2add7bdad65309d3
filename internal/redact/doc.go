// Package redact scrubs secret-looking material from text before it is
// embedded in review reports. Finding snippets quote source lines verbatim,
// and reports travel further than source code does (CI logs, PR comments),
// so credentials are masked on the way out.
package redact
