// Package config loads gavel configuration by merging, in order: built-in
// defaults, the user config file, GAVEL_* environment variables, and CLI
// flag overrides.
package config
