// Package cache provides file-based caching of review reports. Rule
// evaluation is deterministic, so a report keyed on the catalog digest plus
// the unit digests can be replayed safely until it expires.
package cache
