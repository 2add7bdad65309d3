// Package cli implements the gavel command tree.
//
// Exit codes are deterministic so CI can gate on them: 0 clean, 1 warned,
// 2 blocked, 3 usage error, 4 runtime error.
package cli
