// Package normalize provides helper functions for consistent string normalization
// across the application. Use these helpers instead of scattered strings.ToLower
// and strings.TrimSpace calls to ensure consistent behavior.
package normalize

import "strings"

// Slug normalizes a landing page slug by trimming whitespace and converting to lowercase.
// This is the canonical form used for storage, lookups and uniqueness.
func Slug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Title normalizes a page title by trimming whitespace.
func Title(s string) string {
	return strings.TrimSpace(s)
}

// Role normalizes a role value by trimming whitespace and converting to lowercase.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Format normalizes an editor input format ("json", "yaml").
func Format(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam normalizes a query parameter by trimming whitespace.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
