package catalog

import "strings"

// DefaultRestrictedExtras are the extras that never count as reasons to keep
// a package during extras expansion. Matching is by substring, so
// "develop", "tests" and "docs" are restricted too.
var DefaultRestrictedExtras = []string{"dev", "test", "doc"}

// NormalizeName maps a package name to its canonical form: surrounding space
// trimmed, lowercase, underscores replaced by hyphens. Two names identify the
// same package iff their normalized forms are equal.
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

// IsRestrictedExtra reports whether extra contains any of the restricted
// substrings.
func IsRestrictedExtra(extra string, restricted []string) bool {
	for _, r := range restricted {
		if r != "" && strings.Contains(extra, r) {
			return true
		}
	}
	return false
}

// AllowedExtras returns the extras that are not restricted, in their
// original order.
func AllowedExtras(extras, restricted []string) []string {
	var out []string
	for _, e := range extras {
		if !IsRestrictedExtra(e, restricted) {
			out = append(out, e)
		}
	}
	return out
}
