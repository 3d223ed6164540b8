// Package identity validates the user identity that gates service selection.
package identity

import (
	"regexp"
	"strings"
)

// emailPattern is deliberately syntactic: non-whitespace segments around a
// single @, at least one dot in the domain. No directory or MX lookup is
// ever performed.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate reports whether candidate is an acceptable email address.
// The pattern does not tolerate surrounding whitespace; callers that want
// lenient field handling should trim first (see Normalize).
func Validate(candidate string) bool {
	return emailPattern.MatchString(candidate)
}

// Normalize returns the canonical form of an address for storage on a
// session: trimmed and lowercased. It does not validate.
func Normalize(candidate string) string {
	return strings.ToLower(strings.TrimSpace(candidate))
}
