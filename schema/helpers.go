package schema

import (
	"strings"
	"unicode"
)

// toLowerTrim trims surrounding space and lower-cases a value.
func toLowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeID trims and upper-cases an identifier so ids from different sources compare equal.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// IsAbsent reports whether a reference value should be treated as missing.
func IsAbsent(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, NotAvailable)
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// IsNumeric reports whether s is a non-empty run of digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
