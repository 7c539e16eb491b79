package core

import "strings"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// CleanStringPtr applies CleanString to a non-nil pointer in place.
func CleanStringPtr(s *string, lower ...bool) {
	if s != nil {
		*s = CleanString(*s, lower...)
	}
}

// EmailLocalPart returns the part of `email` before the "@".
func EmailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

func IsEmailLike(s string) bool {
	return strings.Contains(s, "@")
}
