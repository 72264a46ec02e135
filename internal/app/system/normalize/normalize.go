// Package normalize centralizes small input-canonicalization helpers so
// stores and handlers agree on the forms written to the database.
package normalize

import (
	"regexp"
	"strings"
)

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role identifier. The owner role is the one
// exception to lowercase role ids and is handled by its constant, not here.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status lowercases and trims a status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query parameter, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// JoinCode uppercases and trims a league join code for lookup.
func JoinCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

var nicknameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Nickname validates a requested nickname and returns the display form and
// its lowercase key. ok is false when the value is not 3-20 characters of
// letters, digits, dot, underscore, or hyphen.
func Nickname(s string) (display, lower string, ok bool) {
	display = strings.TrimSpace(s)
	if len(display) < 3 || len(display) > 20 || !nicknameRe.MatchString(display) {
		return "", "", false
	}
	return display, strings.ToLower(display), true
}
