package utils

import (
	"regexp"
	"time"
)

var (
	// E.164-ish: leading + followed by 8 to 15 digits.
	phoneRe = regexp.MustCompile(`^\+\d{8,15}$`)
	emailRe = regexp.MustCompile(`^[\w.+-]+@[\w-]+(\.[\w-]+)+$`)
)

// IsValidPhoneNumber reports whether phone looks like an E.164 number.
func IsValidPhoneNumber(phone string) bool {
	return phoneRe.MatchString(phone)
}

// IsValidEmail reports whether email has a plausible mailbox shape.
func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ParseFutureTime parses an RFC 3339 timestamp and returns it only if it is
// strictly after now.
func ParseFutureTime(s string, now time.Time) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	if !t.After(now) {
		return time.Time{}, false
	}
	return t, true
}
