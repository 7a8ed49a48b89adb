package validation

import (
	"regexp"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User names become the local part of the principal name; keep them to a
// conservative Graph-safe charset.
var userNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func IsValidUserName(userName string) bool {
	return userName != "" && len(userName) <= 64 && userNameRe.MatchString(userName)
}

func IsValidDisplayName(displayName string) bool {
	return displayName != "" && len(displayName) <= 256
}
