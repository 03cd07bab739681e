package dashboard

import (
	"errors"
	"strings"
	"unicode"
)

const passwordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

var passwordRules = []struct {
	check   func(string) bool
	message string
}{
	{
		check:   func(pw string) bool { return len(pw) >= 8 },
		message: "Password must be at least 8 characters long",
	},
	{
		check:   func(pw string) bool { return strings.IndexFunc(pw, unicode.IsUpper) >= 0 },
		message: "Password must contain at least one uppercase letter",
	},
	{
		check:   func(pw string) bool { return strings.IndexFunc(pw, unicode.IsLower) >= 0 },
		message: "Password must contain at least one lowercase letter",
	},
	{
		check:   func(pw string) bool { return strings.IndexFunc(pw, unicode.IsDigit) >= 0 },
		message: "Password must contain at least one number",
	},
	{
		check:   func(pw string) bool { return strings.ContainsAny(pw, passwordSymbols) },
		message: "Password must contain at least one special character",
	},
}

// ValidatePassword checks the password rules in a fixed order and returns the
// first failure's message. It runs before any network call so weak passwords
// never reach the API.
func ValidatePassword(password string) error {
	for _, rule := range passwordRules {
		if !rule.check(password) {
			return errors.New(rule.message)
		}
	}
	return nil
}
