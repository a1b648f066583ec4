package logger

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// sensitiveParams are query parameters whose values may carry personal data.
// Directory searches routinely contain emails and phone numbers.
var sensitiveParams = map[string]bool{
	"search":   true,
	"q":        true,
	"email":    true,
	"phone":    true,
	"token":    true,
	"password": true,
	"secret":   true,
	"api_key":  true,
}

// SanitizeQueryString checks if query string contains sensitive parameters
// and returns true if the entire query string should be redacted
func SanitizeQueryString(rawQuery string) bool {
	if rawQuery == "" {
		return false
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		// Unparseable queries are redacted wholesale
		return true
	}

	for key := range values {
		if sensitiveParams[strings.ToLower(key)] {
			return true
		}
	}
	return false
}

// Preview shortens free text for logging, keeping at most max runes
func Preview(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}

	runes := []rune(text)
	return string(runes[:max]) + "…"
}
