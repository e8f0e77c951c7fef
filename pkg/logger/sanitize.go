package logger

import "strings"

// SanitizedUsername masks a submitted identifier for logging: first
// character kept, rest masked. Submitted usernames are attacker-controlled
// and may contain probing payloads or real account names.
func SanitizedUsername(username string) string {
	if username == "" {
		return "[empty]"
	}
	if len(username) == 1 {
		return "*"
	}
	return string(username[0]) + strings.Repeat("*", len(username)-1)
}

// SanitizeQueryString checks if a query string contains sensitive parameters
// and returns true if the entire query string should be redacted.
func SanitizeQueryString(rawQuery string) bool {
	sensitiveParams := []string{
		"pass",
		"password",
		"token",
		"secret",
		"auth",
		"user",
	}

	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}
