package fallback

import "strings"

// SafeString returns a trimmed string or the provided fallback.
func SafeString(value interface{}, fallback string) string {
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if s != "" {
			return s
		}
	}
	return fallback
}

// SafeAspectRatio trims the ratio and drops spaces around the colon ("3 : 4" -> "3:4").
func SafeAspectRatio(value interface{}, fallback string) string {
	s := SafeString(value, fallback)
	return strings.ReplaceAll(s, " ", "")
}

// SafeResolution normalizes "4k" to "4K".
func SafeResolution(value interface{}, fallback string) string {
	return strings.ToUpper(SafeString(value, fallback))
}

// SafeLower returns a trimmed, lower-cased enum value or the fallback.
func SafeLower(value interface{}, fallback string) string {
	return strings.ToLower(SafeString(value, fallback))
}
