package validators

import "strings"

// MaxNameLength bounds catalog names accepted over HTTP.
const MaxNameLength = 100

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}
