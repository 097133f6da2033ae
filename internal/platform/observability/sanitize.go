package observability

import (
	"strings"
	"unicode"
)

// Length caps applied to request values before they reach logs or span attributes.
const (
	maxRouteLen     = 180
	maxMethodLen    = 10
	maxUserAgentLen = 160
	maxQueryLen     = 256
	maxIPLen        = 64
)

// clip removes control characters from value and keeps at most limit runes.
func clip(value string, limit int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
	if runes := []rune(cleaned); len(runes) > limit {
		return string(runes[:limit])
	}
	return cleaned
}

// SanitizeRoute prepares a route pattern or path for logging. Empty routes become "/".
func SanitizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	return clip(route, maxRouteLen)
}

// SanitizeMethod prepares an HTTP method for logging.
func SanitizeMethod(method string) string { return clip(method, maxMethodLen) }

// SanitizeUserAgent prepares a user agent for logging.
func SanitizeUserAgent(ua string) string { return clip(ua, maxUserAgentLen) }
