// Package logger provides structured logging for the Plume client.
package logger

import (
	"log/slog"
	"strings"
)

// Sensitive key patterns that force full redaction of the value.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"authorization",
	"bearer",
}

// jwtPrefix is the base64 encoding of `{"` — every JWT-shaped access token
// the Plume API issues starts with it.
const jwtPrefix = "eyJ"

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive checks if an attribute contains sensitive data and
// redacts it if necessary.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()

		// Values that look like bearer credentials are masked even when
		// the key name is innocent.
		if looksLikeCredential(strVal) {
			return slog.String(a.Key, maskValue(strVal))
		}

		keyLower := strings.ToLower(a.Key)
		for _, pattern := range sensitiveKeyPatterns {
			if strings.Contains(keyLower, pattern) {
				if strVal != "" {
					return slog.String(a.Key, redactedValue)
				}
				break
			}
		}
	}

	// Handle nested groups recursively.
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// looksLikeCredential reports whether a value has the shape of a bearer
// credential rather than ordinary text.
func looksLikeCredential(value string) bool {
	if strings.HasPrefix(value, "Bearer ") {
		return true
	}
	// JWT: three dot-separated base64 segments starting with eyJ.
	if strings.HasPrefix(value, jwtPrefix) && strings.Count(value, ".") == 2 {
		return true
	}
	return false
}

// maskValue partially masks a credential, keeping just enough to correlate
// log lines: first 6 and last 3 characters.
func maskValue(value string) string {
	if len(value) <= 12 {
		return redactedValue
	}
	return value[:6] + "..." + value[len(value)-3:]
}

// RedactString manually redacts a string value. Use this when a value must
// be sanitized before it reaches any formatting helper.
func RedactString(value string) string {
	if looksLikeCredential(value) {
		return maskValue(value)
	}
	return value
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
