package sanitization

import (
	"fmt"
	"strings"
)

const redactedValue = "[REDACTED]"

const (
	emptyMaskedValue = "(empty)"
	maskedValue      = "***masked***"
)

// SanitizationType defines how to sanitize a field.
type SanitizationType int

const (
	FullyRedact SanitizationType = iota
	PartialMask
)

// SensitiveFields defines fields that require explicit sanitization behavior.
//
// Keys are lowercased field names.
var SensitiveFields = map[string]SanitizationType{
	"aws_secret_access_key": FullyRedact,
	"secret_access_key":     FullyRedact,
	"aws_session_token":     FullyRedact,
	"session_token":         FullyRedact,
	"password":              FullyRedact,
	"private_key":           FullyRedact,
	"authorization":         FullyRedact,

	"aws_access_key_id": PartialMask,
	"access_key_id":     PartialMask,
}

// blockedSubstrings catch secret-looking keys not listed in SensitiveFields.
var blockedSubstrings = []string{
	"secret",
	"token",
	"password",
	"private_key",
	"authorization",
	"credential",
}

// SanitizeLogString removes control characters that could enable log forging.
func SanitizeLogString(value string) string {
	if value == "" {
		return value
	}
	value = strings.ReplaceAll(value, "\r", "")
	value = strings.ReplaceAll(value, "\n", "")
	return value
}

// SanitizeFieldValue sanitizes a field value based on its key name.
func SanitizeFieldValue(key string, value any) any {
	keyLower := strings.ToLower(strings.TrimSpace(key))
	if keyLower == "" {
		return sanitizeValue(value)
	}

	if typ, ok := SensitiveFields[keyLower]; ok {
		if typ == PartialMask {
			if s, isString := value.(string); isString {
				return MaskFirstLast(s, 4, 4)
			}
		}
		return redactedValue
	}

	for _, substr := range blockedSubstrings {
		if strings.Contains(keyLower, substr) {
			return redactedValue
		}
	}

	return sanitizeValue(value)
}

// MaskFirstLast keeps the first prefixLen and last suffixLen characters and masks the middle.
func MaskFirstLast(value string, prefixLen, suffixLen int) string {
	if value == "" {
		return emptyMaskedValue
	}
	if prefixLen < 0 || suffixLen < 0 {
		return maskedValue
	}
	if len(value) <= prefixLen+suffixLen {
		return maskedValue
	}
	return value[:prefixLen] + "***" + value[len(value)-suffixLen:]
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case string:
		return SanitizeLogString(typed)
	case []byte:
		return SanitizeLogString(string(typed))
	case bool, int, int32, int64, uint, uint32, uint64, float32, float64:
		return typed
	case []string:
		out := make([]string, len(typed))
		for i := range typed {
			out[i] = SanitizeLogString(typed[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = SanitizeFieldValue(k, v)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = sanitizeValue(typed[i])
		}
		return out
	default:
		return SanitizeLogString(fmt.Sprintf("%v", typed))
	}
}
