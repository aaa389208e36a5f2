// Package redact keeps resume content and personal data out of logs and
// error messages: truncation helpers plus PII masking.
package redact

import "strings"

const (
	// DefaultMaxLength bounds generic log attribute values.
	DefaultMaxLength = 200

	// MaxResumeLength bounds resume content echoed into log fields.
	MaxResumeLength = 150

	// MaxPromptLength bounds prompt payloads echoed into log fields.
	MaxPromptLength = 300
)

// Field names whose values are always masked before logging.
var maskPIILookup = map[string]bool{
	"email":    true,
	"phone":    true,
	"password": true,
	"address":  true,
	"name":     true,
	"secret":   true,
	"token":    true,
	"api_key":  true,
}

// SafeAttributeValue masks values belonging to sensitive field names and
// truncates everything else to maxLength.
func SafeAttributeValue(name string, value string, maxLength int) string {
	lowerName := strings.ToLower(name)
	for keyword := range maskPIILookup {
		if strings.Contains(lowerName, keyword) {
			return MaskPII(value)
		}
	}
	return TruncateString(value, maxLength)
}

// MaskPII masks a personal value, keeping at most the outer characters.
func MaskPII(value string) string {
	if value == "" {
		return ""
	}

	runes := []rune(value)
	length := len(runes)

	if length <= 1 {
		return "*"
	}
	if length <= 4 {
		if length == 2 {
			return string(runes[0:1]) + "*"
		}
		return string(runes[0:1]) + strings.Repeat("*", length-2) + string(runes[length-1:])
	}

	return string(runes[0:2]) + strings.Repeat("*", length-4) + string(runes[length-2:])
}

// TruncateString keeps the head and tail of an overlong string, joining
// them with an ellipsis. Meant for log fields where both ends matter.
func TruncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}

	if maxLength <= 3 {
		return string(runes[:maxLength])
	}

	half := (maxLength - 3) / 2
	if half < 1 {
		half = 1
	}

	return string(runes[:half]) + "..." + string(runes[len(runes)-half:])
}

// Clip hard-truncates a string to maxLength runes, head only. Used where
// the protocol prescribes a plain prefix, like repair payloads and stage
// error snippets.
func Clip(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength])
}

// SafeResumeContent truncates resume text for log fields.
func SafeResumeContent(content string) string {
	return TruncateString(content, MaxResumeLength)
}
