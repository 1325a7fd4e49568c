// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizeE164 formats a phone number to E.164, interpreting national
// numbers within region. Inputs that do not parse to a valid number are
// returned trimmed so the raw value still matches searches.
func NormalizeE164(input, region string) string {
	if formatted, ok := ParseE164(input, region); ok {
		return formatted
	}
	return strings.TrimSpace(input)
}

// ParseE164 formats input to E.164 and reports whether it is a valid number.
func ParseE164(input, region string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", false
	}

	number, err := phonenumbers.Parse(trimmed, strings.ToUpper(region))
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return "", false
	}

	return phonenumbers.Format(number, phonenumbers.E164), true
}
