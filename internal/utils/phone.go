package utils

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone validates a user-supplied phone number and returns its
// canonical international form: digits only, country code included, no
// leading '+'. The input must carry its own country code; there is no
// default region to guess from.
func NormalizePhone(raw string) (string, error) {
	digits := stripNonDigits(raw)
	if len(digits) < 8 {
		return "", fmt.Errorf("phone number too short: %q", raw)
	}

	parsed, err := phonenumbers.Parse("+"+digits, "")
	if err != nil {
		return "", fmt.Errorf("failed to parse phone number %q: %v", raw, err)
	}

	if !phonenumbers.IsValidNumber(parsed) {
		return "", fmt.Errorf("invalid phone number: %q", raw)
	}

	return strings.TrimPrefix(phonenumbers.Format(parsed, phonenumbers.E164), "+"), nil
}

// StripPlus removes a leading '+' so numbers match the webhook sender format.
func StripPlus(phone string) string {
	return strings.TrimPrefix(phone, "+")
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) && r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
