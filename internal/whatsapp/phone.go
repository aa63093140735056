package whatsapp

import "strings"

// NormalizePhoneNumber reduces a desk or guest phone number to the digits
// WhatsApp expects. National numbers with a trunk 0 get countryCode in front.
func NormalizePhoneNumber(phoneNumber, countryCode string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phoneNumber)

	digits = strings.TrimPrefix(digits, "00")
	if countryCode == "" {
		return digits
	}

	if rest, ok := strings.CutPrefix(digits, "0"); ok {
		return countryCode + rest
	}
	if rest, ok := strings.CutPrefix(digits, countryCode+"0"); ok {
		return countryCode + rest
	}
	return digits
}
