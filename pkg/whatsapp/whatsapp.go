// Package whatsapp builds wa.me deep links for reaching customers directly
// from the dashboard.
package whatsapp

import (
	"net/url"
	"strings"
)

// defaultCountryCode is prepended to bare 10-digit local numbers.
const defaultCountryCode = "91"

// NormalizePhone strips formatting from a phone number and prefixes the
// default country code when the number looks like a bare local one.
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	n := digits.String()
	if len(n) == 10 {
		return defaultCountryCode + n
	}
	return n
}

// Link returns a wa.me URL that opens a chat with phone, optionally
// pre-filled with message. Returns "" when the phone has no digits.
func Link(phone, message string) string {
	n := NormalizePhone(phone)
	if n == "" {
		return ""
	}

	link := "https://wa.me/" + n
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link
}
