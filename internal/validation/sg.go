package validation

import (
	"regexp"
	"strings"
)

var (
	nricPattern   = regexp.MustCompile(`^[STFG]\d{7}[A-Z]$`)
	uenPattern    = regexp.MustCompile(`^\d{8,10}[A-Z]$`)
	postalPattern = regexp.MustCompile(`^\d{6}$`)
)

// ValidNRIC reports whether s is a Singapore NRIC/FIN: one of S, T, F or G,
// seven digits and a trailing letter. Case is ignored.
func ValidNRIC(s string) bool {
	return nricPattern.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

// ValidUEN reports whether s is a Singapore Unique Entity Number: 8 to 10
// digits followed by a letter. Case is ignored.
func ValidUEN(s string) bool {
	return uenPattern.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

// NormalizePhone strips every non-digit character.
func NormalizePhone(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPhone reports whether s is a Singapore number: exactly eight digits once
// separators are removed, starting with 6, 8 or 9.
func ValidPhone(s string) bool {
	digits := NormalizePhone(s)
	if len(digits) != 8 {
		return false
	}
	switch digits[0] {
	case '6', '8', '9':
		return true
	}
	return false
}

// ValidPostalCode reports whether s is a six digit Singapore postal code.
func ValidPostalCode(s string) bool {
	return postalPattern.MatchString(strings.TrimSpace(s))
}

// FormatPhone renders an eight digit number as "+65 XXXX XXXX" for display.
// A leading 65 country code is accepted. Anything else is returned unchanged.
func FormatPhone(s string) string {
	digits := NormalizePhone(s)
	if len(digits) == 10 && strings.HasPrefix(digits, "65") {
		digits = digits[2:]
	}
	if len(digits) != 8 {
		return s
	}
	return "+65 " + digits[:4] + " " + digits[4:]
}
