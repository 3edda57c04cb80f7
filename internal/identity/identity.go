package identity

import (
	"regexp"
	"strings"
)

// Kind tags a canonical identifier as phone or email.
type Kind string

const (
	KindPhone Kind = "phone"
	KindEmail Kind = "email"
	// KindGoogle marks users created through the OAuth callback. Their
	// identifier is "google:<subject>" and is never produced by Normalize.
	KindGoogle Kind = "google"
)

var (
	nonDigits  = regexp.MustCompile(`\D`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneDigit = regexp.MustCompile(`^\+\d{11}$`)
)

// Detect classifies a raw identifier. A string containing '@' and '.' is an
// email; everything else is treated as a phone, including ambiguous
// short or long inputs.
func Detect(raw string) Kind {
	if strings.Contains(raw, "@") && strings.Contains(raw, ".") {
		return KindEmail
	}
	return KindPhone
}

// Normalize maps a raw identifier to its canonical form and kind. The result
// is best-effort: callers reject invalid input with ValidEmail/ValidPhone
// before use. Normalize is idempotent over its own output.
func Normalize(raw string) (string, Kind) {
	raw = strings.TrimSpace(raw)
	if Detect(raw) == KindEmail {
		return strings.ToLower(raw), KindEmail
	}
	return formatPhone(raw), KindPhone
}

// formatPhone converts local phone formats to +<countrycode><digits>.
func formatPhone(raw string) string {
	digits := nonDigits.ReplaceAllString(raw, "")
	switch {
	case len(digits) == 11 && strings.HasPrefix(digits, "8"):
		digits = "7" + digits[1:]
	case len(digits) == 11 && strings.HasPrefix(digits, "7"):
		// already international
	case len(digits) == 10:
		digits = "7" + digits
	}
	return "+" + digits
}

// ValidEmail reports whether s looks like a deliverable address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidPhone reports whether s is a normalized 11-digit phone.
func ValidPhone(s string) bool {
	return phoneDigit.MatchString(s)
}

// Valid applies the format check matching the identifier kind.
func Valid(canonical string, kind Kind) bool {
	switch kind {
	case KindEmail:
		return ValidEmail(canonical)
	case KindPhone:
		return ValidPhone(canonical)
	default:
		return canonical != ""
	}
}
