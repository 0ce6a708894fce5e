package classify

import (
	"regexp"
	"strings"
	"unicode"
)

// Type is an advisory tag describing what an identifier looks like. It never
// participates in duplicate matching, which is always exact-string equality.
type Type string

const (
	TypeEmail         Type = "email"
	TypePhone         Type = "phone"
	TypeAccountNumber Type = "account_number"
	TypeLargeNumber   Type = "large_number"
	TypeNumeric       Type = "numeric"
	TypeReferenceCode Type = "reference_code"
	TypeText          Type = "text"
	TypeUUID          Type = "uuid"
	TypeCustom        Type = "custom"
	TypeUnknown       Type = "unknown"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// Classify tags an identifier candidate. Rules apply in priority order, first
// match wins. The function is pure and performs no I/O.
func Classify(text string) Type {
	s := strings.TrimSpace(text)
	if s == "" {
		return TypeUnknown
	}

	if at := strings.LastIndex(s, "@"); at >= 0 && strings.Contains(s[at+1:], ".") {
		return TypeEmail
	}

	if digits := stripSpace(s); digits != "" && allDigits(digits) {
		switch n := len(digits); {
		case n >= 8 && n <= 15:
			return TypePhone
		case n >= 16 && n < 20:
			return TypeAccountNumber
		case n >= 20:
			return TypeLargeNumber
		default:
			return TypeNumeric
		}
	}

	if uuidPattern.MatchString(s) {
		return TypeUUID
	}

	hasAlpha := strings.IndexFunc(s, unicode.IsLetter) >= 0
	hasDigit := strings.IndexFunc(s, unicode.IsDigit) >= 0
	switch {
	case hasAlpha && hasDigit:
		return TypeReferenceCode
	case allLetters(s):
		return TypeText
	default:
		return TypeCustom
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func allLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
