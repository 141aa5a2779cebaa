package email

import (
	"strings"
	"unicode"
)

func DeriveNameFromEmail(email string) (string, string) {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return "User", "User"
	}

	first := capitalize(parts[0])
	last := "User"
	if len(parts) > 1 {
		last = capitalize(parts[len(parts)-1])
	}

	return first, last
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Mask hides the local part of an address for logs: "jane.doe@x.com"
// becomes "j*******@x.com". Values without an "@" keep only their first
// and last character.
func Mask(value string) string {
	local, domain, ok := strings.Cut(value, "@")
	if !ok {
		return maskMiddle(value)
	}
	if local == "" {
		return "@" + domain
	}
	runes := []rune(local)
	return string(runes[0]) + strings.Repeat("*", len(runes)-1) + "@" + domain
}

func maskMiddle(s string) string {
	runes := []rune(s)
	if len(runes) <= 2 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-2) + string(runes[len(runes)-1])
}
