package tenant

import (
	"fmt"
	"strings"
)

// NormalizeWebsiteURL prefixes bare domains with https. Inputs that
// already carry a scheme, and empty inputs, pass through unchanged.
func NormalizeWebsiteURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return "https://" + trimmed
}

// FormatPhoneNumber renders NANP phone numbers for display.
// 10 digits format as "(416) 555-0123"; 11 or more digits treat the
// leading digits as a country code: "+1 (416) 555-0123". Anything
// else is returned as given.
func FormatPhoneNumber(raw string) string {
	digits := keepDigits(raw)
	switch {
	case len(digits) == 10:
		return fmt.Sprintf("(%s) %s-%s", digits[0:3], digits[3:6], digits[6:10])
	case len(digits) >= 11:
		country := digits[:len(digits)-10]
		rest := digits[len(digits)-10:]
		return fmt.Sprintf("+%s (%s) %s-%s", country, rest[0:3], rest[3:6], rest[6:10])
	default:
		return strings.TrimSpace(raw)
	}
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
