package leads

import "strings"

// FormatPhone groups an 11-digit number starting with 0 as "01234 567 890".
// Any other value is returned unchanged.
func FormatPhone(value string) string {
	if value == "" {
		return ""
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)

	if len(digits) == 11 && digits[0] == '0' {
		return digits[0:5] + " " + digits[5:8] + " " + digits[8:11]
	}
	return value
}
