// Package validation содержит функции валидации и нормализации входных данных.
package validation

import (
	"regexp"
	"strings"
	"unicode"
)

var phonePattern = regexp.MustCompile(`^\d{10,15}$`)

// IsValidPhone проверяет, что телефон состоит из 10..15 цифр без разделителей.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// NormalizeIndianNumber оставляет в номере только цифры и приводит его к виду с кодом страны 91.
func NormalizeIndianNumber(input string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, input)

	switch {
	case strings.HasPrefix(digits, "91"):
		return digits
	case strings.HasPrefix(digits, "0"):
		return "91" + digits[1:]
	default:
		return "91" + digits
	}
}
