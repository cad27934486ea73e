package bot

import (
	"fmt"
	"strings"
	"unicode"
)

func NormalizePhoneNumber(phone string) string {
	// оставляем только цифры
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)

	// российские номера приводим к +7
	if strings.HasPrefix(cleaned, "7") && len(cleaned) == 11 {
		return "+" + cleaned
	}
	if strings.HasPrefix(cleaned, "8") && len(cleaned) == 11 {
		return "+7" + cleaned[1:]
	}
	if strings.HasPrefix(cleaned, "9") && len(cleaned) == 10 {
		return "+7" + cleaned
	}

	if strings.HasPrefix(strings.TrimSpace(phone), "+") {
		return "+" + cleaned
	}
	return cleaned
}

// IsValidPhoneNumber accepts 10 to 15 digits with an optional leading plus
// and common separators.
func IsValidPhoneNumber(phone string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return false
	}

	digits := 0
	for i, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	if digits < 10 || digits > 15 {
		return false
	}

	badNumbers := map[string]bool{
		"0000000000": true,
		"1111111111": true,
		"1234567890": true,
		"9999999999": true,
		"0123456789": true,
	}
	return !badNumbers[strings.TrimPrefix(NormalizePhoneNumber(phone), "+")]
}

func FormatPhoneNumber(phone string) string {
	// +7 (XXX) XXX-XX-XX
	if strings.HasPrefix(phone, "+7") && len(phone) == 12 {
		return fmt.Sprintf("%s (%s) %s-%s-%s",
			phone[:2],
			phone[2:5],
			phone[5:8],
			phone[8:10],
			phone[10:12])
	}
	return phone
}

// normalizeContact formats phone numbers and leaves usernames and any other
// text as typed.
func normalizeContact(text string) string {
	if !IsValidPhoneNumber(text) {
		return text
	}
	return FormatPhoneNumber(NormalizePhoneNumber(text))
}
