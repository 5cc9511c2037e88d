package messaging

import (
	"strings"

	"github.com/campussrc/src-portal/internal"
)

// NormalizePhone converts a raw phone number into the digits-only
// international form expected by wa.me links. International prefixes ("+" or
// "00") are stripped; local numbers get defaultCountryCode prepended, with a
// single leading zero dropped first.
func NormalizePhone(raw, defaultCountryCode string) (string, error) {
	var digits strings.Builder
	hasPlus := false

	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == '+' && i == 0:
			hasPlus = true
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// separators are tolerated
		default:
			return "", internal.NewValidationFieldError("phone", "phone number contains invalid characters", internal.ErrCodeInvalidPhone)
		}
	}

	number := digits.String()
	if number == "" {
		return "", internal.NewValidationFieldError("phone", "phone number is required", internal.ErrCodeInvalidPhone)
	}

	switch {
	case hasPlus:
		// already international
	case strings.HasPrefix(number, "00"):
		// international dialing prefix
		number = number[2:]
	case strings.HasPrefix(number, "0"):
		number = defaultCountryCode + number[1:]
	case !strings.HasPrefix(number, defaultCountryCode):
		number = defaultCountryCode + number
	}

	if len(number) < 9 || len(number) > 15 {
		return "", internal.NewValidationFieldError("phone", "phone number must be between 9 and 15 digits", internal.ErrCodeInvalidPhone)
	}

	return number, nil
}
