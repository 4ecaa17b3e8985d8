// Package validation checks and normalizes caregiver contact fields.
package validation

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrInvalidPhoneFormat = errors.New("invalid phone format")
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// optional +CC, then a 10-digit North American number
	phonePattern = regexp.MustCompile(`^(\+\d{1,2}\s?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}$`)
	nonDigit     = regexp.MustCompile(`\D`)
)

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// FormatPhone renders a 10-digit number as (AAA) BBB-CCCC.
// Anything else is returned unchanged.
func FormatPhone(phone string) string {
	digits := nonDigit.ReplaceAllString(phone, "")
	if len(digits) != 10 {
		return phone
	}
	return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
}

// CheckEmail is ValidateEmail as an error.
func CheckEmail(email string) error {
	if !ValidateEmail(email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmailFormat, email)
	}
	return nil
}

// CheckPhone is ValidatePhone as an error.
func CheckPhone(phone string) error {
	if !ValidatePhone(phone) {
		return fmt.Errorf("%w: %q", ErrInvalidPhoneFormat, phone)
	}
	return nil
}
