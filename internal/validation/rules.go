// Package validation holds the field rules shared by the onboarding step forms.
// Every rule reports a message or "" and never stops at the first failure; the
// caller collects all of them into Errors.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern   = regexp.MustCompile(`^[6-9]\d{9}$`)
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	gstPattern     = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][A-Z\d]Z[A-Z\d]$`)
	aadhaarPattern = regexp.MustCompile(`^\d{12}$`)
	cardPattern    = regexp.MustCompile(`^\d{16}$`)
	expiryPattern  = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvPattern     = regexp.MustCompile(`^\d{3,4}$`)
	spacePattern   = regexp.MustCompile(`\s`)
)

const (
	MinPasswordLength = 8
	MinBioLength      = 50
	MinSampleWorks    = 2
)

func Email(value string) string {
	if value == "" {
		return "Email is required"
	}
	if !emailPattern.MatchString(value) {
		return "Please enter a valid email"
	}
	return ""
}

func Phone(value string) string {
	if value == "" {
		return "Phone number is required"
	}
	if !phonePattern.MatchString(value) {
		return "Please enter a valid Indian mobile number"
	}
	return ""
}

func Password(value string) string {
	if value == "" {
		return "Password is required"
	}
	if utf8.RuneCountInString(value) < MinPasswordLength {
		return "Password must be at least 8 characters"
	}
	return ""
}

func PasswordConfirmation(password, confirmation string) string {
	if password != confirmation {
		return "Passwords do not match"
	}
	return ""
}

// PAN checks a permanent account number. requiredMsg is used when value is empty.
func PAN(value, requiredMsg string) string {
	if value == "" {
		return requiredMsg
	}
	if !panPattern.MatchString(value) {
		return "Please enter a valid PAN number"
	}
	return ""
}

func GST(value string) string {
	if value == "" {
		return "GST number is required"
	}
	if !gstPattern.MatchString(value) {
		return "Please enter a valid GST number"
	}
	return ""
}

func Aadhaar(value string) string {
	if value == "" {
		return "Aadhaar number is required"
	}
	if !aadhaarPattern.MatchString(value) {
		return "Please enter a valid 12-digit Aadhaar number"
	}
	return ""
}

// Required fails when value is blank after trimming.
func Required(value, msg string) string {
	if strings.TrimSpace(value) == "" {
		return msg
	}
	return ""
}

// Present fails when ok is false. It is used for file fields and checkboxes.
func Present(ok bool, msg string) string {
	if !ok {
		return msg
	}
	return ""
}

func Bio(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Bio is required"
	}
	if utf8.RuneCountInString(value) < MinBioLength {
		return "Bio should be at least 50 characters"
	}
	return ""
}

func Tags(tags []string) string {
	if len(tags) == 0 {
		return "Please select at least one tag"
	}
	return ""
}

func SampleWorks(count int) string {
	if count < MinSampleWorks {
		return "Please upload at least 2 sample works"
	}
	return ""
}

// StripSpaces removes all whitespace, as done before checking a card number.
func StripSpaces(value string) string {
	return spacePattern.ReplaceAllString(value, "")
}

func CardNumber(value string) string {
	if value == "" {
		return "Card number is required"
	}
	if !cardPattern.MatchString(StripSpaces(value)) {
		return "Please enter a valid 16-digit card number"
	}
	return ""
}

func CardExpiry(value string) string {
	if value == "" {
		return "Expiry date is required"
	}
	if !expiryPattern.MatchString(value) {
		return "Please enter expiry in MM/YY format"
	}
	return ""
}

func CVV(value string) string {
	if value == "" {
		return "CVV is required"
	}
	if !cvvPattern.MatchString(value) {
		return "Please enter a valid CVV"
	}
	return ""
}

func UPIID(value string) string {
	if value == "" {
		return "UPI ID is required"
	}
	if !strings.Contains(value, "@") {
		return "Please enter a valid UPI ID"
	}
	return ""
}
