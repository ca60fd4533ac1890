package validation

import (
	"fmt"
	"regexp"
)

var passcodeRegex = regexp.MustCompile(`^\d{4}$`)

// ValidatePasscode checks post passcode format: exactly 4 numeric digits.
// Format is rejected before any hash comparison is attempted.
func ValidatePasscode(code string) error {
	if !passcodeRegex.MatchString(code) {
		return fmt.Errorf("passcode must be exactly 4 digits")
	}
	return nil
}
