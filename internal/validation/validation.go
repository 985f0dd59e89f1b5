// Package validation checks request payloads before they reach the services.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

const (
	minPasswordLength = 8
	maxPasswordLength = 64
)

// Struct validates v against its `validate` tags and returns a single
// readable error naming the first offending field.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Param() != "" {
			return fmt.Errorf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("%s failed %s", fe.Field(), fe.Tag())
	}
	return err
}

// ValidateUsername checks length and the allowed character set.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return errors.New("username must be 3-32 characters of letters, digits or underscores")
	}
	return nil
}

// ValidatePassword checks length and that upper case, lower case and digit
// characters are all present.
func ValidatePassword(password string) error {
	if n := len(password); n < minPasswordLength || n > maxPasswordLength {
		return fmt.Errorf("password must be %d-%d characters long", minPasswordLength, maxPasswordLength)
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return errors.New("password must contain upper case, lower case and digit characters")
	}
	return nil
}

// SplitCSV splits a comma separated list, trimming entries and dropping
// blanks and repeats while keeping first-seen order.
func SplitCSV(s string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}
