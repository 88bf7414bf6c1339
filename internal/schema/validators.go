package schema

import (
	"fmt"
	"net/mail"
	"regexp"
	"unicode"

	"citeapi.org/internal/ids"
)

var keyPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Email validates a string as an RFC 5322 address.
func Email(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be a string")
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return fmt.Errorf("not a valid email address")
	}
	return nil
}

// Length bounds the length of a string value inclusively.
func Length(min, max int) Validator {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("must be a string")
		}
		if len(s) < min || len(s) > max {
			return fmt.Errorf("length must be between %d and %d (%d)", min, max, len(s))
		}
		return nil
	}
}

// Min rejects integers below bound, quoting the offending value the way the
// API reports range violations.
func Min(name string, bound int) Validator {
	return func(value any) error {
		n, ok := value.(int)
		if !ok {
			return fmt.Errorf("must be an integer")
		}
		if n < bound {
			return fmt.Errorf("%q must be >= %d (%d)", name, bound, n)
		}
		return nil
	}
}

// Key validates the wire form of an authentication token key.
func Key(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be a string")
	}
	if !keyPattern.MatchString(s) {
		return fmt.Errorf("not a valid key")
	}
	return nil
}

// ObjectID validates an entity identifier.
func ObjectID(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be a string")
	}
	if !ids.Valid(s) {
		return fmt.Errorf("not a valid object id")
	}
	return nil
}

// Each applies v to every element of a string list.
func Each(v Validator) Validator {
	return func(value any) error {
		list, ok := value.([]string)
		if !ok {
			return fmt.Errorf("must be a list of strings")
		}
		for _, item := range list {
			if err := v(item); err != nil {
				return err
			}
		}
		return nil
	}
}

// Password enforces the credential strength rule: 8-64 characters with at
// least one lowercase, one uppercase and one digit.
func Password(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be a string")
	}
	if len(s) < 8 || len(s) > 64 {
		return fmt.Errorf("password must be 8 to 64 characters")
	}
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return fmt.Errorf("password must mix upper case, lower case and digits")
	}
	return nil
}
