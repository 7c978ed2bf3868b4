package db

import (
	"fmt"
	"regexp"
)

// MaxIdentifierLength limits table, column and index names
const MaxIdentifierLength = 64

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier checks a table, column or index name before it is interpolated
// into a statement. Only ASCII letters, digits and underscores are accepted and the
// name must not start with a digit. Values must never go through here, they are
// passed as statement parameters.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidIdentifier)
	}

	if len(name) > MaxIdentifierLength {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidIdentifier, name, MaxIdentifierLength)
	}

	if !identifierRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}

	return nil
}

// ValidateIdentifiers validates every given name and returns the first failure
func ValidateIdentifiers(names ...string) error {
	for _, name := range names {
		if err := ValidateIdentifier(name); err != nil {
			return err
		}
	}

	return nil
}
