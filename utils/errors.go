package utils

import (
	"github.com/pkg/errors"
)

// NewConfigValidationError returns an error specifying that there was an error
// while validating the config section at path.
func NewConfigValidationError(path string, err error) error {
	return errors.Wrapf(err, "error validating %q", path)
}

// NewConfigValidationFieldRequiredError is used when a required field is missing or zero.
func NewConfigValidationFieldRequiredError(path, field string) error {
	return NewConfigValidationError(path, errors.Errorf("%q is required", field))
}

// NewConfigValidationRangeError is used when a field is outside of its allowed range.
func NewConfigValidationRangeError(path, field string, value interface{}, allowed string) error {
	return NewConfigValidationError(path, errors.Errorf("%q must be %s, got %v", field, allowed, value))
}
