// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/actionguard/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// GlobPattern validates that a string is a well-formed glob pattern.
var GlobPattern = validation.NewStringRuleWithError(
	func(s string) bool {
		return doublestar.ValidatePattern(s)
	},
	validation.NewError("validation_glob_pattern", "must be a valid glob pattern"),
)

// ModelStrength validates that a string is one of the known model strength levels.
var ModelStrength = validation.NewStringRuleWithError(
	func(s string) bool {
		switch s {
		case "weak", "medium", "strong":
			return true
		}
		return false
	},
	validation.NewError("validation_model_strength", "must be one of: weak, medium, strong"),
)

// SecretSourceKind validates that a string names a known or reserved secret source kind.
var SecretSourceKind = validation.NewStringRuleWithError(
	func(s string) bool {
		switch s {
		case "env", "oauth", "external":
			return true
		}
		return false
	},
	validation.NewError("validation_secret_source", "must be one of: env, oauth, external"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
