// Package validator holds the auth-specific validation rules.
package validator

import (
	"unicode"

	"github.com/go-playground/validator/v10"

	platformvalidator "sales_crm_backend/platform/validator"
)

// StrongPasswordTag is the tag name of the password complexity rule.
const StrongPasswordTag = "strongpassword"

// PasswordPolicy describes the password requirements for error messages.
const PasswordPolicy = "Password must be at least 8 characters and include: uppercase letter, lowercase letter, number, and special character"

// Register adds the auth rules to v.
func Register(v *platformvalidator.Validator) error {
	return v.RegisterValidation(StrongPasswordTag, validateStrongPassword)
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

// IsStrongPassword checks for at least 8 characters with an uppercase letter,
// a lowercase letter, a digit and a special character.
func IsStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasDigit   bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSpecial
}
