package validation

import (
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/cosecrets/cosecrets/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	assert.Nil(t, WrapValidationError(nil))

	err := WrapValidationError(validation.NewError("validation_test", "test failed"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "test failed")
}

func TestPasswordStrength(t *testing.T) {
	rule := PasswordStrength{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}

	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"Valid", "SecurePass123!", true},
		{"TooShort", "Ab1!", false},
		{"NoUpper", "securepass123!", false},
		{"NoLower", "SECUREPASS123!", false},
		{"NoNumber", "SecurePass!", false},
		{"NoSpecial", "SecurePass123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule.Validate(tt.password)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestPasswordStrength_NonString(t *testing.T) {
	rule := PasswordStrength{MinLength: 8}
	assert.Error(t, rule.Validate(12345))
}

func TestEmail(t *testing.T) {
	assert.NoError(t, validation.Validate("user@example.com", Email))
	assert.NoError(t, validation.Validate("first.last+tag@sub.example.co", Email))
	assert.Error(t, validation.Validate("not-an-email", Email))
	assert.Error(t, validation.Validate("user@", Email))
	assert.Error(t, validation.Validate("@example.com", Email))
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, validation.Validate("value", NotBlank))
	assert.Error(t, validation.Validate("   ", NotBlank))
	assert.Error(t, validation.Validate("\t\n", NotBlank))
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, validation.Validate("value", NoWhitespace))
	assert.NoError(t, validation.Validate("two words", NoWhitespace))
	assert.Error(t, validation.Validate(" leading", NoWhitespace))
	assert.Error(t, validation.Validate("trailing ", NoWhitespace))
}
