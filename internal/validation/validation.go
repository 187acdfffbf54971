// Package validation checks user-supplied input before it reaches storage.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxPasswordBytes is the longest password bcrypt will accept.
const MaxPasswordBytes = 72

// DefaultPasswordMinLength applies when no minimum is configured.
const DefaultPasswordMinLength = 6

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), " \t\r\n/")
	})
	return v
}

// Struct validates s against its `validate` tags and returns the first
// violation as a readable error.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return errors.New(describe(verrs[0]))
	}
	return err
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "username":
		return fmt.Sprintf("%s must not contain whitespace or slashes", field)
	case "url", "uri":
		return fmt.Sprintf("%s must be a valid URL", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}

// ValidateUsername checks presence, length and allowed characters.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is required")
	}
	if err := validate.Var(username, "max=64,username"); err != nil {
		return fmt.Errorf("username must be at most 64 characters without whitespace or slashes")
	}
	return nil
}

// ValidateEmail checks presence and format.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required")
	}
	if err := validate.Var(email, "email,max=254"); err != nil {
		return fmt.Errorf("email must be a valid email address")
	}
	return nil
}

// ValidatePassword enforces a minimum rune length and bcrypt's byte ceiling.
func ValidatePassword(password string, minLength int) error {
	if minLength <= 0 {
		minLength = DefaultPasswordMinLength
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len([]rune(password)) < minLength {
		return fmt.Errorf("password must be at least %d characters", minLength)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
	}
	return nil
}

// ValidateMessageText requires non-blank text of at most maxLen characters.
func ValidateMessageText(text string, maxLen int) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is required")
	}
	if n := len([]rune(text)); n > maxLen {
		return fmt.Errorf("text must be at most %d characters, got %d", maxLen, n)
	}
	return nil
}
