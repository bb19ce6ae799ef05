package hootsweet

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

// AcceptedLanguages lists the member languages Hootsuite accepts.
var AcceptedLanguages = []string{
	"en", "ja", "fr", "it", "es", "de", "pt_BR", "pl", "id",
	"zh_CN", "zh_HK", "zh_TW", "nl", "ko", "ar", "ru", "th", "tr",
}

var (
	// ErrInvalidLanguage is returned for a member language Hootsuite does not accept.
	ErrInvalidLanguage = errors.New("invalid language")
	// ErrInvalidTimezone is returned for a member timezone that is not an IANA zone name.
	ErrInvalidTimezone = errors.New("invalid timezone")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("hootsuite_language", func(fl validator.FieldLevel) bool {
		return IsValidLanguage(fl.Field().String())
	})
	return v
}

// IsValidLanguage reports whether language is accepted for Hootsuite members.
func IsValidLanguage(language string) bool {
	return slices.Contains(AcceptedLanguages, language)
}

// IsValidTimezone reports whether timezone is a known IANA time zone name.
func IsValidTimezone(timezone string) bool {
	return validate.Var(timezone, "required,timezone") == nil
}

// validateRequest validates a request payload before any network call.
// Language and timezone failures map to ErrInvalidLanguage and ErrInvalidTimezone.
func validateRequest(name string, req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			switch fe.Tag() {
			case "hootsuite_language":
				return fmt.Errorf("%w: %q", ErrInvalidLanguage, fe.Value())
			case "timezone":
				return fmt.Errorf("%w: %q", ErrInvalidTimezone, fe.Value())
			}
		}
	}

	return fmt.Errorf("invalid %s: %w", name, err)
}
