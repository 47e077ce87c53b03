package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

var messages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"datetime": "has the wrong format",
}

// ValidateStruct checks s against its validate tags
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// FormatFirstError turns the first field error into "field message".
// Errors that did not come from the validator are returned as text.
func FormatFirstError(err error) string {
	if err == nil {
		return ""
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return err.Error()
	}
	first := validationErrors[0]
	msg, ok := messages[first.Tag()]
	if !ok {
		msg = "is invalid"
	}
	return strings.ToLower(first.Field()) + " " + msg
}

// HasTag reports whether any field failed the given tag
func HasTag(err error, tag string) bool {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	for _, fe := range validationErrors {
		if fe.Tag() == tag {
			return true
		}
	}
	return false
}
