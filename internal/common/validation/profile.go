package validation

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/models"
)

var validate = validator.New()

// ValidateProfile checks the numeric ranges and the income band enum.
// A nil profile is PROFILE_REQUIRED, not PROFILE_INVALID.
func ValidateProfile(profile *models.StudentProfile) error {
	if profile == nil {
		return errors.NewProfileRequiredError("")
	}
	err := validate.Struct(profile)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewProfileInvalidError(err.Error())
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Field(), fe.Tag()))
	}
	return errors.NewProfileInvalidError(strings.Join(msgs, "; "))
}
