package service

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/schooldesk/school-services/internal/models"
	appErrors "github.com/schooldesk/school-services/pkg/errors"
)

// NewValidator returns a validator configured with the domain rules. The
// pastdate rule rejects calendar dates in the future (dates of birth).
// Violations are reported under each field's JSON name so clients see the
// payload keys they actually sent.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(models.Date); ok {
			return d.Time
		}
		return nil
	}, models.Date{})
	_ = v.RegisterValidation("pastdate", func(fl validator.FieldLevel) bool {
		date, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !date.After(time.Now())
	})
	return v
}

// validationError converts validator failures into a 400 carrying one entry
// per violated field.
func validationError(err error, message string) *appErrors.Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	details := make([]appErrors.FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, appErrors.FieldViolation{
			Field:   fe.Field(),
			Message: violationMessage(fe),
		})
	}
	out := appErrors.Clone(appErrors.ErrValidation, message)
	out.Details = details
	out.Err = err
	return out
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "pastdate":
		return "must not be in the future"
	default:
		return "is invalid"
	}
}
