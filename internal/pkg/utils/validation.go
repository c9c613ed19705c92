package utils

import (
	"errors"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/exceptions"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)
	validate.RegisterValidation("patient_id", validatePatientID)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

// validatePatientID rejects values that would address a nested document.
func validatePatientID(fl validator.FieldLevel) bool {
	return !strings.Contains(fl.Field().String(), "/")
}

// ToValidationError splits validator failures into missing and invalid
// fields, keyed by json name.
func ToValidationError(err error) *exceptions.ValidationError {
	result := &exceptions.ValidationError{}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		result.AddInvalid("body", constvars.ErrDevInvalidInput)
		return result
	}

	for _, fieldErr := range validationErrors {
		if fieldErr.Tag() == "required" || fieldErr.Tag() == "required_if" {
			result.AddMissing(fieldErr.Field())
			continue
		}
		result.AddInvalid(fieldErr.Field(), validationMessage(fieldErr))
	}
	return result
}

func FormatAllValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return constvars.ErrDevInvalidInput
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fieldErr.Field()+" "+validationMessage(fieldErr))
	}
	return strings.Join(messages, ", ")
}

func FormatFirstValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return validationErrors[0].Field() + " " + validationMessage(validationErrors[0])
	}
	return constvars.ErrDevInvalidInput
}

func validationMessage(fieldErr validator.FieldError) string {
	tag := fieldErr.Tag()
	customMessage, ok := constvars.CustomValidationErrorMessages[tag]
	if !ok {
		return "is invalid"
	}
	if tag == "oneof" || tag == "max" {
		customMessage = strings.Replace(customMessage, "%s", fieldErr.Param(), 1)
	}
	return customMessage
}

func ValidatePatientIDParam(patientID string) error {
	return validate.Var(patientID, "required,max=200,patient_id")
}
