package validator

import (
	"errors"
	"fmt"
	"strings"

	"drively/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type CarValidator struct {
	validate *validator.Validate
}

func NewCarValidator() *CarValidator {
	return &CarValidator{validate: validator.New()}
}

func (v *CarValidator) ValidateCreate(req *model.CarRequest) error {
	return v.translate(v.validate.Struct(req))
}

// ValidateUpdate checks only the fields present in the partial update.
func (v *CarValidator) ValidateUpdate(update *model.CarUpdate) error {
	var errs ValidationErrors

	if update.Title != nil && (len(*update.Title) < 2 || len(*update.Title) > 120) {
		errs = append(errs, ValidationError{Field: "Title", Message: "Title must be between 2 and 120 characters"})
	}
	if update.PricePerDay != nil && *update.PricePerDay <= 0 {
		errs = append(errs, ValidationError{Field: "PricePerDay", Message: "PricePerDay must be greater than 0"})
	}
	if update.Category != nil && !oneOf(*update.Category, model.CategorySUV, model.CategorySedan, model.CategoryLuxury, model.CategoryElectric) {
		errs = append(errs, ValidationError{Field: "Category", Message: "Category must be one of SUV, Sedan, Luxury, Electric"})
	}
	if update.Transmission != nil && !oneOf(*update.Transmission, model.TransmissionAutomatic, model.TransmissionManual) {
		errs = append(errs, ValidationError{Field: "Transmission", Message: "Transmission must be Automatic or Manual"})
	}
	if update.FuelType != nil && !oneOf(*update.FuelType, model.FuelPetrol, model.FuelDiesel, model.FuelElectric, model.FuelHybrid) {
		errs = append(errs, ValidationError{Field: "FuelType", Message: "FuelType must be one of Petrol, Diesel, Electric, Hybrid"})
	}
	if update.Seats != nil && (*update.Seats < 1 || *update.Seats > 12) {
		errs = append(errs, ValidationError{Field: "Seats", Message: "Seats must be between 1 and 12"})
	}
	if update.Rating != nil && (*update.Rating < 0 || *update.Rating > 5) {
		errs = append(errs, ValidationError{Field: "Rating", Message: "Rating must be between 0 and 5"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func (v *CarValidator) translate(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var out ValidationErrors
	for _, fe := range validationErrs {
		message := fe.Error()
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fe.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", fe.Field())
		}
		out = append(out, ValidationError{Field: fe.Field(), Message: message})
	}
	return out
}
