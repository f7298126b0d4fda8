package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"domus/pkg/logger"
	"domus/pkg/model"

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

type ApartmentValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewApartmentValidator(log *logger.Logger) *ApartmentValidator {
	v := validator.New()

	if err := v.RegisterValidation("date_key", ValidateDateKey); err != nil {
		log.Fatal("Failed to register 'date_key' validator", "error", err)
	}
	if err := v.RegisterValidation("time_key", ValidateTimeKey); err != nil {
		log.Fatal("Failed to register 'time_key' validator", "error", err)
	}
	if err := v.RegisterValidation("time_slots_map", validateTimeSlotsMap); err != nil {
		log.Fatal("Failed to register 'time_slots_map' validator", "error", err)
	}

	log.Info("Apartment validator initialized successfully")

	return &ApartmentValidator{
		validate: v,
		logger:   log,
	}
}

// ValidateDateKey accepts calendar day keys in 2006-01-02 form.
func ValidateDateKey(fl validator.FieldLevel) bool {
	key := fl.Field().String()
	_, err := time.Parse(model.DateLayout, key)
	return err == nil
}

// ValidateTimeKey accepts slot time keys in 15:04 24-hour form.
func ValidateTimeKey(fl validator.FieldLevel) bool {
	key := fl.Field().String()
	_, err := time.Parse(model.TimeLayout, key)
	return err == nil
}

func validateTimeSlotsMap(fl validator.FieldLevel) bool {
	slots, ok := fl.Field().Interface().(map[string]map[string]bool)
	if !ok {
		return false
	}

	for dateKey, day := range slots {
		if _, err := time.Parse(model.DateLayout, dateKey); err != nil {
			return false
		}
		for timeKey := range day {
			if _, err := time.Parse(model.TimeLayout, timeKey); err != nil {
				return false
			}
		}
	}
	return true
}

func (v *ApartmentValidator) Validate(a *model.Apartment) error {
	if err := v.validate.Struct(a); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ApartmentValidator) ValidateUpdate(u *model.ApartmentUpdate) error {
	if err := v.validate.Struct(u); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ApartmentValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "e164":
			message = fmt.Sprintf("%s must be a valid E.164 phone number", err.Field())
		case "date_key":
			message = fmt.Sprintf("%s must be a calendar day in YYYY-MM-DD format", err.Field())
		case "time_key":
			message = fmt.Sprintf("%s must be a time in HH:MM 24-hour format", err.Field())
		case "time_slots_map":
			message = "time_slots keys must be YYYY-MM-DD dates mapping HH:MM times"
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
