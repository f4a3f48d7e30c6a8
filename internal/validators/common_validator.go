package validators

import (
	"fmt"
	"regexp"
	"strings"

	"flottapool/internal/models"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("plate", validatePlate)
	validate.RegisterValidation("fuel_level", validateFuelLevel)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag,omitempty"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// Fields flattens the errors into a field -> message map for API responses.
func (v ValidationErrors) Fields() map[string]string {
	fields := make(map[string]string, len(v))
	for _, err := range v {
		fields[err.Field] = err.Message
	}
	return fields
}

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(fieldErr.Field()),
				Tag:     fieldErr.Tag(),
				Message: messageForTag(fieldErr),
			})
		}
	}

	return validationErrors
}

func messageForTag(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s", err.Param())
	case "object_id":
		return "Invalid identifier format"
	case "plate":
		return "Invalid plate format"
	case "fuel_level":
		return fmt.Sprintf("Must be one of: %s", strings.Join(models.FuelLevels, ", "))
	default:
		return fmt.Sprintf("Failed validation on '%s'", err.Tag())
	}
}

func validateObjectID(fl validator.FieldLevel) bool {
	_, err := primitive.ObjectIDFromHex(fl.Field().String())
	return err == nil
}

// Plates are stored case-normalized upper; accept 5-10 alphanumerics with
// optional spaces or dashes between groups.
var plateRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 \-]{3,10}[A-Za-z0-9]$`)

func validatePlate(fl validator.FieldLevel) bool {
	return plateRegex.MatchString(fl.Field().String())
}

func validateFuelLevel(fl validator.FieldLevel) bool {
	return models.IsValidFuelLevel(fl.Field().String())
}

// validateChecklistKeys rejects checklist entries whose item id is not part
// of the fixed catalog.
func validateChecklistKeys(checklist map[string]bool) ValidationErrors {
	var errs ValidationErrors
	for id := range checklist {
		if !models.IsValidChecklistItem(id) {
			errs = append(errs, ValidationError{
				Field:   "checklist",
				Message: fmt.Sprintf("Unknown checklist item %q", id),
			})
		}
	}
	return errs
}
