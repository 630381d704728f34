package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	// Register custom validations for game regions and raid roles
	_ = v.RegisterValidation("region", validateRegion)
	_ = v.RegisterValidation("role", validateRole)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a user-friendly map
// This prevents leaking internal struct names and provides cleaner error messages
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	// Check if it's a validator.ValidationErrors
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "region":
			errs[field] = "Invalid region"
		case "role":
			errs[field] = "Invalid role"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "excludesall":
			errs[field] = "Contains invalid characters"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// ValidRegions defines the supported game regions
var ValidRegions = map[string]bool{
	"us": true,
	"eu": true,
	"kr": true,
	"tw": true,
}

// Custom validation function for region
func validateRegion(fl validator.FieldLevel) bool {
	region := fl.Field().String()
	// Allow empty if not required (handled by 'required' tag if needed)
	if region == "" {
		return true
	}
	return ValidRegions[strings.ToLower(region)]
}

// ValidRoleNames mirrors domain.ValidRoles for tag-level validation
var ValidRoleNames = map[string]bool{
	"TANK":   true,
	"HEALER": true,
	"DAMAGE": true,
}

// Custom validation function for raid role
func validateRole(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	if role == "" {
		return true
	}
	return ValidRoleNames[strings.ToUpper(role)]
}
