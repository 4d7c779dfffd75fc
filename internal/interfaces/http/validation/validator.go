// Package validation validates request DTOs at the HTTP boundary using
// struct tags plus the domain's node-name rule.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"dagstore-backend/internal/interfaces/http/dto"
)

// NodeNamePattern is the shape every node name must have. The same rule
// applies to edge endpoints, which reference nodes by name.
var NodeNamePattern = regexp.MustCompile(`^[a-zA-Z]+$`)

// Validator validates request structs.
type Validator struct {
	validate *validator.Validate
}

var (
	instance *Validator
	once     sync.Once
)

// GetValidator returns the shared validator instance.
func GetValidator() *Validator {
	once.Do(func() {
		instance = NewValidator()
	})
	return instance
}

// NewValidator creates a validator with the service's custom rules
// registered.
func NewValidator() *Validator {
	v := &Validator{validate: validator.New()}

	// Report field names as they appear on the wire.
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.validate.RegisterValidation("nodename", nodeNameValidator)

	return v
}

// Validate checks a request struct, returning dto.ValidationErrors when
// any field fails.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into the API's
// field-level error shape.
func (v *Validator) formatValidationError(err error) error {
	var errs dto.ValidationErrors

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errs.Errors = append(errs.Errors, dto.ValidationError{
				Field:   fieldPath(e.Namespace()),
				Message: errorMessage(e.Tag(), e.Param()),
				Code:    strings.ToUpper(e.Tag()),
			})
		}
	}

	if len(errs.Errors) > 0 {
		return errs
	}
	return err
}

// fieldPath strips the root struct name from a validator namespace,
// leaving the wire path such as "nodes[0].name".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// errorMessage renders a human-readable message for a failed rule.
func errorMessage(tag, param string) string {
	switch tag {
	case "required":
		return "Field required"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", param)
	case "max":
		return fmt.Sprintf("Must be at most %s characters", param)
	case "nodename":
		return "Node name must contain only latin letters."
	default:
		return fmt.Sprintf("Failed %s validation", tag)
	}
}

func nodeNameValidator(fl validator.FieldLevel) bool {
	return NodeNamePattern.MatchString(fl.Field().String())
}

// ValidateRequest validates a request with the shared validator.
func ValidateRequest(req interface{}) error {
	return GetValidator().Validate(req)
}
