package service

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-admin-panel/internal/model"
	"go-admin-panel/internal/resource"
)

// Validator checks field values against the rules declared on a resource.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

// CheckRules fails when a resource declares a rule the validator does not
// know. validator panics on unknown tags, so this runs once at startup.
func (val *Validator) CheckRules(resources []*resource.Resource) (err error) {
	for _, res := range resources {
		for _, f := range res.Fields {
			if f.Rules == "" {
				continue
			}
			if ruleErr := val.checkRule(f.Rules); ruleErr != nil {
				err = errors.Join(err, fmt.Errorf("resource %q field %q: %w", res.Name, f.Name, ruleErr))
			}
		}
	}

	return err
}

func (val *Validator) checkRule(rules string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid rules %q: %v", rules, r)
		}
	}()

	_ = val.v.Var("", rules)
	return nil
}

// Field validates one value and appends a message to verr on failure. A nil
// value only fails when the rules require it.
func (val *Validator) Field(verr *model.ValidationError, f resource.Field, value any) {
	if f.Rules == "" {
		return
	}

	if value == nil {
		if isRequired(f.Rules) {
			verr.Add(f.Name, "This field is required")
		}
		return
	}

	err := val.v.Var(value, f.Rules)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			verr.Add(f.Name, message(fe))
		}
		return
	}

	verr.Add(f.Name, err.Error())
}

func isRequired(rules string) bool {
	return slices.Contains(strings.Split(rules, ","), "required")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "max":
		if _, ok := fe.Value().(string); ok {
			return fmt.Sprintf("Must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "min":
		if _, ok := fe.Value().(string); ok {
			return fmt.Sprintf("Must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters long", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("Failed validation for '%s'", fe.Tag())
	}
}
