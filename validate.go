package jinhx

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their template names.
	v.RegisterTagNameFunc(fieldName)
	return v
}

// validateComponent checks c against its validate struct tags. Generic
// components only need an id.
func validateComponent(typeName string, c Component) error {
	if _, ok := c.(*Generic); ok {
		if c.jinhxBase().ID == "" {
			return &ValidationError{Type: typeName, Fields: []FieldError{
				{Field: "id", Rule: "required", Message: "is required"},
			}}
		}
		return nil
	}

	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Type: typeName, Fields: []FieldError{
			{Field: "", Rule: "invalid", Message: err.Error()},
		}}
	}
	out := &ValidationError{Type: typeName}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: ruleMessage(fe),
		})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "min", "max", "len", "gte", "lte", "gt", "lt":
		return fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
	}
	if fe.Param() != "" {
		return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
	}
	return "failed " + fe.Tag()
}

// mergeFieldErrors prepends conversion diagnostics to a validation result.
func mergeFieldErrors(typeName string, conv []FieldError, err error) error {
	if len(conv) == 0 {
		return err
	}
	out := &ValidationError{Type: typeName, Fields: conv}
	var verr *ValidationError
	if errors.As(err, &verr) {
		for _, f := range verr.Fields {
			if _, dup := out.Field(f.Field); !dup {
				out.Fields = append(out.Fields, f)
			}
		}
	}
	return out
}
