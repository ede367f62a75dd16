package jinhx

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for component operations.
var (
	ErrNotFound        = errors.New("jinhx: not found")
	ErrValidation      = errors.New("jinhx: validation failed")
	ErrTypeMismatch    = errors.New("jinhx: component type mismatch")
	ErrRecursion       = errors.New("jinhx: recursive component expansion")
	ErrTemplate        = errors.New("jinhx: template error")
	ErrHydrationFailed = errors.New("jinhx: hydration failed")
	ErrNoStateKey      = errors.New("jinhx: no state key configured")
	ErrInvalidState    = errors.New("jinhx: invalid state token")
)

// IsNotFound checks if err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if err is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsTypeMismatch checks if err reports an id reused under another type.
func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}

// IsRecursion checks if err reports a self-referential expansion.
func IsRecursion(err error) bool {
	return errors.Is(err, ErrRecursion)
}

// IsTemplateError checks if err came from the template engine.
func IsTemplateError(err error) bool {
	return errors.Is(err, ErrTemplate)
}

// IsInvalidState checks if err reports a tampered or malformed state token.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// NotFoundError reports a missing template, asset or instance.
type NotFoundError struct {
	What       string // "template", "asset", "instance", "class"
	Name       string
	Candidates []string
	Root       string
	Err        error
}

func (e *NotFoundError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "jinhx: %s %s not found", e.What, e.Name)
	if e.Root != "" {
		fmt.Fprintf(&sb, " under %s", e.Root)
	}
	if len(e.Candidates) > 0 {
		fmt.Fprintf(&sb, " (tried %s)", strings.Join(e.Candidates, ", "))
	}
	return sb.String()
}

func (e *NotFoundError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNotFound}
	}
	return []error{ErrNotFound, e.Err}
}

// FieldError is one per-field diagnostic of a ValidationError.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Message
}

// ValidationError reports a component that failed schema construction.
type ValidationError struct {
	Type   string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return fmt.Sprintf("jinhx: invalid <%s>: %s", e.Type, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Field returns the diagnostic for name, if any.
func (e *ValidationError) Field(name string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldError{}, false
}

// TypeMismatchError reports a tag whose id is already registered under
// different component types.
type TypeMismatchError struct {
	ID         string
	Requested  string
	Registered []string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("jinhx: <%s id=%q>: id already registered as %s",
		e.Requested, e.ID, strings.Join(e.Registered, ", "))
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// RecursionError reports a component that expands into itself. Frames is
// the expansion path from the outermost component to the repeated one.
type RecursionError struct {
	Frames []string
}

func (e *RecursionError) Error() string {
	last := ""
	if len(e.Frames) > 0 {
		last = e.Frames[len(e.Frames)-1]
	}
	return fmt.Sprintf("jinhx: recursive expansion of %s: %s", last, strings.Join(e.Frames, " > "))
}

func (e *RecursionError) Unwrap() error { return ErrRecursion }

// TemplateError wraps a parse or execution failure from the template engine.
type TemplateError struct {
	Path string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("jinhx: template %s: %v", e.Path, e.Err)
}

func (e *TemplateError) Unwrap() []error { return []error{ErrTemplate, e.Err} }
