package jinhx

import (
	"reflect"

	"github.com/a-h/templ"
)

// Component is implemented by every renderable component. User types
// satisfy it by embedding Base:
//
//	type Button struct {
//	    jinhx.Base
//	    Text string `jinhx:"text" validate:"required"`
//	}
//
// The unexported method keeps the set of component types closed to
// structs that embed Base.
type Component interface {
	jinhxBase() *Base
}

// Base carries the fields every component has. Embed it by value.
//
// ID is unique per component type within the active instance scope. CSS
// and JS list extra asset files, and HTML lists extra template files whose
// rendered output is exposed to the main template under each file's base
// name. Attributes that match no declared field are kept in Extra.
type Base struct {
	ID   string   `jinhx:"id" validate:"required"`
	CSS  []string `jinhx:"css"`
	JS   []string `jinhx:"js"`
	HTML []string `jinhx:"html"`

	Extra Fields `jinhx:"-"`

	typeName string
	autoID   bool
}

func (b *Base) jinhxBase() *Base { return b }

// Generic is the component created for a tag whose name matches no
// registered class but has a template on disk. All of its attributes live
// in Extra.
type Generic struct {
	Base

	// Name is the tag name, e.g. "Card".
	Name string `jinhx:"-"`
	// Template is the absolute path of the located template.
	Template string `jinhx:"-"`
}

// Kind classifies a field value for nested-component substitution.
type Kind int

const (
	// KindScalar is any value that is not one of the kinds below.
	KindScalar Kind = iota
	// KindComponent is a Component or a templ.Component.
	KindComponent
	// KindSequence is a slice or array (other than []byte).
	KindSequence
	// KindMapping is a map with string keys.
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindComponent:
		return "component"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "scalar"
	}
}

var (
	componentType = reflect.TypeOf((*Component)(nil)).Elem()
	templType     = reflect.TypeOf((*templ.Component)(nil)).Elem()
)

// KindOf reports the kind of v. Rendered values (Nested) and nil pointers
// are scalars.
func KindOf(v any) Kind {
	switch x := v.(type) {
	case nil, Nested, *Nested, string, []byte:
		return KindScalar
	case *Fields:
		if x == nil {
			return KindScalar
		}
		return KindMapping
	case Component, templ.Component:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return KindScalar
		}
		return KindComponent
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return KindSequence
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindMapping
		}
	}
	return KindScalar
}

// mayHoldComponents reports whether a value of type t can contain a
// component at any depth. Values that cannot are passed through unwalked.
func mayHoldComponents(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface:
		return true
	case reflect.Pointer, reflect.Struct:
		return t.Implements(componentType) || t.Implements(templType) ||
			reflect.PointerTo(t).Implements(componentType)
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return false
		}
		return mayHoldComponents(t.Elem())
	case reflect.Map:
		return t.Key().Kind() == reflect.String && mayHoldComponents(t.Elem())
	case reflect.Func:
		return t.Implements(templType)
	}
	return false
}
