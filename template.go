package jinhx

import (
	"errors"
	"fmt"
	"html"
	"os"
	"reflect"
	"strings"
	"text/template"

	"github.com/pthm/jinhx/lib/naming"
)

var errOutsideRender = errors.New("jinhx: template function called outside a render")

// baseFuncs are the functions every template is parsed with. component
// and state are rebound per execution.
func (r *Renderer) baseFuncs() template.FuncMap {
	fm := template.FuncMap{
		"escape": html.EscapeString,
		"default": func(def, v any) any {
			if isEmpty(v) {
				return def
			}
			return v
		},
		"join":   joinValues,
		"snake":  naming.ToSnake,
		"kebab":  naming.ToKebab,
		"pascal": naming.ToPascal,
		"component": func(...string) (Nested, error) {
			return Nested{}, errOutsideRender
		},
		"state": func() (string, error) {
			return "", errOutsideRender
		},
	}
	for k, v := range r.funcs {
		fm[k] = v
	}
	return fm
}

// template returns the parsed template at path, parsing it on first use.
func (r *Renderer) template(path string) (*template.Template, error) {
	if t, ok := r.templates.Load(path); ok {
		return t.(*template.Template), nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &TemplateError{Path: path, Err: err}
	}
	return r.parse(path, path, string(src))
}

// inlineTemplate parses a template supplied by a component.
func (r *Renderer) inlineTemplate(typeName, src string) (*template.Template, error) {
	key := "inline:" + typeName + ":" + src
	if t, ok := r.templates.Load(key); ok {
		return t.(*template.Template), nil
	}
	return r.parse(key, typeName, src)
}

func (r *Renderer) parse(key, name, src string) (*template.Template, error) {
	t := template.New(name).Funcs(r.baseFuncs())
	if r.strict {
		t = t.Option("missingkey=error")
	}
	t, err := t.Parse(src)
	if err != nil {
		return nil, &TemplateError{Path: name, Err: err}
	}
	actual, _ := r.templates.LoadOrStore(key, t)
	return actual.(*template.Template), nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return rv.IsZero()
}

func joinValues(sep string, v any) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Sprint(v)
	}
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return strings.Join(parts, sep)
}
