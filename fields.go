package jinhx

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/pthm/jinhx/lib/naming"
)

// Fields is an insertion-ordered string-keyed map. The zero value is ready
// to use.
type Fields struct {
	keys   []string
	values map[string]any
}

// Set stores v under key, keeping the key's original position if present.
func (f *Fields) Set(key string, v any) {
	if f.values == nil {
		f.values = make(map[string]any)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = v
}

// Get returns the value stored under key.
func (f *Fields) Get(key string) (any, bool) {
	if f == nil || f.values == nil {
		return nil, false
	}
	v, ok := f.values[key]
	return v, ok
}

// Delete removes key.
func (f *Fields) Delete(key string) {
	if f == nil {
		return
	}
	if _, ok := f.values[key]; !ok {
		return
	}
	delete(f.values, key)
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i:i], f.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of keys.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Keys returns the keys in insertion order.
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.keys...)
}

// Range calls fn for each key in insertion order until fn returns false.
func (f *Fields) Range(fn func(key string, v any) bool) {
	if f == nil {
		return
	}
	for _, k := range f.keys {
		if !fn(k, f.values[k]) {
			return
		}
	}
}

// Map returns a copy of the fields as a plain map.
func (f *Fields) Map() map[string]any {
	out := make(map[string]any, f.Len())
	f.Range(func(k string, v any) bool {
		out[k] = v
		return true
	})
	return out
}

// field describes one declared component field.
type field struct {
	name  string
	index []int
	typ   reflect.Type
}

// fieldTables caches per-type field tables.
var fieldTables sync.Map // reflect.Type -> []field

// fieldsOf returns the declared fields of struct type t, including those
// promoted from embedded structs such as Base. Names come from the jinhx
// struct tag or the snake_case spelling of the Go field name.
func fieldsOf(t reflect.Type) []field {
	if cached, ok := fieldTables.Load(t); ok {
		return cached.([]field)
	}
	var out []field
	seen := make(map[string]bool)
	collectFields(t, nil, seen, &out)
	actual, _ := fieldTables.LoadOrStore(t, out)
	return actual.([]field)
}

func collectFields(t reflect.Type, index []int, seen map[string]bool, out *[]field) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		idx := append(append([]int(nil), index...), i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			if _, tagged := sf.Tag.Lookup("jinhx"); !tagged {
				collectFields(sf.Type, idx, seen, out)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		name := fieldName(sf)
		if name == "-" || seen[name] {
			continue
		}
		seen[name] = true
		*out = append(*out, field{name: name, index: idx, typ: sf.Type})
	}
}

// fieldName returns the template-facing name of a struct field.
func fieldName(sf reflect.StructField) string {
	if tag, ok := sf.Tag.Lookup("jinhx"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" {
			return name
		}
	}
	return naming.ToSnake(sf.Name)
}

func lookupField(table []field, name string) (field, bool) {
	for _, f := range table {
		if f.name == name {
			return f, true
		}
	}
	return field{}, false
}

// componentValue returns the struct value behind c.
func componentValue(c Component) reflect.Value {
	rv := reflect.ValueOf(c)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	return rv
}

// assignFields stores values into the declared fields of c. Keys with no
// matching field go to Base.Extra. Conversion failures are returned as
// field diagnostics; the remaining fields are still assigned.
func assignFields(c Component, values map[string]any, order []string) []FieldError {
	rv := componentValue(c)
	table := fieldsOf(rv.Type())
	extra := &c.jinhxBase().Extra

	var errs []FieldError
	for _, key := range order {
		v := values[key]
		f, ok := lookupField(table, key)
		if !ok {
			extra.Set(key, v)
			continue
		}
		if err := assign(rv.FieldByIndex(f.index), v); err != nil {
			errs = append(errs, FieldError{Field: key, Rule: "type", Message: err.Error()})
		}
	}
	return errs
}

// assign stores v into dst, converting attribute strings and decoded
// values to the field's type.
func assign(dst reflect.Value, v any) error {
	if v == nil {
		dst.SetZero()
		return nil
	}
	src := reflect.ValueOf(v)
	dt := dst.Type()
	if src.Type().AssignableTo(dt) {
		dst.Set(src)
		return nil
	}

	if dt.Kind() == reflect.Pointer {
		elem := reflect.New(dt.Elem())
		if err := assign(elem.Elem(), v); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}

	if s, ok := v.(string); ok {
		return assignString(dst, s)
	}

	switch {
	case isNumber(src.Kind()) && isNumber(dt.Kind()):
		if src.CanConvert(dt) {
			dst.Set(src.Convert(dt))
			return nil
		}
	case src.Kind() == reflect.Bool && dt.Kind() == reflect.Bool:
		dst.SetBool(src.Bool())
		return nil
	case (src.Kind() == reflect.Slice || src.Kind() == reflect.Array) && dt.Kind() == reflect.Slice:
		out := reflect.MakeSlice(dt, src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			if err := assign(out.Index(i), src.Index(i).Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		dst.Set(out)
		return nil
	case src.Kind() == reflect.Map && dt.Kind() == reflect.Map && dt.Key().Kind() == reflect.String:
		out := reflect.MakeMapWithSize(dt, src.Len())
		iter := src.MapRange()
		for iter.Next() {
			key := fmt.Sprint(iter.Key().Interface())
			elem := reflect.New(dt.Elem()).Elem()
			if err := assign(elem, iter.Value().Interface()); err != nil {
				return fmt.Errorf("key %q: %w", key, err)
			}
			out.SetMapIndex(reflect.ValueOf(key).Convert(dt.Key()), elem)
		}
		dst.Set(out)
		return nil
	}
	return fmt.Errorf("cannot use %T as %s", v, dt)
}

func assignString(dst reflect.Value, s string) error {
	switch dst.Kind() {
	case reflect.String:
		dst.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", s)
		}
		dst.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, dst.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer %q", s)
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, dst.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer %q", s)
		}
		dst.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(strings.TrimSpace(s), dst.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		dst.SetFloat(n)
	case reflect.Slice:
		if s == "" {
			dst.Set(reflect.MakeSlice(dst.Type(), 0, 0))
			return nil
		}
		parts := strings.Split(s, ",")
		out := reflect.MakeSlice(dst.Type(), len(parts), len(parts))
		for i, p := range parts {
			if err := assign(out.Index(i), strings.TrimSpace(p)); err != nil {
				return err
			}
		}
		dst.Set(out)
	case reflect.Interface:
		if !reflect.TypeOf(s).AssignableTo(dst.Type()) {
			return fmt.Errorf("cannot use string as %s", dst.Type())
		}
		dst.Set(reflect.ValueOf(s))
	default:
		return fmt.Errorf("cannot use string as %s", dst.Type())
	}
	return nil
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// fieldValues returns c's declared fields followed by its extras, in
// declaration then insertion order.
func fieldValues(c Component) (keys []string, values map[string]any) {
	rv := componentValue(c)
	values = make(map[string]any)
	if _, generic := c.(*Generic); !generic {
		for _, f := range fieldsOf(rv.Type()) {
			keys = append(keys, f.name)
			values[f.name] = rv.FieldByIndex(f.index).Interface()
		}
	} else {
		b := c.jinhxBase()
		keys = append(keys, "id", "css", "js", "html")
		values["id"], values["css"], values["js"], values["html"] = b.ID, b.CSS, b.JS, b.HTML
	}
	c.jinhxBase().Extra.Range(func(k string, v any) bool {
		if _, declared := values[k]; !declared {
			keys = append(keys, k)
			values[k] = v
		}
		return true
	})
	return keys, values
}

// Field returns the value of the named field of c, looking at declared
// fields first and then extras.
func Field(c Component, name string) (any, bool) {
	if c == nil {
		return nil, false
	}
	if _, generic := c.(*Generic); !generic {
		rv := componentValue(c)
		if f, ok := lookupField(fieldsOf(rv.Type()), name); ok {
			return rv.FieldByIndex(f.index).Interface(), true
		}
	} else if name == "id" {
		return c.jinhxBase().ID, true
	}
	return c.jinhxBase().Extra.Get(name)
}

// sortedKeys returns the keys of m sorted by name.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
