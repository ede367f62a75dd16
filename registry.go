package jinhx

import (
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"reflect"
	"runtime"
	"sync"
	"sync/atomic"
)

// Class describes a registered component type.
type Class struct {
	// Name is the tag name the class answers to, e.g. "Button".
	Name string
	// Type is the struct type (not the pointer).
	Type reflect.Type
	// Dir is the directory of the file that declared the class. Templates
	// and conventional assets are looked up there first.
	Dir string

	fields []field
}

// Fields returns the template-facing names of the declared fields.
func (c *Class) Fields() []string {
	names := make([]string, len(c.fields))
	for i, f := range c.fields {
		names[i] = f.name
	}
	return names
}

// New allocates a component of this class from field values and validates
// it. The component is not registered anywhere.
func (c *Class) New(values map[string]any) (Component, error) {
	comp := reflect.New(c.Type).Interface().(Component)
	comp.jinhxBase().typeName = c.Name
	conv := assignFields(comp, values, sortedKeys(values))
	if err := mergeFieldErrors(c.Name, conv, validateComponent(c.Name, comp)); err != nil {
		return nil, err
	}
	return comp, nil
}

// ClassOption configures a class at registration.
type ClassOption func(*Class)

// WithName overrides the tag name, which defaults to the Go type name.
func WithName(name string) ClassOption {
	return func(c *Class) { c.Name = name }
}

// WithDir overrides the directory searched for templates and assets.
func WithDir(dir string) ClassOption {
	return func(c *Class) { c.Dir = dir }
}

type classSnapshot struct {
	byName map[string]*Class
	byType map[reflect.Type]*Class
}

// ClassRegistry maps tag names to component classes. Reads are lock-free;
// writers copy the maps and swap them in.
type ClassRegistry struct {
	mu     sync.Mutex
	snap   atomic.Pointer[classSnapshot]
	logger *slog.Logger
}

// NewClassRegistry creates an empty class registry. A nil logger uses
// slog.Default().
func NewClassRegistry(logger *slog.Logger) *ClassRegistry {
	reg := &ClassRegistry{logger: logger}
	reg.snap.Store(&classSnapshot{
		byName: map[string]*Class{},
		byType: map[reflect.Type]*Class{},
	})
	return reg
}

// DefaultClasses is the process-wide class registry used by Register and
// the default renderer.
var DefaultClasses = NewClassRegistry(nil)

func (reg *ClassRegistry) log() *slog.Logger {
	if reg.logger != nil {
		return reg.logger
	}
	return slog.Default()
}

// Register adds class. Registering a name twice replaces the earlier
// class and logs a warning.
func (reg *ClassRegistry) Register(class *Class) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	old := reg.snap.Load()
	next := &classSnapshot{
		byName: maps.Clone(old.byName),
		byType: maps.Clone(old.byType),
	}
	if prev, exists := next.byName[class.Name]; exists {
		reg.log().Warn("jinhx: component class overwritten",
			"name", class.Name,
			"previous", prev.Type.String(),
			"type", class.Type.String())
		if next.byType[prev.Type] == prev {
			delete(next.byType, prev.Type)
		}
	}
	next.byName[class.Name] = class
	next.byType[class.Type] = class
	reg.snap.Store(next)
}

// Get returns the class registered under name.
func (reg *ClassRegistry) Get(name string) (*Class, bool) {
	c, ok := reg.snap.Load().byName[name]
	return c, ok
}

// Lookup returns the class registered for struct type t.
func (reg *ClassRegistry) Lookup(t reflect.Type) (*Class, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	c, ok := reg.snap.Load().byType[t]
	return c, ok
}

// Classes returns a snapshot of the registered classes by name.
func (reg *ClassRegistry) Classes() map[string]*Class {
	return maps.Clone(reg.snap.Load().byName)
}

// Len returns the number of registered classes.
func (reg *ClassRegistry) Len() int {
	return len(reg.snap.Load().byName)
}

// Clear removes every class.
func (reg *ClassRegistry) Clear() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.snap.Store(&classSnapshot{
		byName: map[string]*Class{},
		byType: map[reflect.Type]*Class{},
	})
}

// Register registers T with DefaultClasses under its Go type name. The
// directory of the calling file becomes the class directory.
//
//	var _ = jinhx.Register[Button]()
//
// Register panics if T is not a struct.
func Register[T any, P interface {
	*T
	Component
}](opts ...ClassOption) *Class {
	return registerIn[T, P](DefaultClasses, callerDir(2), opts)
}

// RegisterIn is Register for an explicit registry. Generated code calls it.
func RegisterIn[T any, P interface {
	*T
	Component
}](reg *ClassRegistry, opts ...ClassOption) *Class {
	return registerIn[T, P](reg, callerDir(2), opts)
}

func registerIn[T any, P interface {
	*T
	Component
}](reg *ClassRegistry, dir string, opts []ClassOption) *Class {
	t := reflect.TypeOf((*T)(nil)).Elem()
	class, err := NewClass(t, dir, opts...)
	if err != nil {
		panic(err.Error())
	}
	reg.Register(class)
	return class
}

// NewClass builds a class for struct type t, which must embed Base.
func NewClass(t reflect.Type, dir string, opts ...ClassOption) (*Class, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("jinhx: component class must be a struct, got %s", t)
	}
	if !reflect.PointerTo(t).Implements(componentType) {
		return nil, fmt.Errorf("jinhx: %s does not embed jinhx.Base", t)
	}
	class := &Class{Name: t.Name(), Type: t, Dir: dir}
	for _, opt := range opts {
		opt(class)
	}
	if class.Name == "" {
		return nil, fmt.Errorf("jinhx: anonymous struct %s needs WithName", t)
	}
	class.fields = fieldsOf(t)
	return class, nil
}

// callerDir returns the directory of the source file skip frames up.
func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return filepath.Dir(file)
}
