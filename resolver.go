package jinhx

import (
	"context"
	"errors"
	"maps"
	"strings"

	"github.com/google/uuid"

	"github.com/pthm/jinhx/lib/finder"
)

// Strategy is how a tag was resolved to a component.
type Strategy int

const (
	// StrategyInstance reused a registered instance with the tag's type and id.
	StrategyInstance Strategy = iota
	// StrategyClass constructed a registered class.
	StrategyClass
	// StrategyGeneric created a Generic for a tag with only a template.
	StrategyGeneric
)

func (s Strategy) String() string {
	switch s {
	case StrategyInstance:
		return "instance"
	case StrategyClass:
		return "class"
	case StrategyGeneric:
		return "generic"
	}
	return "unknown"
}

// Resolve turns a tag into a component, trying in order:
//
//  1. a registered instance with the same type and id, updated with attrs;
//  2. a registered class, constructed from attrs and registered;
//  3. a Generic backed by a template found for the tag name.
//
// A non-empty content is passed as the "content" field.
func (r *Renderer) Resolve(ctx context.Context, name string, attrs map[string]any, content string) (Component, error) {
	c, _, err := r.resolve(ctx, name, attrs, content)
	return c, err
}

func (r *Renderer) resolve(ctx context.Context, name string, attrs map[string]any, content string) (Component, Strategy, error) {
	values := maps.Clone(attrs)
	if values == nil {
		values = make(map[string]any)
	}
	if content != "" {
		values["content"] = content
	}

	id, explicit := stringAttr(values, "id")
	if explicit {
		if c, ok := r.instances.Get(ctx, name, id); ok {
			delete(values, "id")
			if err := r.update(c, name, values); err != nil {
				return nil, StrategyInstance, err
			}
			return c, StrategyInstance, nil
		}
		if err := r.checkMismatch(ctx, name, id); err != nil {
			return nil, StrategyInstance, err
		}
	} else if r.autoID {
		values["id"] = generateID(name)
	}

	if class, ok := r.classes.Get(name); ok {
		c, err := class.New(values)
		if err != nil {
			return nil, StrategyClass, err
		}
		c.jinhxBase().autoID = !explicit
		r.instances.Register(ctx, name, c.jinhxBase().ID, c)
		return c, StrategyClass, nil
	}

	c, err := r.generic(name, values)
	if err != nil {
		return nil, StrategyGeneric, err
	}
	c.autoID = !explicit
	r.instances.Register(ctx, name, c.ID, c)
	return c, StrategyGeneric, nil
}

// Construct builds a component of the named class from field values,
// validates it and registers it. An empty id is generated when auto ids
// are on.
func (r *Renderer) Construct(ctx context.Context, name string, fields map[string]any) (Component, error) {
	class, ok := r.classes.Get(name)
	if !ok {
		return nil, &NotFoundError{What: "class", Name: name}
	}
	values := maps.Clone(fields)
	if values == nil {
		values = make(map[string]any)
	}
	_, hasID := stringAttr(values, "id")
	if !hasID && r.autoID {
		values["id"] = generateID(name)
	}
	c, err := class.New(values)
	if err != nil {
		return nil, err
	}
	c.jinhxBase().autoID = !hasID
	r.instances.Register(ctx, name, c.jinhxBase().ID, c)
	return c, nil
}

func (r *Renderer) generic(name string, values map[string]any) (*Generic, error) {
	path, err := r.Finder().FindTemplateForTag(name, r.extensions...)
	if err != nil {
		var nf *finder.NotFoundError
		candidates := []string(nil)
		if errors.As(err, &nf) {
			candidates = nf.Candidates
		}
		return nil, &NotFoundError{What: "template", Name: "<" + name + ">", Candidates: candidates, Root: r.root, Err: err}
	}
	g := &Generic{Name: name, Template: path}
	g.typeName = name
	if conv := assignFields(g, values, sortedKeys(values)); len(conv) > 0 {
		return nil, &ValidationError{Type: name, Fields: conv}
	}
	if err := validateComponent(name, g); err != nil {
		return nil, err
	}
	return g, nil
}

// update applies attribute values to a reused instance.
func (r *Renderer) update(c Component, name string, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	conv := assignFields(c, values, sortedKeys(values))
	return mergeFieldErrors(name, conv, validateComponent(name, c))
}

// checkMismatch fails when id is registered only under other types.
func (r *Renderer) checkMismatch(ctx context.Context, name, id string) error {
	matches := r.instances.LookupID(ctx, id)
	if len(matches) == 0 {
		return nil
	}
	types := make([]string, len(matches))
	for i, m := range matches {
		types[i] = m.Key.Type
	}
	return &TypeMismatchError{ID: id, Requested: name, Registered: types}
}

func stringAttr(values map[string]any, key string) (string, bool) {
	v, ok := values[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func generateID(name string) string {
	return strings.ToLower(name) + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
