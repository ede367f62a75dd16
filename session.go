package jinhx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"text/template"

	"github.com/a-h/templ"

	"github.com/pthm/jinhx/lib/finder"
	"github.com/pthm/jinhx/lib/naming"
	"github.com/pthm/jinhx/lib/parser"
)

// frame is one component on the expansion stack. id is empty for
// components whose id was generated.
type frame struct {
	typ string
	id  string
}

func (f frame) String() string {
	if f.id == "" {
		return "<" + f.typ + ">"
	}
	return fmt.Sprintf("<%s id=%q>", f.typ, f.id)
}

// assetSet is an ordered set of absolute asset paths.
type assetSet struct {
	seen  map[string]bool
	order []string
}

func (a *assetSet) add(path string) {
	if a.seen == nil {
		a.seen = make(map[string]bool)
	}
	if a.seen[path] {
		return
	}
	a.seen[path] = true
	a.order = append(a.order, path)
}

// session holds the state of one top-level render: collected assets and
// the expansion stack. Nested renders share it.
type session struct {
	ctx    context.Context
	r      *Renderer
	logger *slog.Logger

	css   assetSet
	js    assetSet
	stack     []frame
	generated int // frames on stack with generated ids
	count     int
}

func newSession(ctx context.Context, r *Renderer) *session {
	return &session{ctx: ctx, r: r, logger: loggerFrom(ctx, r.logger)}
}

// push enters f. A frame with an explicit id fails only when it is already
// on the stack; frames with generated ids are bounded by maxDepth instead.
func (s *session) push(f frame) error {
	switch {
	case f.id != "" && slices.Contains(s.stack, f):
		return s.recursion(f)
	case f.id == "" && s.generated >= s.r.maxDepth:
		return s.recursion(f)
	case f.id == "":
		s.generated++
	}
	s.stack = append(s.stack, f)
	return nil
}

func (s *session) pop() {
	if s.stack[len(s.stack)-1].id == "" {
		s.generated--
	}
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *session) recursion(f frame) error {
	frames := make([]string, 0, len(s.stack)+1)
	for _, g := range s.stack {
		frames = append(frames, g.String())
	}
	return &RecursionError{Frames: append(frames, f.String())}
}

// source is a located main template plus the extra template files to
// expose to it.
type source struct {
	path   string
	tmpl   *template.Template
	extras []string
}

// renderComponent renders c: assets first, then nested components in its
// fields, then its template, then any component tags in the output.
func (s *session) renderComponent(c Component) (string, error) {
	b := c.jinhxBase()
	typ := s.r.TypeName(c)
	f := frame{typ: typ}
	if !b.autoID {
		f.id = b.ID
	}
	if err := s.push(f); err != nil {
		return "", err
	}
	defer s.pop()
	s.count++

	if h, ok := c.(Hydrater); ok {
		if err := h.Hydrate(s.ctx); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrHydrationFailed, f, err)
		}
	}

	class := s.r.classOf(c)
	src, err := s.locate(c, typ, class)
	if err != nil {
		return "", err
	}
	dir := ""
	if src.path != "" {
		dir = filepath.Dir(src.path)
	}
	s.collectAssets(c, typ, class, dir)

	keys, values := fieldValues(c)
	data := make(map[string]any, len(keys)+len(src.extras))
	for _, k := range keys {
		v, err := s.substitute(values[k])
		if err != nil {
			return "", err
		}
		data[k] = v
	}
	for _, path := range src.extras {
		t, err := s.r.template(path)
		if err != nil {
			return "", err
		}
		html, err := s.execute(t, path, data, c)
		if err != nil {
			return "", err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		data[name] = Nested{html: html}
	}

	out, err := s.execute(src.tmpl, src.path, data, c)
	if err != nil {
		return "", err
	}
	return out, nil
}

// locate finds the main template of c and resolves its extra templates.
func (s *session) locate(c Component, typ string, class *Class) (source, error) {
	b := c.jinhxBase()
	var extras []string
	for _, p := range b.HTML {
		abs, ok := s.r.resolvePath(p)
		if !ok {
			return source{}, &NotFoundError{What: "template", Name: p, Root: s.r.root}
		}
		extras = append(extras, abs)
	}

	if ts, ok := c.(TemplateSourcer); ok {
		if text := ts.TemplateSource(); text != "" {
			t, err := s.r.inlineTemplate(typ, text)
			return source{tmpl: t, extras: extras}, err
		}
	}

	path, err := s.findTemplate(c, typ, class)
	if err != nil {
		if len(extras) != 1 {
			return source{}, err
		}
		path, extras = extras[0], nil
	}
	t, err := s.r.template(path)
	if err != nil {
		return source{}, err
	}
	return source{path: path, tmpl: t, extras: extras}, nil
}

// findTemplate looks in the class directory, then under the root.
func (s *session) findTemplate(c Component, typ string, class *Class) (string, error) {
	if g, ok := c.(*Generic); ok && g.Template != "" {
		return g.Template, nil
	}
	candidates := naming.TemplateCandidates(typ, s.r.extensions)
	if class != nil {
		for _, name := range candidates {
			if path, ok := finder.FindInDirectory(class.Dir, name); ok {
				return path, nil
			}
		}
	}
	path, err := s.r.Finder().FindTemplateForTag(typ, s.r.extensions...)
	if err != nil {
		return "", &NotFoundError{
			What:       "template",
			Name:       "<" + typ + ">",
			Candidates: candidates,
			Root:       s.r.root,
			Err:        err,
		}
	}
	return path, nil
}

// collectAssets records the conventional kebab-case assets next to the
// class and template, then the component's extra assets.
func (s *session) collectAssets(c Component, typ string, class *Class, tmplDir string) {
	var dirs []string
	if class != nil && class.Dir != "" {
		dirs = append(dirs, class.Dir)
	}
	if tmplDir != "" && !slices.Contains(dirs, tmplDir) {
		dirs = append(dirs, tmplDir)
	}

	kebab := naming.ToKebab(typ)
	for _, dir := range dirs {
		if path, ok := finder.FindInDirectory(dir, kebab+".css"); ok {
			s.css.add(path)
			break
		}
	}
	for _, dir := range dirs {
		if path, ok := finder.FindInDirectory(dir, kebab+".js"); ok {
			s.js.add(path)
			break
		}
	}

	b := c.jinhxBase()
	s.addExtras("css", typ, b.CSS, &s.css)
	s.addExtras("js", typ, b.JS, &s.js)
}

func (s *session) addExtras(kind, typ string, paths []string, into *assetSet) {
	for _, p := range paths {
		abs, ok := s.r.resolvePath(p)
		if !ok {
			s.logger.Warn("jinhx: asset not found", "kind", kind, "path", p, "component", typ)
			s.r.metrics.assetFailed(kind)
			continue
		}
		into.add(abs)
	}
}

// substitute replaces every component in v, at any depth, with its
// rendered Nested form.
func (s *session) substitute(v any) (any, error) {
	switch KindOf(v) {
	case KindComponent:
		return s.renderValue(v)

	case KindSequence:
		rv := reflect.ValueOf(v)
		if !mayHoldComponents(rv.Type().Elem()) {
			return v, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			elem, err := s.substitute(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = elem
		}
		return out, nil

	case KindMapping:
		if f, ok := v.(*Fields); ok {
			v = f.Map()
		}
		rv := reflect.ValueOf(v)
		if !mayHoldComponents(rv.Type().Elem()) {
			return v, nil
		}
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(a.String(), b.String())
		})
		out := make(map[string]any, len(keys))
		for _, k := range keys {
			elem, err := s.substitute(rv.MapIndex(k).Interface())
			if err != nil {
				return nil, err
			}
			out[k.String()] = elem
		}
		return out, nil
	}

	// A component stored by value.
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.Struct && reflect.PointerTo(rv.Type()).Implements(componentType) {
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		return s.renderValue(p.Interface())
	}
	return v, nil
}

func (s *session) renderValue(v any) (Nested, error) {
	switch x := v.(type) {
	case Component:
		html, err := s.renderComponent(x)
		if err != nil {
			return Nested{}, err
		}
		return Nested{html: html, props: propsOf(x)}, nil
	case templ.Component:
		var sb strings.Builder
		if err := x.Render(s.ctx, &sb); err != nil {
			return Nested{}, err
		}
		return Nested{html: sb.String()}, nil
	}
	return Nested{}, fmt.Errorf("jinhx: %T is not a component", v)
}

func propsOf(c Component) Component {
	if _, ok := c.(*Generic); ok {
		return nil
	}
	return c
}

// execute runs t against data with the per-component functions bound,
// then expands component tags in the output.
func (s *session) execute(t *template.Template, path string, data map[string]any, c Component) (string, error) {
	clone, err := t.Clone()
	if err != nil {
		return "", &TemplateError{Path: path, Err: err}
	}
	clone.Funcs(s.funcs(c))

	var sb strings.Builder
	if err := clone.Execute(&sb, data); err != nil {
		if cause := renderCause(err); cause != nil {
			return "", cause
		}
		if path == "" {
			path = s.r.TypeName(c)
		}
		return "", &TemplateError{Path: path, Err: err}
	}
	return s.expand(sb.String())
}

// renderCause returns the render error a template function raised, so a
// failure inside a nested component surfaces as itself.
func renderCause(err error) error {
	var (
		nf  *NotFoundError
		ve  *ValidationError
		tm  *TypeMismatchError
		rec *RecursionError
		te  *TemplateError
	)
	switch {
	case errors.As(err, &rec):
		return rec
	case errors.As(err, &tm):
		return tm
	case errors.As(err, &ve):
		return ve
	case errors.As(err, &nf):
		return nf
	case errors.As(err, &te):
		return te
	case errors.Is(err, ErrHydrationFailed), errors.Is(err, ErrNoStateKey):
		return err
	}
	return nil
}

// funcs binds the template functions that need the session.
func (s *session) funcs(c Component) template.FuncMap {
	return template.FuncMap{
		"component": func(args ...string) (Nested, error) {
			target, err := s.lookup(args)
			if err != nil {
				return Nested{}, err
			}
			html, err := s.renderComponent(target)
			if err != nil {
				return Nested{}, err
			}
			return Nested{html: strings.TrimSpace(html), props: propsOf(target)}, nil
		},
		"state": func() (string, error) {
			return s.r.StateToken(c)
		},
	}
}

// lookup finds a registered instance by id, or by type and id.
func (s *session) lookup(args []string) (Component, error) {
	switch len(args) {
	case 1:
		id := args[0]
		matches := s.r.instances.LookupID(s.ctx, id)
		switch len(matches) {
		case 0:
			return nil, &NotFoundError{What: "instance", Name: "#" + id}
		case 1:
			return matches[0].Component, nil
		}
		types := make([]string, len(matches))
		for i, m := range matches {
			types[i] = m.Key.Type
		}
		return nil, fmt.Errorf("jinhx: id %q is shared by %s; pass the type too", id, strings.Join(types, ", "))
	case 2:
		c, ok := s.r.instances.Get(s.ctx, args[0], args[1])
		if !ok {
			return nil, &NotFoundError{What: "instance", Name: args[0] + "#" + args[1]}
		}
		return c, nil
	}
	return nil, errors.New(`jinhx: usage: component "id" or component "Type" "id"`)
}

// expand renders every component tag in markup. Component output replaces
// its tag trimmed of surrounding whitespace.
func (s *session) expand(markup string) (string, error) {
	if !parser.HasComponentTags(markup) {
		return markup, nil
	}
	var sb strings.Builder
	for _, n := range parser.Parse(markup) {
		if n.Kind == parser.KindText {
			sb.WriteString(n.Raw)
			continue
		}
		html, err := s.renderTag(n)
		if err != nil {
			return "", err
		}
		sb.WriteString(html)
	}
	return sb.String(), nil
}

func (s *session) renderTag(n parser.Node) (string, error) {
	content := ""
	if n.Inner != "" {
		inner, err := s.expand(n.Inner)
		if err != nil {
			return "", err
		}
		content = strings.TrimSpace(inner)
	}

	c, strategy, err := s.r.resolve(s.ctx, n.Name, n.AttrMap(), content)
	if err != nil {
		return "", err
	}
	s.r.metrics.resolved(strategy)
	s.logger.Debug("jinhx: resolved tag", "tag", n.Name, "id", c.jinhxBase().ID, "strategy", strategy.String())

	html, err := s.renderComponent(c)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(html), nil
}

// resolvePath resolves p against the root, then the working directory.
func (r *Renderer) resolvePath(p string) (string, bool) {
	tries := []string{p}
	if !filepath.IsAbs(p) {
		tries = []string{filepath.Join(r.root, p), p}
	}
	for _, try := range tries {
		abs, err := filepath.Abs(try)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			return abs, true
		}
	}
	return "", false
}
