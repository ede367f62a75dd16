package jinhx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/a-h/templ"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/pthm/jinhx/lib/encoding"
	"github.com/pthm/jinhx/lib/finder"
	"github.com/pthm/jinhx/lib/naming"
)

// DefaultMaxDepth bounds nesting of components with generated ids within
// one render.
const DefaultMaxDepth = 64

// Renderer renders components and component markup. It is safe for
// concurrent use; each top-level call gets its own session.
type Renderer struct {
	root       string
	classes    *ClassRegistry
	instances  *InstanceRegistry
	logger     *slog.Logger
	inlineJS   bool
	inlineCSS  bool
	extensions []string
	autoID     bool
	strict     bool
	maxDepth   int
	funcs      template.FuncMap

	encoder   *encoding.Encoder
	sensitive bool

	metrics *metrics
	tracer  trace.Tracer

	templates sync.Map // absolute path -> *template.Template
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRoot sets the template root. Relative paths are made absolute.
func WithRoot(dir string) Option {
	return func(r *Renderer) { r.root = dir }
}

// WithClasses sets the class registry (DefaultClasses by default).
func WithClasses(reg *ClassRegistry) Option {
	return func(r *Renderer) { r.classes = reg }
}

// WithInstances sets the instance registry (DefaultInstances by default).
func WithInstances(reg *InstanceRegistry) Option {
	return func(r *Renderer) { r.instances = reg }
}

// WithLogger sets the logger for warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) { r.logger = logger }
}

// WithInlineJS toggles appending collected scripts to top-level output.
func WithInlineJS(on bool) Option {
	return func(r *Renderer) { r.inlineJS = on }
}

// WithInlineCSS toggles prepending collected styles to top-level output.
func WithInlineCSS(on bool) Option {
	return func(r *Renderer) { r.inlineCSS = on }
}

// WithExtensions sets the template extensions tried, in order.
func WithExtensions(exts ...string) Option {
	return func(r *Renderer) { r.extensions = exts }
}

// WithAutoID toggles generating ids for tags that have none. When off, a
// tag without an id fails validation.
func WithAutoID(on bool) Option {
	return func(r *Renderer) { r.autoID = on }
}

// WithStrict makes templates fail on missing keys instead of printing
// "<no value>".
func WithStrict(on bool) Option {
	return func(r *Renderer) { r.strict = on }
}

// WithMaxDepth bounds nesting of components with generated ids. Components
// with explicit ids only fail when their (type, id) repeats on the stack.
func WithMaxDepth(n int) Option {
	return func(r *Renderer) { r.maxDepth = n }
}

// WithFuncs adds template functions. They are available to every template
// parsed by the renderer.
func WithFuncs(funcs template.FuncMap) Option {
	return func(r *Renderer) {
		if r.funcs == nil {
			r.funcs = template.FuncMap{}
		}
		for k, v := range funcs {
			r.funcs[k] = v
		}
	}
}

// WithStateKey enables state tokens. Sensitive tokens are encrypted;
// otherwise they are signed.
func WithStateKey(key []byte, sensitive bool) Option {
	return func(r *Renderer) {
		enc, err := encoding.NewEncoder(key)
		if err != nil {
			panic(fmt.Sprintf("jinhx: failed to create encoder: %v", err))
		}
		r.encoder = enc
		r.sensitive = sensitive
	}
}

// WithMetrics registers render metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(r *Renderer) { r.metrics = newMetrics(reg) }
}

// WithTracerProvider sets the provider of render spans (the global
// provider by default).
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Renderer) { r.tracer = tp.Tracer(instrumentationName) }
}

// NewRenderer creates a renderer. Unset options come from the process-wide
// settings (see SetRoot, SetInlineJS, SetInlineCSS, SetExtensions).
func NewRenderer(opts ...Option) *Renderer {
	s := currentSettings()
	r := &Renderer{
		classes:    DefaultClasses,
		instances:  DefaultInstances,
		inlineJS:   s.InlineJS,
		inlineCSS:  s.InlineCSS,
		extensions: s.Extensions,
		autoID:     s.AutoID,
		strict:     s.Strict,
		maxDepth:   DefaultMaxDepth,
		tracer:     defaultTracer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.root == "" {
		r.root = Root()
	}
	if abs, err := filepath.Abs(r.root); err == nil {
		r.root = abs
	}
	if len(r.extensions) == 0 {
		r.extensions = naming.DefaultExtensions
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Root returns the template root.
func (r *Renderer) Root() string { return r.root }

// Classes returns the class registry.
func (r *Renderer) Classes() *ClassRegistry { return r.classes }

// Instances returns the instance registry.
func (r *Renderer) Instances() *InstanceRegistry { return r.instances }

// Finder returns the shared file index for the root.
func (r *Renderer) Finder() *finder.Finder { return finder.For(r.root) }

// Reset drops parsed templates and the file index, so later renders see
// changes on disk.
func (r *Renderer) Reset() {
	r.templates.Clear()
	finder.Forget(r.root)
}

// Output is the result of a top-level render before asset injection.
type Output struct {
	// HTML is the rendered markup.
	HTML string
	// CSS and JS are the collected asset paths, deduplicated, in the
	// order components were first rendered.
	CSS []string
	JS  []string
}

// Render renders c and returns its HTML with collected assets injected
// according to the inline settings.
func (r *Renderer) Render(ctx context.Context, c Component) (string, error) {
	out, err := r.RenderOutput(ctx, c)
	if err != nil {
		return "", err
	}
	return r.inject(ctx, out), nil
}

// RenderOutput renders c without injecting assets.
func (r *Renderer) RenderOutput(ctx context.Context, c Component) (*Output, error) {
	return r.run(ctx, "component", r.TypeName(c), func(s *session) (string, error) {
		return s.renderComponent(c)
	})
}

// RenderString expands every component tag in markup and returns the
// trimmed result with collected assets injected.
func (r *Renderer) RenderString(ctx context.Context, markup string) (string, error) {
	out, err := r.RenderStringOutput(ctx, markup)
	if err != nil {
		return "", err
	}
	return r.inject(ctx, out), nil
}

// RenderStringOutput expands markup without injecting assets.
func (r *Renderer) RenderStringOutput(ctx context.Context, markup string) (*Output, error) {
	return r.run(ctx, "string", "", func(s *session) (string, error) {
		html, err := s.expand(markup)
		return strings.TrimSpace(html), err
	})
}

// Templ adapts a component render to templ.Component.
func (r *Renderer) Templ(c Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		html, err := r.Render(ctx, c)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	})
}

// TemplString adapts a markup render to templ.Component.
func (r *Renderer) TemplString(markup string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		html, err := r.RenderString(ctx, markup)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	})
}

func (r *Renderer) run(ctx context.Context, entry, name string, fn func(*session) (string, error)) (out *Output, err error) {
	start := time.Now()
	ctx, span := startRenderSpan(ctx, r.tracer, entry, name)
	s := newSession(ctx, r)
	defer func() {
		r.metrics.observeRender(entry, start, s.count, err)
		endRenderSpan(span, out, err)
	}()

	html, err := fn(s)
	if err != nil {
		return nil, err
	}
	return &Output{HTML: html, CSS: s.css.order, JS: s.js.order}, nil
}

// inject prepends styles and appends scripts per the inline settings.
// Unreadable or empty asset files are skipped.
func (r *Renderer) inject(ctx context.Context, out *Output) string {
	logger := loggerFrom(ctx, r.logger)
	var sb strings.Builder
	if r.inlineCSS {
		for _, path := range out.CSS {
			if body, ok := r.readAsset(logger, "css", path); ok {
				sb.WriteString("<style>")
				sb.WriteString(body)
				sb.WriteString("</style>\n")
			}
		}
	}
	sb.WriteString(out.HTML)
	if r.inlineJS {
		for _, path := range out.JS {
			if body, ok := r.readAsset(logger, "js", path); ok {
				sb.WriteString("\n<script>")
				sb.WriteString(body)
				sb.WriteString("</script>")
			}
		}
	}
	return sb.String()
}

func (r *Renderer) readAsset(logger *slog.Logger, kind, path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("jinhx: failed to read asset", "kind", kind, "path", path, "error", err)
		r.metrics.assetFailed(kind)
		return "", false
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return "", false
	}
	return string(data), true
}

// TypeName returns the tag name c is registered under.
func (r *Renderer) TypeName(c Component) string {
	if g, ok := c.(*Generic); ok {
		return g.Name
	}
	if name := c.jinhxBase().typeName; name != "" {
		return name
	}
	t := reflect.TypeOf(c)
	if class, ok := r.classes.Lookup(t); ok {
		return class.Name
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func (r *Renderer) classOf(c Component) *Class {
	if _, ok := c.(*Generic); ok {
		return nil
	}
	class, ok := r.classes.Lookup(reflect.TypeOf(c))
	if !ok {
		return nil
	}
	return class
}

// Add validates c and registers it in the active instance scope, so that
// later tags with its type and id reuse it.
func (r *Renderer) Add(ctx context.Context, c Component) error {
	typ := r.TypeName(c)
	b := c.jinhxBase()
	b.typeName = typ
	if err := validateComponent(typ, c); err != nil {
		return err
	}
	r.instances.Register(ctx, typ, b.ID, c)
	return nil
}

// New validates c and registers it with the default renderer.
//
//	btn, err := jinhx.New(ctx, &Button{Base: jinhx.Base{ID: "save"}, Text: "Save"})
func New[C Component](ctx context.Context, c C) (C, error) {
	if err := Default().Add(ctx, c); err != nil {
		return c, err
	}
	return c, nil
}

// Render renders c with the default renderer.
func Render(ctx context.Context, c Component) (string, error) {
	return Default().Render(ctx, c)
}

// RenderString renders markup with the default renderer.
func RenderString(ctx context.Context, markup string) (string, error) {
	return Default().RenderString(ctx, markup)
}
