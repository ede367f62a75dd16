package jinhx

import (
	"context"
	"io"
)

// Nested is the rendered form of a component found in another component's
// fields. Templates print it as HTML and can still reach the original
// component through Props and Get.
//
//	{{ .action }}                    rendered HTML
//	{{ .action.Props.Text }}         original field
//	{{ .action.Get "text" }}         by template name
type Nested struct {
	html  string
	props Component
}

// NewNested wraps already-rendered HTML. props may be nil.
func NewNested(html string, props Component) Nested {
	return Nested{html: html, props: props}
}

// String returns the rendered HTML.
func (n Nested) String() string { return n.html }

// HTML returns the rendered HTML.
func (n Nested) HTML() string { return n.html }

// Props returns the component that produced the HTML, or nil for
// template-only components.
func (n Nested) Props() Component { return n.props }

// Get returns the named field of the original component, or nil when the
// field is absent or there is no original component.
func (n Nested) Get(name string) any {
	v, _ := Field(n.props, name)
	return v
}

// Render writes the HTML, making Nested usable as a templ.Component.
func (n Nested) Render(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, n.html)
	return err
}
