// Package jinhx renders server-side HTML from components and markup that
// uses custom, capitalized tags.
//
// A component is a Go struct embedding Base. Its template lives next to
// the source file or anywhere under the template root, named after the
// type in snake_case or kebab-case:
//
//	type Button struct {
//	    jinhx.Base
//	    Text string `jinhx:"text" validate:"required"`
//	}
//
//	var _ = jinhx.Register[Button]()
//
//	// button.html
//	<button id="{{.id}}">{{.text}}</button>
//
// # Tags
//
// Markup passed to RenderString, or produced by any template, is scanned
// for tags whose name starts with an uppercase letter. Each tag is
// resolved to a component in this order:
//
//  1. An instance registered in the active scope with the same type and id.
//  2. A registered class with the tag's name.
//  3. A Generic component backed by a template found for the tag name.
//
// Attributes are converted to the field types of the component. The inner
// content of a paired tag is rendered first and passed as the content
// field.
//
//	<Card title="Inbox"><Button text="Open"/></Card>
//
// # Assets
//
// CSS and JS files with the component's base name are collected once per
// render, in the order components are first visited. With inlining
// enabled they are appended to the output as style and script blocks.
//
// # Instances and scopes
//
// Renderer.Add registers a configured instance. Inside WithScope, or a
// request wrapped by Middleware, registrations are private to that scope
// and vanish when it ends.
//
// # State
//
// With WithStateKey, StateToken encodes the fields of a component into a
// signed or encrypted token and Restore turns it back into a component.
// Templates reach the same function through the state func.
//
// # Errors
//
// Failures wrap one of the sentinel errors (ErrNotFound, ErrValidation,
// ErrTypeMismatch, ErrRecursion, ErrTemplate) and can be tested with
// errors.Is or the Is* helpers.
package jinhx
