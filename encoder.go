package jinhx

import (
	"context"
	"errors"
	"fmt"

	"github.com/pthm/jinhx/lib/encoding"
)

// stateTypeKey carries the component type inside a state token.
const stateTypeKey = "__type"

// StateToken encodes the fields of c into a signed (or, with a sensitive
// state key, encrypted) token. Fields holding components are left out;
// they are rebuilt by their own tags on the next render.
//
// Templates reach it through the state function:
//
//	<div hx-post="/counter" hx-vals='{"state": "{{ state }}"}'>
func (r *Renderer) StateToken(c Component) (string, error) {
	if r.encoder == nil {
		return "", ErrNoStateKey
	}
	keys, values := fieldValues(c)
	fields := make(map[string]any, len(keys)+1)
	for _, k := range keys {
		if KindOf(values[k]) == KindComponent {
			continue
		}
		fields[k] = values[k]
	}
	fields[stateTypeKey] = r.TypeName(c)

	token, err := r.encoder.Encode(fields, r.sensitive)
	if err != nil {
		return "", fmt.Errorf("jinhx: encode state of <%s>: %w", r.TypeName(c), err)
	}
	return token, nil
}

// Restore decodes a state token and rebuilds its component in the active
// instance scope, replacing any instance with the same type and id.
func (r *Renderer) Restore(ctx context.Context, token string) (Component, error) {
	if r.encoder == nil {
		return nil, ErrNoStateKey
	}
	fields, err := r.encoder.Decode(token, r.sensitive)
	if err != nil {
		return nil, wrapEncodingError(err)
	}
	typ, _ := fields[stateTypeKey].(string)
	delete(fields, stateTypeKey)
	if typ == "" {
		return nil, fmt.Errorf("%w: missing component type", ErrInvalidState)
	}

	if _, ok := r.classes.Get(typ); ok {
		return r.Construct(ctx, typ, fields)
	}
	g, err := r.generic(typ, fields)
	if err != nil {
		return nil, err
	}
	r.instances.Register(ctx, typ, g.ID, g)
	return g, nil
}

// wrapEncodingError maps encoding failures onto ErrInvalidState, keeping
// the underlying cause.
func wrapEncodingError(err error) error {
	switch {
	case errors.Is(err, encoding.ErrInvalidFormat),
		errors.Is(err, encoding.ErrSignatureInvalid),
		errors.Is(err, encoding.ErrDecryptFailed):
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	return err
}
