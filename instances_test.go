package jinhx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceRegistryGlobal(t *testing.T) {
	reg := NewInstanceRegistry(discardLogger())
	ctx := context.Background()

	b := &Button{Base: Base{ID: "b"}}
	reg.Register(ctx, "Button", "b", b)

	got, ok := reg.Get(ctx, "Button", "b")
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.False(t, reg.InScope(ctx))

	reg.Clear(ctx)
	assert.Equal(t, 0, reg.Len(ctx))
}

func TestInstanceRegistryScopes(t *testing.T) {
	reg := NewInstanceRegistry(discardLogger())
	root := context.Background()
	reg.Register(root, "Button", "global", &Button{})

	outer, endOuter := reg.Scope(root)
	defer endOuter()
	assert.True(t, reg.InScope(outer))
	assert.Equal(t, 0, reg.Len(outer), "scopes start empty")

	reg.Register(outer, "Button", "o", &Button{})

	inner, endInner := reg.Scope(outer)
	_, ok := reg.Get(inner, "Button", "o")
	assert.False(t, ok, "inner scope shadows the outer one")
	reg.Register(inner, "Button", "i", &Button{})
	endInner()

	_, ok = reg.Get(outer, "Button", "i")
	assert.False(t, ok, "inner registrations do not leak")
	_, ok = reg.Get(outer, "Button", "o")
	assert.True(t, ok)
	assert.Equal(t, 1, reg.Len(root))
}

func TestInstanceRegistryEndedScope(t *testing.T) {
	var logs syncBuffer
	reg := NewInstanceRegistry(slogTo(&logs))

	ctx, end := reg.Scope(context.Background())
	reg.Register(ctx, "Button", "a", &Button{})
	end()

	assert.Equal(t, 0, reg.Len(ctx))
	reg.Register(ctx, "Button", "b", &Button{})
	assert.Equal(t, 0, reg.Len(ctx))
	assert.Contains(t, logs.String(), "registration after scope ended")
	assert.Equal(t, 0, reg.Len(context.Background()))
}

func TestInstanceRegistryOverwriteWarns(t *testing.T) {
	var logs syncBuffer
	reg := NewInstanceRegistry(slogTo(&logs))
	ctx := context.Background()

	first := &Button{Base: Base{ID: "x"}}
	reg.Register(ctx, "Button", "x", first)
	reg.Register(ctx, "Button", "x", first)
	assert.NotContains(t, logs.String(), "component instance overwritten", "re-registering the same instance is silent")

	second := &Button{Base: Base{ID: "x"}}
	reg.Register(ctx, "Button", "x", second)
	assert.Contains(t, logs.String(), "component instance overwritten")
	assert.Contains(t, logs.String(), "id=x")

	got, ok := reg.Get(ctx, "Button", "x")
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestInstanceRegistryWithScope(t *testing.T) {
	reg := NewInstanceRegistry(discardLogger())

	var inside context.Context
	err := reg.WithScope(context.Background(), func(ctx context.Context) error {
		inside = ctx
		reg.Register(ctx, "Button", "a", &Button{})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len(inside), "scope ended on return")

	assert.Panics(t, func() {
		_ = reg.WithScope(context.Background(), func(ctx context.Context) error {
			inside = ctx
			reg.Register(ctx, "Button", "a", &Button{})
			panic("boom")
		})
	})
	assert.Equal(t, 0, reg.Len(inside), "scope ended on panic")
}

func TestInstanceRegistryViews(t *testing.T) {
	reg := NewInstanceRegistry(discardLogger())
	ctx, end := reg.Scope(context.Background())
	defer end()

	btn := &Button{}
	card := &Card{}
	solo := &Button{}
	reg.Register(ctx, "Card", "x", card)
	reg.Register(ctx, "Button", "x", btn)
	reg.Register(ctx, "Button", "solo", solo)

	matches := reg.LookupID(ctx, "x")
	require.Len(t, matches, 2)
	assert.Equal(t, InstanceKey{Type: "Button", ID: "x"}, matches[0].Key)
	assert.Equal(t, InstanceKey{Type: "Card", ID: "x"}, matches[1].Key)

	byID := reg.Instances(ctx)
	assert.Len(t, byID, 1, "ids shared by two types are omitted")
	assert.Same(t, solo, byID["solo"])

	entries := reg.Entries(ctx)
	assert.Len(t, entries, 3)
	assert.Same(t, card, entries[InstanceKey{Type: "Card", ID: "x"}])
	assert.Equal(t, "Card#x", InstanceKey{Type: "Card", ID: "x"}.String())
}
