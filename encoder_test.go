package jinhx

import (
	"context"
	"errors"
	"html"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateTokenRoundTrip(t *testing.T) {
	for _, sensitive := range []bool{false, true} {
		name := "signed"
		if sensitive {
			name = "encrypted"
		}
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t, nil, WithStateKey([]byte("test-key"), sensitive))
			register[Counter](env)

			in := &Counter{Base: Base{ID: "c"}, Count: 3, Step: 0.5, Tags: []string{"a", "b"}, Label: "L"}
			token, err := env.renderer.StateToken(in)
			require.NoError(t, err)

			ctx, end := env.instances.Scope(context.Background())
			defer end()
			c, err := env.renderer.Restore(ctx, token)
			require.NoError(t, err)

			out, ok := c.(*Counter)
			require.True(t, ok)
			assert.Equal(t, "c", out.ID)
			assert.Equal(t, 3, out.Count)
			assert.Equal(t, 0.5, out.Step)
			assert.Equal(t, []string{"a", "b"}, out.Tags)
			assert.Equal(t, "L", out.Label)

			got, ok := env.instances.Get(ctx, "Counter", "c")
			require.True(t, ok)
			assert.Same(t, c, got)
		})
	}
}

func TestStateTokenGeneric(t *testing.T) {
	env := newTestEnv(t, map[string]string{"note.html": "{{.body}}"}, WithStateKey([]byte("k"), false))
	ctx := context.Background()

	g, err := env.renderer.Resolve(ctx, "Note", map[string]any{"id": "n", "body": "hello"}, "")
	require.NoError(t, err)
	token, err := env.renderer.StateToken(g)
	require.NoError(t, err)

	restored, err := env.renderer.Restore(ctx, token)
	require.NoError(t, err)
	body, _ := Field(restored, "body")
	assert.Equal(t, "hello", body)
}

func TestStateTokenSkipsComponents(t *testing.T) {
	env := newTestEnv(t, nil, WithStateKey([]byte("k"), false))
	register[Card](env)

	card := &Card{Base: Base{ID: "c"}, Title: "T", Action: &Button{Base: Base{ID: "a"}, Text: "x"}}
	token, err := env.renderer.StateToken(card)
	require.NoError(t, err)

	c, err := env.renderer.Restore(context.Background(), token)
	require.NoError(t, err)
	restored := c.(*Card)
	assert.Equal(t, "T", restored.Title)
	assert.Nil(t, restored.Action)
}

func TestStateTokenErrors(t *testing.T) {
	t.Run("no key", func(t *testing.T) {
		env := newTestEnv(t, nil)
		_, err := env.renderer.StateToken(&Button{})
		assert.ErrorIs(t, err, ErrNoStateKey)
		_, err = env.renderer.Restore(context.Background(), "x")
		assert.ErrorIs(t, err, ErrNoStateKey)
	})

	t.Run("tampered", func(t *testing.T) {
		env := newTestEnv(t, nil, WithStateKey([]byte("k"), false))
		register[Button](env)
		token, err := env.renderer.StateToken(&Button{Base: Base{ID: "b"}, Text: "t"})
		require.NoError(t, err)

		first := byte('A')
		if token[0] == 'A' {
			first = 'B'
		}
		_, err = env.renderer.Restore(context.Background(), string(first)+token[1:])
		require.Error(t, err)
		assert.True(t, IsInvalidState(err))
	})

	t.Run("wrong key", func(t *testing.T) {
		a := newTestEnv(t, nil, WithStateKey([]byte("a"), true))
		b := newTestEnv(t, nil, WithStateKey([]byte("b"), true))
		register[Button](a)
		register[Button](b)

		token, err := a.renderer.StateToken(&Button{Base: Base{ID: "b"}, Text: "t"})
		require.NoError(t, err)
		_, err = b.renderer.Restore(context.Background(), token)
		assert.True(t, IsInvalidState(err))
	})

	t.Run("garbage", func(t *testing.T) {
		env := newTestEnv(t, nil, WithStateKey([]byte("k"), false))
		_, err := env.renderer.Restore(context.Background(), "not-a-token")
		assert.True(t, IsInvalidState(err))
		assert.False(t, errors.Is(err, ErrNoStateKey))
	})
}

func TestStateTemplateFunc(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"counter.html": `<div data-state="{{ state }}">{{.count}}</div>`,
	}, WithStateKey([]byte("k"), false))
	register[Counter](env)
	ctx := context.Background()

	out, err := env.renderer.RenderString(ctx, `<Counter id="c" count="2"/>`)
	require.NoError(t, err)

	m := regexp.MustCompile(`data-state="([^"]+)">2</div>`).FindStringSubmatch(out)
	require.Len(t, m, 2, "output %q", out)

	c, err := env.renderer.Restore(ctx, html.UnescapeString(m[1]))
	require.NoError(t, err)
	assert.Equal(t, 2, c.(*Counter).Count)
}
