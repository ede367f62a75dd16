package jinhx

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNested(t *testing.T) {
	b := &Button{Base: Base{ID: "b"}, Text: "Go"}
	n := NewNested(`<button>Go</button>`, b)

	assert.Equal(t, `<button>Go</button>`, n.String())
	assert.Equal(t, `<button>Go</button>`, fmt.Sprint(n))
	assert.Same(t, b, n.Props())
	assert.Equal(t, "Go", n.Get("text"))
	assert.Equal(t, "b", n.Get("id"))
	assert.Nil(t, n.Get("missing"))

	var buf bytes.Buffer
	require.NoError(t, n.Render(context.Background(), &buf))
	assert.Equal(t, `<button>Go</button>`, buf.String())
}

func TestNestedWithoutProps(t *testing.T) {
	n := NewNested("<hr>", nil)
	assert.Nil(t, n.Props())
	assert.Nil(t, n.Get("id"))
	assert.Equal(t, "<hr>", n.HTML())
}
