package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/jinhx"
)

func TestRenderCommand(t *testing.T) {
	t.Cleanup(jinhx.ResetConfig)
	dir := writeTree(t, map[string]string{
		"greeting.html": `<p>Hi {{.name}}</p>`,
		"greeting.css":  `p{}`,
	})

	cmd := renderCmd(&globalFlags{root: dir})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(`<div><Greeting name="Ann"/></div>`))
	cmd.SetArgs([]string{"--no-inline-css"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "<div><p>Hi Ann</p></div>\n", out.String())
}

func TestRenderCommandMissingTemplate(t *testing.T) {
	t.Cleanup(jinhx.ResetConfig)
	dir := writeTree(t, nil)

	cmd := renderCmd(&globalFlags{root: dir})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(`<Nope/>`))
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, jinhx.IsNotFound(err))
}

func TestVersionCommand(t *testing.T) {
	cmd := versionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--short"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, version+"\n", out.String())
}
