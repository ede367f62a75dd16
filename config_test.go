package jinhx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsOverrideAndReset(t *testing.T) {
	t.Cleanup(ResetConfig)

	dir := t.TempDir()
	SetRoot(dir)
	assert.Equal(t, dir, Root())

	SetInlineJS(false)
	SetInlineCSS(false)
	SetExtensions(".tmpl")
	assert.False(t, InlineJS())
	assert.False(t, InlineCSS())
	assert.Equal(t, []string{".tmpl"}, Extensions())

	r := NewRenderer()
	assert.Equal(t, dir, r.Root())
	assert.False(t, r.inlineJS)
	assert.False(t, r.inlineCSS)
	assert.Equal(t, []string{".tmpl"}, r.extensions)

	ResetConfig()
	assert.True(t, InlineJS())
	assert.True(t, InlineCSS())
	assert.Equal(t, []string{".html", ".jinja", ".tmpl"}, Extensions())
	assert.NotEqual(t, dir, Root(), "reset returns to detection")
}

func TestRootDetection(t *testing.T) {
	t.Cleanup(ResetConfig)
	ResetConfig()

	wd, err := os.Getwd()
	require.NoError(t, err)
	// The module root carries go.mod.
	assert.Equal(t, wd, Root())
}

func TestDefaultRebuiltOnChange(t *testing.T) {
	t.Cleanup(ResetConfig)

	first := Default()
	assert.Same(t, first, Default())

	SetRoot(t.TempDir())
	second := Default()
	assert.NotSame(t, first, second)
	assert.Equal(t, Root(), second.Root())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jinhx.yaml")
	writeFiles(t, dir, map[string]string{
		"jinhx.yaml": "root: templates\ninline_js: false\nextensions: [.tmpl]\nstrict: true\n",
	})

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "templates"), cfg.Root)
	assert.False(t, cfg.InlineJS)
	assert.True(t, cfg.InlineCSS, "absent keys keep their defaults")
	assert.True(t, cfg.AutoID)
	assert.True(t, cfg.Strict)
	assert.Equal(t, []string{".tmpl"}, cfg.Extensions)

	t.Cleanup(ResetConfig)
	cfg.Apply()
	assert.Equal(t, filepath.Join(dir, "templates"), Root())
	assert.False(t, InlineJS())
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	writeFiles(t, dir, map[string]string{"bad.yaml": "root: [unclosed\n"})
	_, err = LoadConfig(filepath.Join(dir, "bad.yaml"))
	assert.Error(t, err)
}
