package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/jinhx"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

func TestPageFile(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"index.html":      "home",
		"docs/index.html": "docs",
		"docs/intro.html": "intro",
		"raw.txt":         "raw",
	})

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"/", "index.html", true},
		{"/docs/", "docs/index.html", true},
		{"/docs/intro", "docs/intro.html", true},
		{"/raw.txt", "raw.txt", true},
		{"/../../etc/passwd", "", false},
		{"/missing", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := pageFile(dir, tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, filepath.Join(dir, filepath.FromSlash(tt.want)), got)
			}
		})
	}
}

func TestRouter(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"index.html":  `<main><Hello name="world"/></main>`,
		"hello.html":  `<p>Hello {{.name}}</p>`,
		"broken.html": `<Nope/>`,
	})
	reg := prometheus.NewRegistry()
	r := jinhx.NewRenderer(jinhx.WithRoot(dir), jinhx.WithMetrics(reg))
	srv := httptest.NewServer(newRouter(r, dir, reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<main><p>Hello world</p></main>")

	resp, err = http.Get(srv.URL + "/broken")
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "jinhx_renders_total")
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var sb strings.Builder
	_, err := io.Copy(&sb, resp.Body)
	require.NoError(t, err)
	return sb.String()
}
