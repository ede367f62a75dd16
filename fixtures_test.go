package jinhx

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Button is the smallest typed component.
type Button struct {
	Base
	Text string `jinhx:"text" validate:"required"`
}

// Card holds nested components in several shapes.
type Card struct {
	Base
	Title  string             `jinhx:"title"`
	Action *Button            `jinhx:"action"`
	Items  []Component        `jinhx:"items"`
	Slots  map[string]*Button `jinhx:"slots"`
}

// Counter exercises attribute conversion.
type Counter struct {
	Base
	Count   int      `jinhx:"count"`
	Step    float64  `jinhx:"step"`
	Enabled bool     `jinhx:"enabled"`
	Tags    []string `jinhx:"tags"`
	Label   string   // exposed as "label"
}

// writeFiles creates files under dir, making parent directories.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
}

// syncBuffer is a goroutine-safe log sink.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func discardLogger() *slog.Logger {
	return slogTo(io.Discard)
}

func slogTo(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, nil))
}

// testEnv is an isolated renderer over a temporary template root.
type testEnv struct {
	root      string
	classes   *ClassRegistry
	instances *InstanceRegistry
	logs      *syncBuffer
	renderer  *Renderer
}

func newTestEnv(t *testing.T, files map[string]string, opts ...Option) *testEnv {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, files)

	logs := &syncBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	env := &testEnv{
		root:      root,
		classes:   NewClassRegistry(logger),
		instances: NewInstanceRegistry(logger),
		logs:      logs,
	}
	base := []Option{
		WithRoot(root),
		WithClasses(env.classes),
		WithInstances(env.instances),
		WithLogger(logger),
		WithInlineCSS(true),
		WithInlineJS(true),
		WithAutoID(true),
		WithExtensions(".html"),
	}
	env.renderer = NewRenderer(append(base, opts...)...)
	return env
}

// register adds T to the env's registry with the root as its directory.
func register[T any, P interface {
	*T
	Component
}](env *testEnv, opts ...ClassOption) *Class {
	return RegisterIn[T, P](env.classes, append([]ClassOption{WithDir(env.root)}, opts...)...)
}
