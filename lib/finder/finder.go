// Package finder locates template and asset files under a root directory.
//
// A Finder walks its root once, on first query, and answers every later
// query from that index. The index is never refreshed on its own: callers
// that need to see new files must drop the cached Finder (Forget) or build a
// new one.
package finder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pthm/jinhx/lib/naming"
)

// ErrNotFound is returned (wrapped in *NotFoundError) when no candidate
// file exists under the root.
var ErrNotFound = errors.New("finder: file not found")

// NotFoundError reports which names were tried and where.
type NotFoundError struct {
	Name       string
	Candidates []string
	Root       string
}

func (e *NotFoundError) Error() string {
	if len(e.Candidates) <= 1 {
		return fmt.Sprintf("finder: %s not found under %s", e.Name, e.Root)
	}
	return fmt.Sprintf("finder: no file for %s under %s (tried %s)",
		e.Name, e.Root, strings.Join(e.Candidates, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// DefaultMarkers are the files and directories that mark a project root.
var DefaultMarkers = []string{
	"go.mod",
	".git",
	"jinhx.yaml",
	"package.json",
	"README.md",
	".gitignore",
}

// DefaultSkipDirs are directory names left out of the index. Directories
// whose name starts with a dot are always skipped.
var DefaultSkipDirs = []string{"vendor", "node_modules"}

// Option configures a Finder.
type Option func(*Finder)

// WithSkipDirs replaces DefaultSkipDirs. With no names, only dot
// directories are skipped.
func WithSkipDirs(names ...string) Option {
	return func(f *Finder) { f.skip = names }
}

// Finder finds files under a root directory.
type Finder struct {
	root string
	skip []string

	once  sync.Once
	built atomic.Bool
	index map[string]string // file name -> first path found
	files []string          // every file, in walk order
}

// New creates a Finder for root. The directory is not read until the first
// query.
func New(root string, opts ...Option) *Finder {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	f := &Finder{root: filepath.Clean(root), skip: DefaultSkipDirs}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Root returns the absolute root directory.
func (f *Finder) Root() string {
	return f.root
}

// Indexed reports whether the file index has been built.
func (f *Finder) Indexed() bool {
	return f.built.Load()
}

// Len returns the number of files in the index, building it if needed.
func (f *Finder) Len() int {
	f.build()
	return len(f.files)
}

// build walks the root once. Files in a directory are indexed before its
// subdirectories, both in name order, so a shallower file wins a name clash.
func (f *Finder) build() {
	f.once.Do(func() {
		index := make(map[string]string)
		var files []string
		var walk func(dir string)
		walk = func(dir string) {
			entries, err := os.ReadDir(dir)
			if err != nil {
				return
			}
			var dirs []string
			for _, entry := range entries {
				name := entry.Name()
				if entry.IsDir() {
					if skipDir(name, f.skip) {
						continue
					}
					dirs = append(dirs, filepath.Join(dir, name))
					continue
				}
				path := filepath.Join(dir, name)
				files = append(files, path)
				if _, exists := index[name]; !exists {
					index[name] = path
				}
			}
			for _, sub := range dirs {
				walk(sub)
			}
		}
		walk(f.root)
		f.files = files
		f.index = index
		f.built.Store(true)
	})
}

// skipDir reports whether a directory is left out of the index.
func skipDir(name string, skip []string) bool {
	return strings.HasPrefix(name, ".") || slices.Contains(skip, name)
}

// Find returns the path of the first file named filename under the root.
func (f *Finder) Find(filename string) (string, error) {
	f.build()
	if path, ok := f.index[filename]; ok {
		return path, nil
	}
	return "", &NotFoundError{Name: filename, Candidates: []string{filename}, Root: f.root}
}

// FindFirst returns the path of the first candidate that exists under the
// root. Candidates are tried in order.
func (f *Finder) FindFirst(candidates []string) (string, error) {
	f.build()
	for _, name := range candidates {
		if path, ok := f.index[name]; ok {
			return path, nil
		}
	}
	name := ""
	if len(candidates) > 0 {
		name = candidates[0]
	}
	return "", &NotFoundError{Name: name, Candidates: candidates, Root: f.root}
}

// FindTemplateForTag resolves a PascalCase tag name to a template path,
// trying snake and kebab spellings for each extension in order.
//
//	ButtonGroup -> button_group.html, button-group.html, button_group.jinja, ...
func (f *Finder) FindTemplateForTag(tag string, extensions ...string) (string, error) {
	candidates := naming.TemplateCandidates(tag, extensions)
	path, err := f.FindFirst(candidates)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			nf.Name = "<" + tag + ">"
		}
		return "", err
	}
	return path, nil
}

// CollectByExtension returns every file under the root whose name ends in
// ext (case-insensitive), sorted. With relative set, paths are relative to
// the root and use forward slashes.
func (f *Finder) CollectByExtension(ext string, relative bool) []string {
	f.build()
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	ext = strings.ToLower(ext)

	var out []string
	for _, path := range f.files {
		if !strings.HasSuffix(strings.ToLower(path), ext) {
			continue
		}
		if relative {
			rel, err := filepath.Rel(f.root, path)
			if err != nil {
				continue
			}
			path = filepath.ToSlash(rel)
		}
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// CollectJavaScriptFiles returns every .js file under the root, sorted.
func (f *Finder) CollectJavaScriptFiles(relative bool) []string {
	return f.CollectByExtension(".js", relative)
}

// CollectCSSFiles returns every .css file under the root, sorted.
func (f *Finder) CollectCSSFiles(relative bool) []string {
	return f.CollectByExtension(".css", relative)
}

// FindInDirectory returns the path to filename inside dir, without
// searching subdirectories.
func FindInDirectory(dir, filename string) (string, bool) {
	if dir == "" {
		return "", false
	}
	path := filepath.Join(dir, filename)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// DetectRootDirectory walks upward from start (the working directory when
// empty) until it finds a directory containing one of markers
// (DefaultMarkers when nil). If none is found, start is returned unchanged.
func DetectRootDirectory(start string, markers []string) string {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "."
		}
		start = wd
	}
	if markers == nil {
		markers = DefaultMarkers
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return start
	}
	for {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}
