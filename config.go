package jinhx

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/pthm/jinhx/lib/finder"
	"github.com/pthm/jinhx/lib/naming"
)

// Config holds the process-wide render settings. Renderers built without
// explicit options take their defaults from it.
type Config struct {
	// Root is the template root. Empty means detect it by walking up from
	// the working directory until a marker file is found.
	Root string `yaml:"root"`
	// InlineCSS prepends collected styles to top-level output.
	InlineCSS bool `yaml:"inline_css"`
	// InlineJS appends collected scripts to top-level output.
	InlineJS bool `yaml:"inline_js"`
	// Extensions are the template extensions tried, in order.
	Extensions []string `yaml:"extensions"`
	// AutoID generates ids for tags that have none.
	AutoID bool `yaml:"auto_id"`
	// Strict fails templates on missing keys.
	Strict bool `yaml:"strict"`
	// Markers are the root-detection marker files (finder.DefaultMarkers
	// when empty).
	Markers []string `yaml:"markers"`
}

// DefaultConfig returns the settings in effect before any override.
func DefaultConfig() Config {
	return Config{
		InlineCSS:  true,
		InlineJS:   true,
		Extensions: slices.Clone(naming.DefaultExtensions),
		AutoID:     true,
	}
}

// LoadConfig reads a YAML config file. Keys absent from the file keep their
// defaults; a relative root is resolved against the file's directory.
//
//	root: templates
//	inline_js: false
//	extensions: [.html]
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("jinhx: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("jinhx: parse config %s: %w", path, err)
	}
	if cfg.Root != "" && !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}
	return cfg, nil
}

// Apply installs c as the process-wide settings.
func (c Config) Apply() {
	settings.mu.Lock()
	defer settings.mu.Unlock()
	settings.cfg = c
	settings.detected = ""
	settings.renderer = nil
}

var settings = struct {
	mu       sync.RWMutex
	cfg      Config
	detected string
	renderer *Renderer
}{cfg: DefaultConfig()}

func currentSettings() Config {
	settings.mu.RLock()
	defer settings.mu.RUnlock()
	return settings.cfg
}

func update(fn func(*Config)) {
	settings.mu.Lock()
	defer settings.mu.Unlock()
	fn(&settings.cfg)
	settings.detected = ""
	settings.renderer = nil
}

// SetRoot overrides the template root until ResetConfig.
func SetRoot(dir string) { update(func(c *Config) { c.Root = dir }) }

// Root returns the configured template root, detecting and caching it when
// none is set.
func Root() string {
	settings.mu.RLock()
	root, detected, markers := settings.cfg.Root, settings.detected, settings.cfg.Markers
	settings.mu.RUnlock()
	if root != "" {
		return root
	}
	if detected != "" {
		return detected
	}

	detected = finder.DetectRootDirectory("", markers)
	settings.mu.Lock()
	if settings.detected == "" {
		settings.detected = detected
	}
	settings.mu.Unlock()
	return detected
}

// SetInlineJS toggles script injection for renderers built afterwards.
func SetInlineJS(on bool) { update(func(c *Config) { c.InlineJS = on }) }

// InlineJS reports whether scripts are injected.
func InlineJS() bool { return currentSettings().InlineJS }

// SetInlineCSS toggles style injection for renderers built afterwards.
func SetInlineCSS(on bool) { update(func(c *Config) { c.InlineCSS = on }) }

// InlineCSS reports whether styles are injected.
func InlineCSS() bool { return currentSettings().InlineCSS }

// SetExtensions sets the template extensions tried, in order.
func SetExtensions(exts ...string) {
	update(func(c *Config) { c.Extensions = slices.Clone(exts) })
}

// Extensions returns the template extensions tried, in order.
func Extensions() []string { return slices.Clone(currentSettings().Extensions) }

// ResetConfig restores the default settings, including root detection.
func ResetConfig() { DefaultConfig().Apply() }

// Default returns the renderer built from the process-wide settings. It is
// rebuilt after any setting changes.
func Default() *Renderer {
	settings.mu.RLock()
	r := settings.renderer
	settings.mu.RUnlock()
	if r != nil {
		return r
	}

	r = NewRenderer()
	settings.mu.Lock()
	defer settings.mu.Unlock()
	if settings.renderer == nil {
		settings.renderer = r
	}
	return settings.renderer
}
