package finder

import (
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"
)

var (
	cache sync.Map // absolute root -> *Finder
	group singleflight.Group
)

// For returns the shared Finder for root, building its index on first use.
// Concurrent first calls for the same root share one directory walk.
func For(root string) *Finder {
	key := cacheKey(root)
	if f, ok := cache.Load(key); ok {
		return f.(*Finder)
	}

	v, _, _ := group.Do(key, func() (any, error) {
		if f, ok := cache.Load(key); ok {
			return f, nil
		}
		f := New(key)
		f.build()
		cache.Store(key, f)
		return f, nil
	})
	return v.(*Finder)
}

// Forget drops the shared Finder for root. The next For call rebuilds it.
func Forget(root string) {
	cache.Delete(cacheKey(root))
}

// Reset drops every shared Finder.
func Reset() {
	cache.Range(func(key, _ any) bool {
		cache.Delete(key)
		return true
	})
}

func cacheKey(root string) string {
	if abs, err := filepath.Abs(root); err == nil {
		return filepath.Clean(abs)
	}
	return filepath.Clean(root)
}
