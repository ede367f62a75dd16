package components

import (
	"context"

	"github.com/pthm/jinhx"
)

// Sidebar shows the filters with their counts.
type Sidebar struct {
	jinhx.Base
	Active string         `jinhx:"active"`
	Counts map[string]int `jinhx:"counts"`
}

// Hydrate reads the counts from the store.
func (c *Sidebar) Hydrate(ctx context.Context) error {
	if store == nil {
		return nil
	}
	stats := store.Stats()
	c.Counts = map[string]int{
		"all":                   stats.Total,
		string(StatusPending):   stats.Pending,
		string(StatusCompleted): stats.Completed,
	}
	return nil
}
