package components

import (
	"context"
	"errors"

	"github.com/pthm/jinhx"
)

// TodoList renders the todos matching Filter as nested TodoItems.
type TodoList struct {
	jinhx.Base
	Filter string            `jinhx:"filter" validate:"omitempty,oneof=pending completed"`
	Items  []jinhx.Component `jinhx:"items"`
	Empty  bool              `jinhx:"empty"`
}

// Hydrate loads the todos from the store.
func (c *TodoList) Hydrate(ctx context.Context) error {
	if store == nil {
		return errors.New("todo store not configured")
	}
	var status *Status
	if c.Filter != "" {
		s := Status(c.Filter)
		status = &s
	}

	c.Items = c.Items[:0]
	for _, todo := range store.List(status) {
		c.Items = append(c.Items, &TodoItem{
			Base:  jinhx.Base{ID: "item-" + todo.ID},
			Todo:  todo.ID,
			Title: todo.Title,
			Done:  todo.Status == StatusCompleted,
		})
	}
	c.Empty = len(c.Items) == 0
	return nil
}
