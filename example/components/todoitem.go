package components

import "github.com/pthm/jinhx"

// TodoItem is a single row of the list.
type TodoItem struct {
	jinhx.Base
	Todo  string `jinhx:"todo" validate:"required"`
	Title string `jinhx:"title"`
	Done  bool   `jinhx:"done"`
}
