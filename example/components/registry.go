package components

import "github.com/pthm/jinhx"

// Init wires the store and registers the component classes with reg.
// AddTodo and Page have no Go type; they render from their templates.
func Init(s TodoStore, reg *jinhx.ClassRegistry) {
	SetStore(s)
	jinhx.RegisterIn[TodoList](reg)
	jinhx.RegisterIn[TodoItem](reg)
	jinhx.RegisterIn[Sidebar](reg)
}
