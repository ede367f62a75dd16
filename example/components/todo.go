package components

import "time"

// Status is the completion state of a todo.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Todo is one task.
type Todo struct {
	ID        string
	Title     string
	Status    Status
	CreatedAt time.Time
}

// TodoStats counts todos by status.
type TodoStats struct {
	Total     int
	Pending   int
	Completed int
}

// TodoStore is the storage the components read from.
type TodoStore interface {
	Get(id string) *Todo
	List(status *Status) []*Todo
	Stats() TodoStats
}

var store TodoStore

// SetStore sets the store used while hydrating components.
func SetStore(s TodoStore) { store = s }
