package model

// TodoItem is the domain model for a todo entry.
// ID is assigned by the store and never changes afterwards.
type TodoItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Stats counts completed and pending items.
func Stats(items []TodoItem) (done, pending int) {
	for _, it := range items {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
