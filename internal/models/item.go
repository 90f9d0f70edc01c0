package models

// Item represents a single task on the todo list.
type Item struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Body      *string `json:"body"`
	Completed bool    `json:"completed"`
	Username  *string `json:"username"` // Owner recorded at creation time; nil when unowned.
}
