package models

// Lookup is a normalized {id, name} reference (todo categories, priorities).
type Lookup struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Todo is a single todo item. Position is a strictly increasing integer that
// defines display order within the owner's list; it is changed only by the
// reorder protocol or by insertion at the end of the list.
type Todo struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Completed  bool    `json:"completed"`
	CategoryID int64   `json:"category_id"`
	Category   *Lookup `json:"category,omitempty"`
	DueDate    string  `json:"due_date,omitempty"`
	PriorityID int64   `json:"priority_id"`
	Priority   *Lookup `json:"priority,omitempty"`
	UserID     string  `json:"user_id,omitempty"`
	Position   int     `json:"position"`
	Active     bool    `json:"active"`
	CreatedAt  string  `json:"created_at,omitempty"`
	UpdatedAt  string  `json:"updated_at,omitempty"`
}

// TodoPayload is the body of POST /todos.
type TodoPayload struct {
	Title      string `json:"title"`
	Completed  bool   `json:"completed"`
	CategoryID int64  `json:"category_id"`
	DueDate    string `json:"due_date,omitempty"`
	PriorityID int64  `json:"priority_id"`
	Position   int    `json:"position"`
	Active     bool   `json:"active"`
}

// TodoPatch is a partial update for PUT /todos/:id. Nil fields are omitted
// from the request body.
type TodoPatch struct {
	Title      *string `json:"title,omitempty"`
	Completed  *bool   `json:"completed,omitempty"`
	CategoryID *int64  `json:"category_id,omitempty"`
	DueDate    *string `json:"due_date,omitempty"`
	PriorityID *int64  `json:"priority_id,omitempty"`
}

// Categories and Priorities mirror the backend lookup tables used by the
// todo screens. IDs must match the server-side seed data.
var Categories = []Lookup{
	{ID: 1, Name: "Work"},
	{ID: 2, Name: "Personal"},
	{ID: 3, Name: "Other"},
	{ID: 4, Name: "Health"},
}

var Priorities = []Lookup{
	{ID: 1, Name: "Low"},
	{ID: 2, Name: "Medium"},
	{ID: 3, Name: "High"},
}
