package domain

import "time"

// Note is a single note. IDs are assigned by the store in creation order.
// IsEdited flips to true on the first update and never reverts.
type Note struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	IsEdited  bool      `json:"is_edited"`
}

type CreateNoteRequest struct {
	Content string `json:"content" validate:"required"`
}

// UpdateNoteRequest intentionally allows empty content: an empty replacement
// carries delete semantics.
type UpdateNoteRequest struct {
	Content string `json:"content"`
}
