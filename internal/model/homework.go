package model

import (
	"time"

	"github.com/google/uuid"
)

// Homework represents an assignment posted to a class.
type Homework struct {
	ID             uuid.UUID `json:"id"`
	ClassID        int       `json:"class_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	DueDate        string    `json:"due_date"`
	AttachmentLink *string   `json:"attachment_link,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateHomeworkRequest is the payload for posting homework to a class.
type CreateHomeworkRequest struct {
	ClassID        int     `json:"class_id" binding:"required"`
	Title          string  `json:"title" binding:"required,min=2,max=200"`
	Description    string  `json:"description" binding:"omitempty,max=2000"`
	DueDate        string  `json:"due_date" binding:"required,max=50"`
	AttachmentLink *string `json:"attachment_link" binding:"omitempty"`
}
