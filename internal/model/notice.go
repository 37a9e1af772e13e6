package model

import (
	"time"

	"github.com/google/uuid"
)

// Notice represents an announcement posted to a class.
type Notice struct {
	ID          uuid.UUID `json:"id"`
	ClassID     int       `json:"class_id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	IsImportant bool      `json:"is_important"`
	CreatedBy   int       `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateNoticeRequest is the payload for posting a notice to a class.
type CreateNoticeRequest struct {
	ClassID     int    `json:"class_id" binding:"required"`
	Title       string `json:"title" binding:"required,min=2,max=200"`
	Message     string `json:"message" binding:"required,max=5000"`
	IsImportant bool   `json:"is_important"`
}
