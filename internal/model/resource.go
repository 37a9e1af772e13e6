package model

import (
	"time"

	"github.com/google/uuid"
)

// ResourceType enumerates the kinds of class resources.
type ResourceType string

const (
	ResourceTypeFile   ResourceType = "file"
	ResourceTypeLink   ResourceType = "link"
	ResourceTypeFolder ResourceType = "folder"
)

// Resource represents a learning resource attached to a class.
type Resource struct {
	ID        uuid.UUID    `json:"id"`
	ClassID   int          `json:"class_id"`
	Name      string       `json:"name"`
	Type      ResourceType `json:"type"`
	Link      string       `json:"link"`
	CreatedAt time.Time    `json:"created_at"`
}

// CreateResourceRequest is the payload for attaching a resource to a class.
type CreateResourceRequest struct {
	ClassID int          `json:"class_id" binding:"required"`
	Name    string       `json:"name" binding:"required,min=2,max=200"`
	Type    ResourceType `json:"type" binding:"required,oneof=file link folder"`
	Link    string       `json:"link" binding:"required,max=2000"`
}
