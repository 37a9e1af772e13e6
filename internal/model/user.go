package model

import "time"

// Role enumerates the account roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// User represents an account of any role.
type User struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	ParentContact *string   `json:"parent_contact,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// UpdateUserRequest is the admin payload for updating an account.
type UpdateUserRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=100"`
	Email string `json:"email" binding:"required,email"`
	Role  Role   `json:"role" binding:"required,oneof=student teacher admin"`
}

// UserQuery holds the admin list filters and pagination.
type UserQuery struct {
	Role    string `form:"role" binding:"omitempty,oneof=student teacher admin"`
	Search  string `form:"search" binding:"omitempty,max=100"`
	Page    int    `form:"page" binding:"omitempty,min=1"`
	PerPage int    `form:"per_page" binding:"omitempty,min=1,max=100"`
}
