package model

import (
	"bytes"
	"encoding/json"
	"time"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     Role   `json:"role" validate:"omitempty,oneof=user manager admin"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type UpdateProfileRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     Role   `json:"role" validate:"omitempty,oneof=user manager admin"`
}

type CreateTaskRequest struct {
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status" validate:"omitempty,oneof=todo in-progress review completed"`
	Priority    TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AssignedTo  *string      `json:"assignedTo" validate:"omitempty,uuid"`
	DueDate     *time.Time   `json:"dueDate"`
	Tags        []string     `json:"tags"`
}

// UpdateTaskRequest distinguishes absent fields from explicit nulls for the
// nullable task attributes.
type UpdateTaskRequest struct {
	Title       string       `json:"title"`
	Description Optional[string]
	Status      TaskStatus   `json:"status" validate:"omitempty,oneof=todo in-progress review completed"`
	Priority    TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AssignedTo  Optional[string]
	DueDate     Optional[time.Time]
	Tags        []string `json:"tags"`
}

func (r *UpdateTaskRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title       string          `json:"title"`
		Description json.RawMessage `json:"description"`
		Status      TaskStatus      `json:"status"`
		Priority    TaskPriority    `json:"priority"`
		AssignedTo  json.RawMessage `json:"assignedTo"`
		DueDate     json.RawMessage `json:"dueDate"`
		Tags        []string        `json:"tags"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Title = raw.Title
	r.Status = raw.Status
	r.Priority = raw.Priority
	r.Tags = raw.Tags

	if err := r.Description.decode(raw.Description); err != nil {
		return err
	}
	if err := r.AssignedTo.decode(raw.AssignedTo); err != nil {
		return err
	}
	return r.DueDate.decode(raw.DueDate)
}

// Patch converts the request into a TaskPatch.
func (r UpdateTaskRequest) Patch() TaskPatch {
	return TaskPatch{
		Title:          r.Title,
		Description:    r.Description.Value,
		SetDescription: r.Description.Present,
		Status:         r.Status,
		Priority:       r.Priority,
		AssignedTo:     r.AssignedTo.Value,
		SetAssignedTo:  r.AssignedTo.Present,
		DueDate:        r.DueDate.Value,
		SetDueDate:     r.DueDate.Present,
		Tags:           r.Tags,
	}
}

// Optional records whether a JSON field was present and, if so, its value.
// A present null leaves Value nil.
type Optional[T any] struct {
	Present bool
	Value   *T
}

func (o *Optional[T]) decode(raw json.RawMessage) error {
	if raw == nil {
		return nil
	}

	o.Present = true
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
