package model

import "time"

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusReview     TaskStatus = "review"
	StatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssignedTo  *string      `json:"assignedTo"`
	CreatedBy   string       `json:"createdBy"`
	DueDate     *time.Time   `json:"dueDate"`
	Deleted     bool         `json:"deleted"`
	Tags        []string     `json:"tags"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TaskFilter narrows a task listing. Nil fields do not filter.
type TaskFilter struct {
	Status     *TaskStatus
	Priority   *TaskPriority
	AssignedTo *string
	Deleted    *bool
	// OwnerID restricts results to tasks created by or assigned to the user.
	OwnerID string
	SortBy  string
	Desc    bool
}

// TaskPatch is a partial task update. Title, Status, Priority and Tags are
// replaced only when non-empty; the Set* flags mark nullable fields that
// were present in the request, including explicit nulls.
type TaskPatch struct {
	Title          string
	Description    *string
	SetDescription bool
	Status         TaskStatus
	Priority       TaskPriority
	AssignedTo     *string
	SetAssignedTo  bool
	DueDate        *time.Time
	SetDueDate     bool
	Tags           []string
}

// Apply merges the patch into t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != "" {
		t.Title = p.Title
	}
	if p.SetDescription {
		t.Description = ""
		if p.Description != nil {
			t.Description = *p.Description
		}
	}
	if p.Status != "" {
		t.Status = p.Status
	}
	if p.Priority != "" {
		t.Priority = p.Priority
	}
	if p.SetAssignedTo {
		t.AssignedTo = p.AssignedTo
	}
	if p.SetDueDate {
		t.DueDate = p.DueDate
	}
	if len(p.Tags) > 0 {
		t.Tags = p.Tags
	}
}
