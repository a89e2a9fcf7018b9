package models

import (
	"time"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

var (
	TaskStatuses   = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}
	TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}
)

const (
	DefaultStatus   = StatusPending
	DefaultPriority = PriorityMedium
)

type Task struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Title       string       `json:"title" gorm:"not null"`
	Description *string      `json:"description"`
	Status      TaskStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Priority    TaskPriority `json:"priority" gorm:"type:varchar(20);not null;default:'medium';index"`
	UserID      uint         `json:"userId" gorm:"not null;index"`
	Assignee    *User        `json:"assignee,omitempty" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TaskCreateInput is what persistence needs to insert a task. Nil pointers
// mean the caller did not supply the field.
type TaskCreateInput struct {
	Title       string
	UserID      uint
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
}

// TaskUpdateInput is a sparse patch.
type TaskUpdateInput struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	UserID      *uint
}

func (in TaskUpdateInput) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.Status == nil &&
		in.Priority == nil && in.UserID == nil
}

// Columns returns the patch as a column map so only supplied fields are
// written.
func (in TaskUpdateInput) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if in.Title != nil {
		cols["title"] = *in.Title
	}
	if in.Description != nil {
		cols["description"] = *in.Description
	}
	if in.Status != nil {
		cols["status"] = *in.Status
	}
	if in.Priority != nil {
		cols["priority"] = *in.Priority
	}
	if in.UserID != nil {
		cols["user_id"] = *in.UserID
	}
	return cols
}

// TaskFilters holds optional list filters. Nil means not applied.
type TaskFilters struct {
	CreatedAt *time.Time
	Status    *TaskStatus
	Priority  *TaskPriority
}

type Assignee struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type TaskResponse struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	CreatedAt   time.Time    `json:"createdAt"`
	Assignee    *Assignee    `json:"assignee"`
}

func (t *Task) ToResponse() TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
	}
	if t.Assignee != nil {
		resp.Assignee = &Assignee{ID: t.Assignee.ID, Name: t.Assignee.Name}
	}
	return resp
}

func ToTaskResponses(tasks []Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, tasks[i].ToResponse())
	}
	return out
}
