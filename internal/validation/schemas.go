package validation

import (
	"task-assignment/backend/internal/models"
)

const (
	MsgInvalidQuery    = "Invalid query parameters"
	MsgTitleRequired   = "Title is required"
	MsgDescription     = "Description must be a string"
	MsgStatus          = "Status must be one of: pending, in-progress, completed"
	MsgPriority        = "Priority must be one of: low, medium, high"
	MsgCreatedAt       = "createdAt must be an ISO-8601 datetime"
	MsgUserIDNumber    = "User ID must be a valid number"
	MsgUserIDRequired  = "User ID (assignee) is required"
	MsgTaskIDNumber    = "Task ID must be a number"
	MsgUserParamNumber = "User ID must be a number"
	MsgNameRequired    = "Name is required"
	MsgEmailRequired   = "A valid email is required"
)

var (
	statusValues   = enumValues(models.TaskStatuses)
	priorityValues = enumValues(models.TaskPriorities)
)

var statusField = Field{
	Name:  "status",
	Rules: []Rule{String(MsgStatus), OneOf(MsgStatus, statusValues...)},
}

var priorityField = Field{
	Name:  "priority",
	Rules: []Rule{String(MsgPriority), OneOf(MsgPriority, priorityValues...)},
}

// TaskQuerySchema validates list filters. Unknown keys are ignored.
var TaskQuerySchema = Schema{
	Name: "task query",
	Fields: []Field{
		{Name: "createdAt", Rules: []Rule{String(MsgCreatedAt), DateTime(MsgCreatedAt)}},
		statusField,
		priorityField,
	},
}

var taskBodySchema = Schema{
	Name: "task body",
	Fields: []Field{
		{
			Name:     "title",
			Required: true,
			Message:  MsgTitleRequired,
			Rules:    []Rule{String(MsgTitleRequired), NonEmpty(MsgTitleRequired)},
		},
		{Name: "description", Rules: []Rule{String(MsgDescription)}},
		statusField,
		priorityField,
		{Name: "userId", Rules: []Rule{Number(MsgUserIDNumber), WholeNumber(MsgUserIDNumber, false)}},
	},
}

// CreateTaskSchema requires a title and an assignee.
var CreateTaskSchema = taskBodySchema.Refine(MsgUserIDRequired, func(p Payload) bool {
	_, ok := p["userId"]
	return ok
})

// UpdateTaskSchema accepts any subset of the task body.
var UpdateTaskSchema = taskBodySchema.Partial()

var TaskIDSchema = Schema{
	Name: "task id",
	Fields: []Field{
		{
			Name:     "id",
			Required: true,
			Message:  MsgTaskIDNumber,
			Rules:    []Rule{Number(MsgTaskIDNumber), WholeNumber(MsgTaskIDNumber, true)},
		},
	},
}

var UserIDSchema = Schema{
	Name: "user id",
	Fields: []Field{
		{
			Name:     "id",
			Required: true,
			Message:  MsgUserParamNumber,
			Rules:    []Rule{Number(MsgUserParamNumber), WholeNumber(MsgUserParamNumber, true)},
		},
	},
}

var CreateUserSchema = Schema{
	Name: "user body",
	Fields: []Field{
		{
			Name:     "name",
			Required: true,
			Message:  MsgNameRequired,
			Rules:    []Rule{String(MsgNameRequired), NonEmpty(MsgNameRequired)},
		},
		{
			Name:     "email",
			Required: true,
			Message:  MsgEmailRequired,
			Rules:    []Rule{String(MsgEmailRequired), Email(MsgEmailRequired)},
		},
	},
}

func enumValues[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
