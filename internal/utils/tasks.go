package utils

import (
	"strconv"
	"strings"

	"task-assignment/backend/internal/models"
	"task-assignment/backend/internal/validation"
)

// ToCreateInput expects a payload that passed CreateTaskSchema. Optional
// fields are only set when the client sent them so defaults can be applied
// further down.
func ToCreateInput(body validation.Payload) models.TaskCreateInput {
	title, _ := body.String("title")
	userID, _ := toUint(body["userId"])

	input := models.TaskCreateInput{
		Title:  title,
		UserID: userID,
	}

	if v, ok := body.String("description"); ok {
		input.Description = &v
	}
	if v, ok := body.String("status"); ok {
		status := models.TaskStatus(v)
		input.Status = &status
	}
	if v, ok := body.String("priority"); ok {
		priority := models.TaskPriority(v)
		input.Priority = &priority
	}

	return input
}

// ToUpdateInput builds a sparse patch from the keys present in body.
func ToUpdateInput(body validation.Payload) models.TaskUpdateInput {
	var input models.TaskUpdateInput

	if v, ok := body.String("title"); ok {
		input.Title = &v
	}
	if v, ok := body.String("description"); ok {
		input.Description = &v
	}
	if v, ok := body.String("status"); ok {
		status := models.TaskStatus(v)
		input.Status = &status
	}
	if v, ok := body.String("priority"); ok {
		priority := models.TaskPriority(v)
		input.Priority = &priority
	}
	if body.Has("userId") {
		if userID, ok := toUint(body["userId"]); ok {
			input.UserID = &userID
		}
	}

	return input
}

func ToFilters(query validation.Payload) models.TaskFilters {
	var filters models.TaskFilters

	if createdAt, ok := query.Time("createdAt"); ok {
		filters.CreatedAt = &createdAt
	}
	if v, ok := query.String("status"); ok && v != "" {
		status := models.TaskStatus(v)
		filters.Status = &status
	}
	if v, ok := query.String("priority"); ok && v != "" {
		priority := models.TaskPriority(v)
		filters.Priority = &priority
	}

	return filters
}

func ToUserInput(body validation.Payload) models.UserCreateInput {
	name, _ := body.String("name")
	email, _ := body.String("email")
	return models.UserCreateInput{
		Name:  strings.TrimSpace(name),
		Email: strings.ToLower(strings.TrimSpace(email)),
	}
}

// toUint re-coerces ids; values that already went through the schema come
// back unchanged.
func toUint(value interface{}) (uint, bool) {
	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v >= 0 {
			return uint(v), true
		}
	case int64:
		if v >= 0 {
			return uint(v), true
		}
	case float64:
		if v >= 0 && v == float64(uint(v)) {
			return uint(v), true
		}
	case string:
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err == nil {
			return uint(n), true
		}
	}
	return 0, false
}
