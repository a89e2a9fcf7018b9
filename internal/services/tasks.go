package services

import (
	"context"
	"fmt"

	"task-assignment/backend/internal/models"
)

// TaskStore is the persistence the task service needs.
type TaskStore interface {
	Find(ctx context.Context, filters models.TaskFilters) ([]models.Task, error)
	FindByID(ctx context.Context, id uint) (*models.Task, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, id uint, columns map[string]interface{}) error
	Delete(ctx context.Context, id uint) (bool, error)
}

// TaskService reports absence as a nil task (or false) rather than an error;
// callers decide how to surface it.
type TaskService interface {
	ListTasks(ctx context.Context, filters models.TaskFilters) ([]models.Task, error)
	GetTaskByID(ctx context.Context, id uint) (*models.Task, error)
	CreateTask(ctx context.Context, input models.TaskCreateInput) (*models.Task, error)
	UpdateTask(ctx context.Context, id uint, patch models.TaskUpdateInput) (*models.Task, error)
	DeleteTask(ctx context.Context, id uint) (bool, error)
}

type TaskServiceImpl struct {
	store TaskStore
}

func NewTaskService(store TaskStore) *TaskServiceImpl {
	return &TaskServiceImpl{store: store}
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context, filters models.TaskFilters) ([]models.Task, error) {
	return s.store.Find(ctx, filters)
}

func (s *TaskServiceImpl) GetTaskByID(ctx context.Context, id uint) (*models.Task, error) {
	return s.store.FindByID(ctx, id)
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, input models.TaskCreateInput) (*models.Task, error) {
	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.DefaultStatus,
		Priority:    models.DefaultPriority,
		UserID:      input.UserID,
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}

	if err := s.store.Create(ctx, task); err != nil {
		return nil, err
	}

	created, err := s.store.FindByID(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("task %d vanished after insert", task.ID)
	}
	return created, nil
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, id uint, patch models.TaskUpdateInput) (*models.Task, error) {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	if !patch.IsEmpty() {
		if err := s.store.Update(ctx, id, patch.Columns()); err != nil {
			return nil, err
		}
	}

	return s.store.FindByID(ctx, id)
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id uint) (bool, error) {
	return s.store.Delete(ctx, id)
}
