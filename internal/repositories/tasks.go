package repositories

import (
	"context"
	"errors"

	"task-assignment/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// withAssignee loads only the assignee columns rendered to clients.
func withAssignee(db *gorm.DB) *gorm.DB {
	return db.Preload("Assignee", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name")
	})
}

func (r *TaskRepository) Find(ctx context.Context, filters models.TaskFilters) ([]models.Task, error) {
	query := withAssignee(r.db.WithContext(ctx).Model(&models.Task{}))

	if filters.CreatedAt != nil {
		query = query.Where("created_at = ?", *filters.CreatedAt)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Priority != nil {
		query = query.Where("priority = ?", *filters.Priority)
	}

	tasks := []models.Task{}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByID returns nil without error when no row matches.
func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := withAssignee(r.db.WithContext(ctx)).Where("id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

func (r *TaskRepository) Update(ctx context.Context, id uint, columns map[string]interface{}) error {
	if len(columns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(columns).Error
}

// Delete reports whether a row was removed.
func (r *TaskRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
