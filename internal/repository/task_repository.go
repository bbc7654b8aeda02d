package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

// TaskRepository handles CRUD for tasks and their notes.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create stores a task and, when initialNote is non-empty, its first note in
// the same transaction.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task, initialNote string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		if initialNote != "" {
			note := model.Note{TaskID: task.ID, Body: initialNote}
			if err := tx.Create(&note).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListAll returns every task, newest first, with category and notes loaded.
// Notes come back in creation order.
func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Order("created_at DESC, id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Search matches term as a case-insensitive substring of the task subject or
// its category name. Lowering both sides keeps MySQL and Postgres in
// agreement regardless of collation.
func (r *TaskRepository) Search(ctx context.Context, term string) ([]model.Task, error) {
	pattern := "%" + strings.ToLower(term) + "%"
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Joins("JOIN categories ON categories.id = tasks.category_id").
		Where("LOWER(tasks.subject) LIKE ? OR LOWER(categories.name) LIKE ?", pattern, pattern).
		Preload("Category").
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Order("tasks.created_at DESC, tasks.id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Preload("Category").First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Update rewrites subject, category and status. ID and CreatedAt are left
// untouched; UpdatedAt advances via GORM.
func (r *TaskRepository) Update(ctx context.Context, id uint, subject string, categoryID uint, status model.Status) error {
	result := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(map[string]interface{}{
		"subject":     subject,
		"category_id": categoryID,
		"status":      status,
	})
	if result.Error != nil {
		return fmt.Errorf("update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a task together with its notes. The notes are deleted
// explicitly rather than relying on the FK cascade so the behavior is the
// same on every backend.
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.Note{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Task{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
