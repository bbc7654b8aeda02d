package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// ErrEmptyName marks a create/rename with a blank category name. Callers
// treat it as a no-op.
var ErrEmptyName = errors.New("category name is empty")

// CategoryInUseError rejects deleting a category that tasks still reference.
// It is the one failure with a specific user-visible message.
type CategoryInUseError struct {
	Count int64
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("cannot delete category: %d task(s) are using this category", e.Count)
}

// CategoryService wraps category business rules.
type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	category := model.Category{Name: name}
	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CategoryService) Rename(ctx context.Context, id uint, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return s.repo.Rename(ctx, id, name)
}

// Delete removes a category unless tasks still reference it, in which case
// it fails with a CategoryInUseError carrying the count.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	count, err := s.repo.CountTasks(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &CategoryInUseError{Count: count}
	}
	return s.repo.Delete(ctx, id)
}
