package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// noteSeparator joins a task's notes for tabular display.
const noteSeparator = " | "

var (
	// ErrEmptySubject marks a create/update with a blank subject; callers
	// treat it as a no-op.
	ErrEmptySubject = errors.New("task subject is empty")
	// ErrEmptySearch marks a search with a blank term; callers treat it as
	// a no-op.
	ErrEmptySearch = errors.New("search term is empty")
	// ErrEmptyNote marks an add-note with blank text; callers treat it as
	// a no-op.
	ErrEmptyNote = errors.New("note text is empty")
	// ErrInvalidStatus marks a status outside the supported enum.
	ErrInvalidStatus = errors.New("invalid task status")
	// ErrUnknownCategory marks a task pointing at a category that does not
	// exist.
	ErrUnknownCategory = errors.New("unknown category")
)

// TaskInput carries form data for creating or updating a task.
type TaskInput struct {
	Subject    string
	CategoryID uint
	Status     model.Status
	Note       string
}

// TaskView is one row of the task listing: the task joined with its category
// name and its notes concatenated in creation order.
type TaskView struct {
	ID           uint         `json:"id"`
	Subject      string       `json:"subject"`
	CategoryID   uint         `json:"category_id"`
	CategoryName string       `json:"category_name"`
	Status       model.Status `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Notes        string       `json:"notes"`
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	noteRepo     *repository.NoteRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository, noteRepo *repository.NoteRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, categoryRepo: categoryRepo, noteRepo: noteRepo}
}

// Create validates the input and stores a new task, plus its initial note
// when the note text is non-blank.
func (s *TaskService) Create(ctx context.Context, input TaskInput) (*model.Task, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, ErrEmptySubject
	}

	status := input.Status
	if status == "" {
		status = model.StatusIdea
	}
	if !model.IsValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, input.Status)
	}

	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	task := model.Task{
		Subject:    subject,
		CategoryID: input.CategoryID,
		Status:     status,
	}
	if err := s.taskRepo.Create(ctx, &task, strings.TrimSpace(input.Note)); err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns all tasks as display rows, newest first.
func (s *TaskService) List(ctx context.Context) ([]TaskView, error) {
	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toViews(tasks), nil
}

// Search returns display rows whose subject or category name contains term,
// case-insensitively. A blank term is a no-op.
func (s *TaskService) Search(ctx context.Context, term string) ([]TaskView, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptySearch
	}
	tasks, err := s.taskRepo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return toViews(tasks), nil
}

func (s *TaskService) Get(ctx context.Context, id uint) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, id)
}

// Update rewrites subject, category and status of an existing task.
func (s *TaskService) Update(ctx context.Context, id uint, input TaskInput) error {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return ErrEmptySubject
	}
	if !model.IsValidStatus(input.Status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, input.Status)
	}
	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return err
	}
	return s.taskRepo.Update(ctx, id, subject, input.CategoryID, input.Status)
}

// AddNote appends a note to an existing task. Blank text is a no-op error.
func (s *TaskService) AddNote(ctx context.Context, taskID uint, body string) (*model.Note, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyNote
	}
	if _, err := s.taskRepo.FindByID(ctx, taskID); err != nil {
		return nil, err
	}
	note := model.Note{TaskID: taskID, Body: body}
	if err := s.noteRepo.Create(ctx, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Notes returns the task's notes, newest first.
func (s *TaskService) Notes(ctx context.Context, taskID uint) ([]model.Note, error) {
	return s.noteRepo.ListByTask(ctx, taskID)
}

// Delete removes a task and all of its notes.
func (s *TaskService) Delete(ctx context.Context, id uint) error {
	return s.taskRepo.Delete(ctx, id)
}

func (s *TaskService) checkCategory(ctx context.Context, id uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrUnknownCategory, id)
		}
		return err
	}
	return nil
}

func toViews(tasks []model.Task) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		bodies := make([]string, 0, len(task.Notes))
		for _, note := range task.Notes {
			bodies = append(bodies, note.Body)
		}
		views = append(views, TaskView{
			ID:           task.ID,
			Subject:      task.Subject,
			CategoryID:   task.CategoryID,
			CategoryName: task.Category.Name,
			Status:       task.Status,
			CreatedAt:    task.CreatedAt,
			UpdatedAt:    task.UpdatedAt,
			Notes:        strings.Join(bodies, noteSeparator),
		})
	}
	return views
}
