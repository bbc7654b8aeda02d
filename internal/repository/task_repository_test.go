package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.Open(sqlite.Open(filepath.Join(t.TempDir(), "taskboard.db")))
	require.NoError(t, err)
	return db
}

func createCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()
	category := model.Category{Name: name}
	require.NoError(t, repository.NewCategoryRepository(db).Create(context.Background(), &category))
	return &category
}

func TestOpenSeedsDefaultCategories(t *testing.T) {
	db := newTestDB(t)

	categories, err := repository.NewCategoryRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 7)
	require.Equal(t, "Church", categories[0].Name) // alphabetical order
}

func TestTaskCreateWithInitialNote(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewTaskRepository(db)
	ctx := context.Background()

	category := createCategory(t, db, "Work")

	task := model.Task{Subject: "Ship report", CategoryID: category.ID, Status: model.StatusIdea}
	require.NoError(t, repo.Create(ctx, &task, "first draft done"))
	require.NotZero(t, task.ID)

	notes, err := repository.NewNoteRepository(db).ListByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.Equal(t, "first draft done", notes[0].Body)
}

func TestTaskCreateWithoutNote(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewTaskRepository(db)
	ctx := context.Background()

	category := createCategory(t, db, "Work")

	task := model.Task{Subject: "Plain task", CategoryID: category.ID, Status: model.StatusOpen}
	require.NoError(t, repo.Create(ctx, &task, ""))

	notes, err := repository.NewNoteRepository(db).ListByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Empty(t, notes)
}

func TestTaskListAllJoinsCategoryAndNotes(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewTaskRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	ctx := context.Background()

	category := createCategory(t, db, "Errands")

	first := model.Task{Subject: "First", CategoryID: category.ID, Status: model.StatusIdea}
	require.NoError(t, repo.Create(ctx, &first, "note one"))
	require.NoError(t, noteRepo.Create(ctx, &model.Note{TaskID: first.ID, Body: "note two"}))

	second := model.Task{Subject: "Second", CategoryID: category.ID, Status: model.StatusOpen}
	require.NoError(t, repo.Create(ctx, &second, ""))

	tasks, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	// Newest first.
	require.Equal(t, "Second", tasks[0].Subject)
	require.Equal(t, "First", tasks[1].Subject)
	require.Equal(t, "Errands", tasks[1].Category.Name)

	// Notes in creation order.
	require.Len(t, tasks[1].Notes, 2)
	require.Equal(t, "note one", tasks[1].Notes[0].Body)
	require.Equal(t, "note two", tasks[1].Notes[1].Body)
}

func TestTaskSearchMatchesSubjectAndCategory(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewTaskRepository(db)
	ctx := context.Background()

	work := createCategory(t, db, "Paperwork")
	home := createCategory(t, db, "Home")

	report := model.Task{Subject: "Ship REPORT", CategoryID: work.ID, Status: model.StatusIdea}
	require.NoError(t, repo.Create(ctx, &report, ""))
	chores := model.Task{Subject: "Mow the lawn", CategoryID: home.ID, Status: model.StatusOpen}
	require.NoError(t, repo.Create(ctx, &chores, ""))

	// Case-insensitive substring of the subject.
	got, err := repo.Search(ctx, "report")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, report.ID, got[0].ID)

	// Substring of the category name.
	got, err = repo.Search(ctx, "paper")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, report.ID, got[0].ID)

	// Present in neither.
	got, err = repo.Search(ctx, "groceries")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestTaskUpdatePreservesIDAndCreatedAt(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewTaskRepository(db)
	ctx := context.Background()

	category := createCategory(t, db, "Work")
	other := createCategory(t, db, "Later")

	task := model.Task{Subject: "Draft", CategoryID: category.ID, Status: model.StatusIdea}
	require.NoError(t, repo.Create(ctx, &task, ""))

	require.NoError(t, repo.Update(ctx, task.ID, "Final", other.ID, model.StatusClosed))

	updated, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, task.ID, updated.ID)
	require.Equal(t, "Final", updated.Subject)
	require.Equal(t, other.ID, updated.CategoryID)
	require.Equal(t, model.StatusClosed, updated.Status)
	require.Equal(t, task.CreatedAt.Unix(), updated.CreatedAt.Unix())
}

func TestTaskUpdateMissingReturnsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewTaskRepository(db)

	category := createCategory(t, db, "Work")
	err := repo.Update(context.Background(), 9999, "Subject", category.ID, model.StatusOpen)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTaskDeleteCascadesNotes(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewTaskRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	ctx := context.Background()

	category := createCategory(t, db, "Work")
	task := model.Task{Subject: "Doomed", CategoryID: category.ID, Status: model.StatusOpen}
	require.NoError(t, repo.Create(ctx, &task, "keep me?"))
	require.NoError(t, noteRepo.Create(ctx, &model.Note{TaskID: task.ID, Body: "second note"}))

	require.NoError(t, repo.Delete(ctx, task.ID))

	_, err := repo.FindByID(ctx, task.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var orphaned int64
	require.NoError(t, db.Model(&model.Note{}).Where("task_id = ?", task.ID).Count(&orphaned).Error)
	require.Zero(t, orphaned)

	tasks, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestCategoryCountTasks(t *testing.T) {
	db := newTestDB(t)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	ctx := context.Background()

	used := createCategory(t, db, "Used")
	unused := createCategory(t, db, "Unused")

	task := model.Task{Subject: "Uses category", CategoryID: used.ID, Status: model.StatusIdea}
	require.NoError(t, taskRepo.Create(ctx, &task, ""))

	count, err := categoryRepo.CountTasks(ctx, used.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	count, err = categoryRepo.CountTasks(ctx, unused.ID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestCategoryUniqueName(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewCategoryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Category{Name: "Twice"}))
	err := repo.Create(ctx, &model.Category{Name: "Twice"})
	require.Error(t, err)
}
