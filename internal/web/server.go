// Package web exposes the HTTP surface: JSON endpoints that bind form
// actions to the services and the per-session view state, plus the embedded
// single-page UI.
package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"taskboard/internal/service"
	"taskboard/internal/session"
)

// Server wires HTTP routes to the services.
type Server struct {
	addr       string
	categories *service.CategoryService
	tasks      *service.TaskService
	sessions   *session.Manager
}

func NewServer(addr string, categories *service.CategoryService, tasks *service.TaskService, sessions *session.Manager) *Server {
	return &Server{
		addr:       addr,
		categories: categories,
		tasks:      tasks,
		sessions:   sessions,
	}
}

// Handler builds the route table. Exposed separately from Start so tests can
// drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /api/v1/sessions/{id}/search", s.handleSearch)
	mux.HandleFunc("POST /api/v1/sessions/{id}/clear-search", s.handleClearSearch)
	mux.HandleFunc("POST /api/v1/sessions/{id}/select-task", s.handleSelectTask)
	mux.HandleFunc("POST /api/v1/sessions/{id}/select-category", s.handleSelectCategory)

	mux.HandleFunc("GET /api/v1/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/v1/categories", s.handleCreateCategory)
	mux.HandleFunc("GET /api/v1/categories/{id}", s.handleGetCategory)
	mux.HandleFunc("PUT /api/v1/categories/{id}", s.handleRenameCategory)
	mux.HandleFunc("DELETE /api/v1/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/v1/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/v1/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /api/v1/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PUT /api/v1/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/v1/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("GET /api/v1/tasks/{id}/notes", s.handleListNotes)
	mux.HandleFunc("POST /api/v1/tasks/{id}/notes", s.handleAddNote)

	mux.HandleFunc("GET /", s.handleIndex)

	return mux
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	log.Printf("[info] http server listening on %s", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[error] http shutdown: %v", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
