// Package session holds the ephemeral per-client UI state: refresh counters
// that invalidate dependent views, the current edit selection, and the last
// search's results. Nothing here is persisted; the database stays the single
// source of truth and clients re-query whenever a counter they depend on
// moves.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/service"
)

// State is one client's view state.
type State struct {
	ID                string             `json:"id"`
	RefreshTasks      uint64             `json:"refresh_tasks"`
	RefreshCategories uint64             `json:"refresh_categories"`
	EditTaskID        uint               `json:"edit_task_id"`
	SelectedCategory  uint               `json:"selected_category"`
	SearchTerm        string             `json:"search_term"`
	SearchResults     []service.TaskView `json:"search_results"`
	ShowSearchResults bool               `json:"show_search_results"`
	LastSeen          time.Time          `json:"-"`
}

func (s *State) snapshot() State {
	copied := *s
	if s.SearchResults != nil {
		copied.SearchResults = make([]service.TaskView, len(s.SearchResults))
		copy(copied.SearchResults, s.SearchResults)
	}
	return copied
}

// Manager tracks live sessions behind a mutex.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*State
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*State),
		now:      time.Now,
	}
}

// Create registers a fresh session and returns its state.
func (m *Manager) Create() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := &State{
		ID:       uuid.NewString(),
		LastSeen: m.now(),
	}
	m.sessions[state.ID] = state
	return state.snapshot()
}

// Get returns a snapshot of the session and marks it as recently seen.
func (m *Manager) Get(id string) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return State{}, false
	}
	state.LastSeen = m.now()
	return state.snapshot(), true
}

// BumpTasks signals that task-dependent views must re-query.
func (m *Manager) BumpTasks(id string) {
	m.mutate(id, func(s *State) { s.RefreshTasks++ })
}

// BumpCategories signals that category-dependent views must re-query.
func (m *Manager) BumpCategories(id string) {
	m.mutate(id, func(s *State) { s.RefreshCategories++ })
}

// SetSearch stores the last search and shows the results panel.
func (m *Manager) SetSearch(id, term string, results []service.TaskView) {
	m.mutate(id, func(s *State) {
		s.SearchTerm = term
		s.SearchResults = results
		s.ShowSearchResults = true
	})
}

// ClearSearch empties the search state and hides the results panel.
func (m *Manager) ClearSearch(id string) {
	m.mutate(id, func(s *State) {
		s.SearchTerm = ""
		s.SearchResults = nil
		s.ShowSearchResults = false
	})
}

// SelectTask loads a task into the edit selection and clears the search
// panel, matching the original select-from-results behavior.
func (m *Manager) SelectTask(id string, taskID uint) {
	m.mutate(id, func(s *State) {
		s.EditTaskID = taskID
		s.SearchTerm = ""
		s.SearchResults = nil
		s.ShowSearchResults = false
	})
}

// SelectCategory records which category the edit form is pointed at.
func (m *Manager) SelectCategory(id string, categoryID uint) {
	m.mutate(id, func(s *State) { s.SelectedCategory = categoryID })
}

// ClearTaskSelection resets the edit selection, e.g. after a delete.
func (m *Manager) ClearTaskSelection(id string) {
	m.mutate(id, func(s *State) { s.EditTaskID = 0 })
}

// Sweep drops sessions idle for longer than ttl and returns how many were
// removed.
func (m *Manager) Sweep(ttl time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-ttl)
	removed := 0
	for id, state := range m.sessions {
		if state.LastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) mutate(id string, fn func(*State)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return
	}
	fn(state)
	state.LastSeen = m.now()
}
