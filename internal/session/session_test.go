package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskboard/internal/service"
)

func TestCreateAndGet(t *testing.T) {
	m := NewManager()

	state := m.Create()
	require.NotEmpty(t, state.ID)
	require.Zero(t, state.RefreshTasks)
	require.Zero(t, state.RefreshCategories)

	got, ok := m.Get(state.ID)
	require.True(t, ok)
	require.Equal(t, state.ID, got.ID)

	_, ok = m.Get("nope")
	require.False(t, ok)
}

func TestBumpCountersInvalidateViews(t *testing.T) {
	m := NewManager()
	state := m.Create()

	m.BumpTasks(state.ID)
	m.BumpTasks(state.ID)
	m.BumpCategories(state.ID)

	got, ok := m.Get(state.ID)
	require.True(t, ok)
	require.EqualValues(t, 2, got.RefreshTasks)
	require.EqualValues(t, 1, got.RefreshCategories)

	// Bumping an unknown session is a no-op, not a panic.
	m.BumpTasks("nope")
}

func TestSearchStateRoundTrip(t *testing.T) {
	m := NewManager()
	state := m.Create()

	results := []service.TaskView{{ID: 4, Subject: "found"}}
	m.SetSearch(state.ID, "fou", results)

	got, _ := m.Get(state.ID)
	require.True(t, got.ShowSearchResults)
	require.Equal(t, "fou", got.SearchTerm)
	require.Len(t, got.SearchResults, 1)

	// Snapshots are copies: mutating the returned slice must not leak back.
	got.SearchResults[0].Subject = "tampered"
	again, _ := m.Get(state.ID)
	require.Equal(t, "found", again.SearchResults[0].Subject)

	m.ClearSearch(state.ID)
	got, _ = m.Get(state.ID)
	require.False(t, got.ShowSearchResults)
	require.Empty(t, got.SearchTerm)
	require.Empty(t, got.SearchResults)
}

func TestSelectTaskClearsSearchPanel(t *testing.T) {
	m := NewManager()
	state := m.Create()

	m.SetSearch(state.ID, "x", []service.TaskView{{ID: 7, Subject: "x marks"}})
	m.SelectTask(state.ID, 7)

	got, _ := m.Get(state.ID)
	require.EqualValues(t, 7, got.EditTaskID)
	require.False(t, got.ShowSearchResults)
	require.Empty(t, got.SearchResults)

	m.ClearTaskSelection(state.ID)
	got, _ = m.Get(state.ID)
	require.Zero(t, got.EditTaskID)
}

func TestSweeperRejectsNonPositiveInterval(t *testing.T) {
	s := NewSweeper(NewManager(), time.Minute, time.UTC)
	require.Error(t, s.Start(0))
}

func TestSweeperStartStop(t *testing.T) {
	s := NewSweeper(NewManager(), time.Minute, time.UTC)
	require.NoError(t, s.Start(time.Second))
	s.Stop()
}

func TestSweepDropsIdleSessions(t *testing.T) {
	m := NewManager()
	now := time.Now()
	m.now = func() time.Time { return now }

	stale := m.Create()
	fresh := m.Create()

	now = now.Add(10 * time.Minute)
	m.BumpTasks(fresh.ID) // touches LastSeen

	removed := m.Sweep(5 * time.Minute)
	require.Equal(t, 1, removed)
	require.Equal(t, 1, m.Len())

	_, ok := m.Get(stale.ID)
	require.False(t, ok)
	_, ok = m.Get(fresh.ID)
	require.True(t, ok)
}
