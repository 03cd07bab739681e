package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var toronto = func() *time.Location {
	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		panic(err)
	}
	return loc
}()

// todoServer is a minimal in-memory todos API.
type todoServer struct {
	mu      sync.Mutex
	todos   []Todo
	deletes int
	creates int
	lists   int
}

func (s *todoServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/todos", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			s.lists++
			_ = json.NewEncoder(w).Encode(s.todos)
		case http.MethodPost:
			s.creates++
			var input TodoInput
			_ = json.NewDecoder(r.Body).Decode(&input)
			todo := Todo{ID: "t-new", Title: input.Title, Status: "pending", Priority: "medium"}
			if input.DueDate != "" {
				due, _ := time.Parse(time.RFC3339, input.DueDate)
				todo.DueDate = &due
			}
			s.todos = append(s.todos, todo)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(todo)
		}
	})
	mux.HandleFunc("/todos/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if r.Method == http.MethodDelete {
			s.deletes++
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func newTestManager(t *testing.T, srv *todoServer) (*TodoManager, func()) {
	t.Helper()

	server := httptest.NewServer(srv.handler())
	client, err := NewClient(server.URL)
	require.NoError(t, err)

	return NewTodoManager(client, clock.NewFake(), toronto), server.Close
}

func TestTodoManagerCreateReloadsList(t *testing.T) {
	srv := &todoServer{}
	manager, cleanup := newTestManager(t, srv)
	defer cleanup()

	err := manager.Create(context.Background(), TodoInput{Title: "Order kegs"})

	require.NoError(t, err)
	assert.Equal(t, 1, srv.creates)
	assert.Equal(t, 1, srv.lists, "every mutation must be followed by a reload")
	require.Len(t, manager.Todos(), 1)
	assert.Equal(t, "Order kegs", manager.Todos()[0].Title)
}

func TestTodoManagerCreateNormalizesDateOnlyDueDate(t *testing.T) {
	srv := &todoServer{}
	manager, cleanup := newTestManager(t, srv)
	defer cleanup()

	err := manager.Create(context.Background(), TodoInput{Title: "Book band", DueDate: "2026-09-15"})

	require.NoError(t, err)
	require.NotNil(t, manager.Todos()[0].DueDate)
	assert.Equal(t, "2026-09-15T00:00:00Z", manager.Todos()[0].DueDate.Format(time.RFC3339))
}

func TestTodoManagerCreateRejectsBadDate(t *testing.T) {
	srv := &todoServer{}
	manager, cleanup := newTestManager(t, srv)
	defer cleanup()

	err := manager.Create(context.Background(), TodoInput{Title: "x", DueDate: "next tuesday"})

	require.Error(t, err)
	assert.Zero(t, srv.creates, "an unparseable date must not reach the API")
}

func TestTodoManagerDeleteConfirmDeclined(t *testing.T) {
	srv := &todoServer{}
	manager, cleanup := newTestManager(t, srv)
	defer cleanup()

	err := manager.Delete(context.Background(), "t-1", func() bool { return false })

	assert.ErrorIs(t, err, ErrDeleteCancelled)
	assert.Zero(t, srv.deletes, "a declined confirmation must not issue a request")
}

func TestTodoManagerDeleteConfirmed(t *testing.T) {
	srv := &todoServer{}
	manager, cleanup := newTestManager(t, srv)
	defer cleanup()

	err := manager.Delete(context.Background(), "t-1", func() bool { return true })

	require.NoError(t, err)
	assert.Equal(t, 1, srv.deletes)
	assert.Equal(t, 1, srv.lists)
}

func TestTodoManagerFilterByStatus(t *testing.T) {
	manager := NewTodoManager(nil, clock.NewFake(), toronto)
	manager.todos = []Todo{
		{ID: "1", Status: "pending"},
		{ID: "2", Status: "completed"},
		{ID: "3", Status: "pending"},
		{ID: "4", Status: "in_progress"},
	}

	assert.Len(t, manager.FilterByStatus(""), 4)
	assert.Len(t, manager.FilterByStatus("pending"), 2)
	assert.Len(t, manager.FilterByStatus("completed"), 1)
	assert.Empty(t, manager.FilterByStatus("cancelled"))
}

func TestTodoManagerStats(t *testing.T) {
	clk := clock.NewFake()
	// 2026-03-10 14:00 UTC is mid-morning in Toronto.
	clk.Set(time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC))

	overdueDate := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	futureDate := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	manager := NewTodoManager(nil, clk, toronto)
	manager.todos = []Todo{
		{Status: "pending", DueDate: &overdueDate},
		{Status: "pending"},
		{Status: "in_progress", DueDate: &futureDate},
		{Status: "completed", DueDate: &overdueDate},
		{Status: "cancelled"},
	}

	stats := manager.Stats()

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, stats.Total, stats.Pending+stats.InProgress+stats.Completed+stats.Cancelled)
	assert.Equal(t, 1, stats.Overdue, "completed todos never count as overdue")
	assert.Equal(t, float64(20), stats.PercentComplete)
}

func TestIsOverdueDayBoundary(t *testing.T) {
	// 2026-03-10 09:00 in Toronto. Midnight UTC on the same day is still
	// the previous evening locally.
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, toronto)

	utcMidnightToday := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	utcMidnightYesterday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		todo    Todo
		overdue bool
	}{
		{"due today at utc midnight", Todo{Status: "pending", DueDate: &utcMidnightToday}, false},
		{"due yesterday", Todo{Status: "pending", DueDate: &utcMidnightYesterday}, true},
		{"due tomorrow", Todo{Status: "in_progress", DueDate: &tomorrow}, false},
		{"completed never overdue", Todo{Status: "completed", DueDate: &utcMidnightYesterday}, false},
		{"no due date", Todo{Status: "pending"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overdue, IsOverdue(tt.todo, now, toronto))
		})
	}
}

func TestDeriveStatsEmpty(t *testing.T) {
	stats := DeriveStats(nil, time.Now(), toronto)

	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.PercentComplete)
}

func TestStaleReloadIsDiscarded(t *testing.T) {
	firstArrived := make(chan struct{})
	release := make(chan struct{})
	var requests int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			close(firstArrived)
			<-release // held back until the second reload has finished
			_, _ = w.Write([]byte(`[{"id": "stale", "status": "pending"}]`))
			return
		}
		_, _ = w.Write([]byte(`[{"id": "fresh", "status": "pending"}]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)
	manager := NewTodoManager(client, clock.NewFake(), toronto)

	done := make(chan error)
	go func() {
		done <- manager.Refresh(context.Background())
	}()

	<-firstArrived
	require.NoError(t, manager.Refresh(context.Background()))
	close(release)
	require.NoError(t, <-done)

	todos := manager.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, "fresh", todos[0].ID, "the slow first reload must not overwrite the newer result")
}
