package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/jmhodges/clock"
)

// ErrDeleteCancelled is returned by Delete when the confirmation callback
// declines. No request is issued in that case.
var ErrDeleteCancelled = errors.New("delete cancelled")

// Todo mirrors the API's reminder representation.
type Todo struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	DueDate         *time.Time `json:"dueDate"`
	CompletedAt     *time.Time `json:"completedAt"`
	CreatedUserID   string     `json:"createdUserId"`
	CreatedUserName string     `json:"createdUserName"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// TodoStats are counts derived from the current todo list. The field tags
// match the API's stats representation so a server-computed block decodes
// into the same shape the client derives locally.
type TodoStats struct {
	Total           int     `json:"total"`
	Pending         int     `json:"pending"`
	InProgress      int     `json:"inProgress"`
	Completed       int     `json:"completed"`
	Cancelled       int     `json:"cancelled"`
	Overdue         int     `json:"overdue"`
	PercentComplete float64 `json:"percentComplete"`
}

// TodoInput is the payload for creating or updating a todo. DueDate accepts a
// date-only string ("2006-01-02") or RFC 3339; empty clears the due date.
type TodoInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
}

// TodoManager owns the client-side todo list: every mutation goes through the
// API and is followed by a full reload, so the cached list never drifts from
// the server.
type TodoManager struct {
	client *Client
	clk    clock.Clock
	loc    *time.Location

	mu         sync.RWMutex
	todos      []Todo
	generation uint64
}

// NewTodoManager creates a manager anchored to the given business timezone.
// The clock is injectable so date-sensitive behavior is testable; pass
// clock.New() in production.
func NewTodoManager(client *Client, clk clock.Clock, loc *time.Location) *TodoManager {
	return &TodoManager{
		client: client,
		clk:    clk,
		loc:    loc,
	}
}

// Todos returns a snapshot of the cached list.
func (m *TodoManager) Todos() []Todo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshot := make([]Todo, len(m.todos))
	copy(snapshot, m.todos)
	return snapshot
}

// Refresh reloads the list from the API. A reload that was superseded by a
// newer one before its response arrived is discarded, so a slow in-flight
// response cannot clobber fresher state.
func (m *TodoManager) Refresh(ctx context.Context) error {
	return m.refresh(ctx, "")
}

// RefreshWithStatus reloads the list filtered by server-side status.
func (m *TodoManager) RefreshWithStatus(ctx context.Context, status string) error {
	return m.refresh(ctx, status)
}

func (m *TodoManager) refresh(ctx context.Context, status string) error {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	path := "/todos"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	var todos []Todo
	if err := m.client.get(ctx, path, &todos); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		return nil
	}
	m.todos = todos
	return nil
}

// Create adds a todo, then reloads the list.
func (m *TodoManager) Create(ctx context.Context, input TodoInput) error {
	normalized, err := normalizeTodoInput(input)
	if err != nil {
		return err
	}
	if err := m.client.post(ctx, "/todos", normalized, nil); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// Update replaces a todo's fields, then reloads the list.
func (m *TodoManager) Update(ctx context.Context, id string, input TodoInput) error {
	normalized, err := normalizeTodoInput(input)
	if err != nil {
		return err
	}
	if err := m.client.patch(ctx, "/todos/"+id, normalized, nil); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// ToggleComplete flips a todo between completed and pending, then reloads.
func (m *TodoManager) ToggleComplete(ctx context.Context, id string) error {
	if err := m.client.patch(ctx, "/todos/"+id+"/toggle-complete", nil, nil); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// Delete removes a todo after the confirm callback approves. When confirm
// returns false no request is made and ErrDeleteCancelled is returned.
func (m *TodoManager) Delete(ctx context.Context, id string, confirm func() bool) error {
	if confirm != nil && !confirm() {
		return ErrDeleteCancelled
	}
	if err := m.client.delete(ctx, "/todos/"+id); err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// Stats derives counts from the cached list, with "today" anchored to the
// business timezone.
func (m *TodoManager) Stats() TodoStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return DeriveStats(m.todos, m.clk.Now(), m.loc)
}

// FilterByStatus partitions the cached list by exact status match. An empty
// status returns everything.
func (m *TodoManager) FilterByStatus(status string) []Todo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if status == "" {
		snapshot := make([]Todo, len(m.todos))
		copy(snapshot, m.todos)
		return snapshot
	}

	filtered := make([]Todo, 0, len(m.todos))
	for _, todo := range m.todos {
		if todo.Status == status {
			filtered = append(filtered, todo)
		}
	}
	return filtered
}

// IsOverdue reports whether a todo's due calendar day lies strictly before
// today in loc. Completed todos are never overdue.
//
// Due dates are calendar days stored as UTC midnight, so the due day is read
// in UTC; shifting the instant into loc would land on the previous evening
// and report todos due today as overdue.
func IsOverdue(todo Todo, now time.Time, loc *time.Location) bool {
	if todo.Status == "completed" || todo.DueDate == nil {
		return false
	}

	y, mo, d := now.In(loc).Date()
	today := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)

	dy, dm, dd := todo.DueDate.UTC().Date()
	due := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)

	return due.Before(today)
}

// DeriveStats computes stats over a todo list. Both the dashboard summary and
// the reminder screen use this one deriver; the percent-complete figure is 0
// for an empty list.
func DeriveStats(todos []Todo, now time.Time, loc *time.Location) TodoStats {
	stats := TodoStats{Total: len(todos)}

	for _, todo := range todos {
		switch todo.Status {
		case "pending":
			stats.Pending++
		case "in_progress":
			stats.InProgress++
		case "completed":
			stats.Completed++
		case "cancelled":
			stats.Cancelled++
		}
		if IsOverdue(todo, now, loc) {
			stats.Overdue++
		}
	}

	if stats.Total > 0 {
		stats.PercentComplete = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return stats
}

// normalizeTodoInput converts a date-only due date into a UTC instant so the
// server always receives RFC 3339.
func normalizeTodoInput(input TodoInput) (TodoInput, error) {
	if input.DueDate == "" {
		return input, nil
	}

	if day, err := time.Parse("2006-01-02", input.DueDate); err == nil {
		input.DueDate = day.UTC().Format(time.RFC3339)
		return input, nil
	}

	if _, err := time.Parse(time.RFC3339, input.DueDate); err == nil {
		return input, nil
	}

	return input, fmt.Errorf("invalid due date %q", input.DueDate)
}
