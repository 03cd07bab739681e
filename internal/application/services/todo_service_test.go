package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmhodges/clock"

	"github.com/brooklinpub/admin-api/internal/domain/entities"
	"github.com/brooklinpub/admin-api/internal/infrastructure/logger"
	"github.com/brooklinpub/admin-api/internal/ports"
)

// fakeTodoRepo is an in-memory TodoRepository.
type fakeTodoRepo struct {
	todos map[uuid.UUID]*entities.Todo
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{todos: make(map[uuid.UUID]*entities.Todo)}
}

func (r *fakeTodoRepo) Create(ctx context.Context, todo *entities.Todo) error {
	if todo.ID == uuid.Nil {
		todo.ID = uuid.New()
	}
	todo.CreatedAt = time.Now()
	todo.UpdatedAt = todo.CreatedAt
	copied := *todo
	r.todos[todo.ID] = &copied
	return nil
}

func (r *fakeTodoRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Todo, error) {
	todo, ok := r.todos[id]
	if !ok {
		return nil, entities.ErrTodoNotFound
	}
	copied := *todo
	return &copied, nil
}

func (r *fakeTodoRepo) Update(ctx context.Context, todo *entities.Todo) error {
	if _, ok := r.todos[todo.ID]; !ok {
		return entities.ErrTodoNotFound
	}
	todo.UpdatedAt = time.Now()
	copied := *todo
	r.todos[todo.ID] = &copied
	return nil
}

func (r *fakeTodoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.todos[id]; !ok {
		return entities.ErrTodoNotFound
	}
	delete(r.todos, id)
	return nil
}

func (r *fakeTodoRepo) List(ctx context.Context, filter ports.TodoFilter) ([]*entities.Todo, error) {
	var todos []*entities.Todo
	for _, todo := range r.todos {
		if filter.Status != nil && todo.Status != *filter.Status {
			continue
		}
		copied := *todo
		todos = append(todos, &copied)
	}
	return todos, nil
}

var torontoTest = func() *time.Location {
	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		panic(err)
	}
	return loc
}()

func newTestTodoService(repo ports.TodoRepository, clk clock.Clock) *TodoService {
	return NewTodoService(repo, clk, torontoTest, logger.NewNop())
}

func testIdentity() ports.Identity {
	return ports.Identity{
		UserID: uuid.New(),
		Email:  "staff@thebrooklinpub.com",
		Name:   "Pat Staff",
		Role:   entities.UserRoleStaff,
	}
}

func TestTodoServiceCreateDefaults(t *testing.T) {
	repo := newFakeTodoRepo()
	svc := newTestTodoService(repo, clock.NewFake())

	todo, err := svc.Create(context.Background(), testIdentity(), ports.CreateTodoRequest{
		Title: "  Order kegs  ",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if todo.Title != "Order kegs" {
		t.Errorf("Title = %q, want trimmed title", todo.Title)
	}
	if todo.Priority != entities.TodoPriorityMedium {
		t.Errorf("Priority = %s, want medium default", todo.Priority)
	}
	if todo.Status != entities.TodoStatusPending {
		t.Errorf("Status = %s, want pending default", todo.Status)
	}
	if todo.CompletedAt != nil {
		t.Errorf("CompletedAt = %v, want nil", todo.CompletedAt)
	}
}

func TestTodoServiceCreateEmptyTitle(t *testing.T) {
	svc := newTestTodoService(newFakeTodoRepo(), clock.NewFake())

	_, err := svc.Create(context.Background(), testIdentity(), ports.CreateTodoRequest{
		Title: "   ",
	})
	if !errors.Is(err, entities.ErrTitleRequired) {
		t.Fatalf("Create() error = %v, want ErrTitleRequired", err)
	}
}

func TestTodoServiceCreateCompletedSetsTimestamp(t *testing.T) {
	clk := clock.NewFake()
	svc := newTestTodoService(newFakeTodoRepo(), clk)

	todo, err := svc.Create(context.Background(), testIdentity(), ports.CreateTodoRequest{
		Title:  "Inventory count",
		Status: entities.TodoStatusCompleted,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if todo.CompletedAt == nil {
		t.Fatal("CompletedAt = nil, want set for a todo created completed")
	}
}

func TestTodoServiceCreateParsesDateOnlyDueDate(t *testing.T) {
	svc := newTestTodoService(newFakeTodoRepo(), clock.NewFake())

	todo, err := svc.Create(context.Background(), testIdentity(), ports.CreateTodoRequest{
		Title:   "Book band",
		DueDate: "2026-09-15",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if todo.DueDate == nil {
		t.Fatal("DueDate = nil, want parsed date")
	}
	if got := todo.DueDate.Format("2006-01-02"); got != "2026-09-15" {
		t.Errorf("DueDate = %s, want 2026-09-15", got)
	}
}

func TestTodoServiceToggleComplete(t *testing.T) {
	repo := newFakeTodoRepo()
	clk := clock.NewFake()
	svc := newTestTodoService(repo, clk)

	created, err := svc.Create(context.Background(), testIdentity(), ports.CreateTodoRequest{
		Title: "Clean taps",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	toggled, err := svc.ToggleComplete(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("ToggleComplete() error = %v", err)
	}
	if toggled.Status != entities.TodoStatusCompleted {
		t.Errorf("Status = %s, want completed", toggled.Status)
	}
	if toggled.CompletedAt == nil {
		t.Error("CompletedAt = nil, want set")
	}

	reopened, err := svc.ToggleComplete(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("ToggleComplete() error = %v", err)
	}
	if reopened.Status != entities.TodoStatusPending {
		t.Errorf("Status = %s, want pending after reopen", reopened.Status)
	}
	if reopened.CompletedAt != nil {
		t.Errorf("CompletedAt = %v, want nil after reopen", reopened.CompletedAt)
	}
}

func TestTodoServiceToggleCompleteNotFound(t *testing.T) {
	svc := newTestTodoService(newFakeTodoRepo(), clock.NewFake())

	_, err := svc.ToggleComplete(context.Background(), uuid.New())
	if !errors.Is(err, entities.ErrTodoNotFound) {
		t.Fatalf("ToggleComplete() error = %v, want ErrTodoNotFound", err)
	}
}

func TestTodoServiceStats(t *testing.T) {
	repo := newFakeTodoRepo()
	clk := clock.NewFake()
	// Fixed reference point: 2026-03-10 14:00 UTC, morning in Toronto.
	clk.Set(time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC))
	svc := newTestTodoService(repo, clk)

	identity := testIdentity()

	mustCreate := func(req ports.CreateTodoRequest) {
		t.Helper()
		if _, err := svc.Create(context.Background(), identity, req); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	mustCreate(ports.CreateTodoRequest{Title: "a"})
	mustCreate(ports.CreateTodoRequest{Title: "b", DueDate: "2026-03-01"})
	mustCreate(ports.CreateTodoRequest{Title: "c", Status: entities.TodoStatusCompleted})
	mustCreate(ports.CreateTodoRequest{Title: "d", Status: entities.TodoStatusInProgress})

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.Total != 4 {
		t.Errorf("Total = %d, want 4", stats.Total)
	}
	if sum := stats.Pending + stats.InProgress + stats.Completed + stats.Cancelled; sum != stats.Total {
		t.Errorf("status counts sum to %d, want %d", sum, stats.Total)
	}
	if stats.Overdue != 1 {
		t.Errorf("Overdue = %d, want 1", stats.Overdue)
	}
	if stats.PercentComplete != 25 {
		t.Errorf("PercentComplete = %v, want 25", stats.PercentComplete)
	}
}
