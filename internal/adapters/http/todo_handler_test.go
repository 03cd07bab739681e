package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmhodges/clock"
	"github.com/labstack/echo/v4"

	"github.com/brooklinpub/admin-api/internal/application/services"
	"github.com/brooklinpub/admin-api/internal/domain/entities"
	"github.com/brooklinpub/admin-api/internal/infrastructure/logger"
	"github.com/brooklinpub/admin-api/internal/ports"
)

type memoryTodoRepo struct {
	todos map[uuid.UUID]*entities.Todo
}

func newMemoryTodoRepo() *memoryTodoRepo {
	return &memoryTodoRepo{todos: make(map[uuid.UUID]*entities.Todo)}
}

func (r *memoryTodoRepo) Create(ctx context.Context, todo *entities.Todo) error {
	if todo.ID == uuid.Nil {
		todo.ID = uuid.New()
	}
	copied := *todo
	r.todos[todo.ID] = &copied
	return nil
}

func (r *memoryTodoRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Todo, error) {
	todo, ok := r.todos[id]
	if !ok {
		return nil, entities.ErrTodoNotFound
	}
	copied := *todo
	return &copied, nil
}

func (r *memoryTodoRepo) Update(ctx context.Context, todo *entities.Todo) error {
	if _, ok := r.todos[todo.ID]; !ok {
		return entities.ErrTodoNotFound
	}
	copied := *todo
	r.todos[todo.ID] = &copied
	return nil
}

func (r *memoryTodoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.todos[id]; !ok {
		return entities.ErrTodoNotFound
	}
	delete(r.todos, id)
	return nil
}

func (r *memoryTodoRepo) List(ctx context.Context, filter ports.TodoFilter) ([]*entities.Todo, error) {
	todos := make([]*entities.Todo, 0, len(r.todos))
	for _, todo := range r.todos {
		if filter.Status != nil && todo.Status != *filter.Status {
			continue
		}
		copied := *todo
		todos = append(todos, &copied)
	}
	return todos, nil
}

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newTodoTestHandler(t *testing.T) (*TodoHandler, *echo.Echo, *memoryTodoRepo) {
	t.Helper()

	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	repo := newMemoryTodoRepo()
	svc := services.NewTodoService(repo, clock.NewFake(), loc, logger.NewNop())
	handler := NewTodoHandler(svc, logger.NewNop())

	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}
	return handler, e, repo
}

func withIdentity(c echo.Context) {
	c.Set(identityContextKey, ports.Identity{
		UserID: uuid.New(),
		Email:  "sam@thebrooklinpub.com",
		Name:   "Sam Barkeep",
		Role:   entities.UserRoleManager,
	})
}

func TestTodoHandlerCreate(t *testing.T) {
	handler, e, repo := newTodoTestHandler(t)

	body := `{"title": "Order kegs", "description": "before Friday", "dueDate": "2026-09-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/todos", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	withIdentity(c)

	if err := handler.Create(c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body)
	}

	var created entities.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Title != "Order kegs" {
		t.Errorf("Title = %q", created.Title)
	}
	if created.Status != entities.TodoStatusPending {
		t.Errorf("Status = %s, want pending", created.Status)
	}
	if created.CreatedUserName != "Sam Barkeep" {
		t.Errorf("CreatedUserName = %q, want the creator's name", created.CreatedUserName)
	}
	if len(repo.todos) != 1 {
		t.Errorf("stored todos = %d, want 1", len(repo.todos))
	}
}

func TestTodoHandlerCreateMissingTitle(t *testing.T) {
	handler, e, _ := newTodoTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/todos", strings.NewReader(`{"description": "no title"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	withIdentity(c)

	err := handler.Create(c)
	if err == nil {
		t.Fatal("Create() error = nil, want validation failure")
	}
	if _, ok := err.(validator.ValidationErrors); !ok {
		t.Fatalf("Create() error = %T, want validator.ValidationErrors", err)
	}
}

func TestTodoHandlerListInvalidStatus(t *testing.T) {
	handler, e, _ := newTodoTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos?status=someday", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	withIdentity(c)

	err := handler.List(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("List() error = %T, want *echo.HTTPError", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", httpErr.Code)
	}
}

func TestTodoHandlerToggleComplete(t *testing.T) {
	handler, e, repo := newTodoTestHandler(t)

	todo := &entities.Todo{
		ID:     uuid.New(),
		Title:  "Clean taps",
		Status: entities.TodoStatusPending,
	}
	if err := repo.Create(context.Background(), todo); err != nil {
		t.Fatalf("seed todo: %v", err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/todos/"+todo.ID.String()+"/toggle-complete", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(todo.ID.String())
	withIdentity(c)

	if err := handler.ToggleComplete(c); err != nil {
		t.Fatalf("ToggleComplete() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var toggled entities.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &toggled); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if toggled.Status != entities.TodoStatusCompleted {
		t.Errorf("Status = %s, want completed", toggled.Status)
	}
	if toggled.CompletedAt == nil {
		t.Error("CompletedAt = nil, want set")
	}
}

func TestTodoHandlerToggleCompleteNotFound(t *testing.T) {
	handler, e, _ := newTodoTestHandler(t)

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/todos/"+id+"/toggle-complete", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	withIdentity(c)

	err := handler.ToggleComplete(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("ToggleComplete() error = %T, want *echo.HTTPError", err)
	}
	if httpErr.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", httpErr.Code)
	}
}

func TestTodoHandlerStats(t *testing.T) {
	handler, e, repo := newTodoTestHandler(t)

	seed := []entities.TodoStatus{
		entities.TodoStatusPending,
		entities.TodoStatusCompleted,
		entities.TodoStatusCompleted,
	}
	for _, status := range seed {
		todo := &entities.Todo{ID: uuid.New(), Title: "x", Status: status}
		if err := repo.Create(context.Background(), todo); err != nil {
			t.Fatalf("seed todo: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos/stats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	withIdentity(c)

	if err := handler.Stats(c); err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	var stats entities.TodoStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stats.Total != 3 || stats.Completed != 2 {
		t.Errorf("stats = %+v, want total 3 completed 2", stats)
	}
}
