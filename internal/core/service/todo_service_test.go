package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasklane/todo-service/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubTodoRepo struct {
	todos   map[int64]domain.Todo
	nextID  int64
	clock   time.Time
	err     error // if set, every method returns this error
	creates int
}

func newStubTodoRepo() *stubTodoRepo {
	return &stubTodoRepo{
		todos: make(map[int64]domain.Todo),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *stubTodoRepo) ListByOwner(_ context.Context, userID int64) ([]domain.Todo, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Todo
	for _, t := range r.todos {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *stubTodoRepo) Create(_ context.Context, userID int64, content string) (*domain.Todo, error) {
	r.creates++
	if r.err != nil {
		return nil, r.err
	}
	r.nextID++
	r.clock = r.clock.Add(time.Second)
	t := domain.Todo{ID: r.nextID, UserID: userID, Content: content, CreatedAt: r.clock}
	r.todos[t.ID] = t
	return &t, nil
}

// DeleteOwned mirrors the real "WHERE id = $1 AND user_id = $2" filter.
func (r *stubTodoRepo) DeleteOwned(_ context.Context, userID, todoID int64) (*domain.Todo, error) {
	if r.err != nil {
		return nil, r.err
	}
	t, ok := r.todos[todoID]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTodoNotFound
	}
	delete(r.todos, todoID)
	return &t, nil
}

func newTodoSvc(repo *stubTodoRepo) *TodoService {
	return NewTodoService(repo, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestTodoService_Create_Success(t *testing.T) {
	repo := newStubTodoRepo()
	svc := newTodoSvc(repo)

	todo, err := svc.Create(context.Background(), 1, "buy milk")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if todo.ID == 0 || todo.UserID != 1 || todo.Content != "buy milk" || todo.CreatedAt.IsZero() {
		t.Fatalf("unexpected todo: %+v", todo)
	}
}

func TestTodoService_Create_EmptyContent(t *testing.T) {
	repo := newStubTodoRepo()
	svc := newTodoSvc(repo)

	for _, content := range []string{"", "   ", "\n\t"} {
		if _, err := svc.Create(context.Background(), 1, content); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%q: expected ErrValidation, got %v", content, err)
		}
	}
	if repo.creates != 0 {
		t.Fatalf("expected no persistence, got %d creates", repo.creates)
	}
}

func TestTodoService_List_NewestFirst(t *testing.T) {
	repo := newStubTodoRepo()
	svc := newTodoSvc(repo)

	const n = 5
	for i := 0; i < n; i++ {
		if _, err := svc.Create(context.Background(), 1, "note"); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	_, _ = svc.Create(context.Background(), 2, "someone else's")

	todos, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(todos) != n {
		t.Fatalf("expected %d todos, got %d", n, len(todos))
	}
	for i := 1; i < len(todos); i++ {
		if todos[i-1].CreatedAt.Before(todos[i].CreatedAt) {
			t.Fatalf("todos not newest first: %+v", todos)
		}
	}
}

func TestTodoService_List_EmptyIsNotNil(t *testing.T) {
	svc := newTodoSvc(newStubTodoRepo())

	todos, err := svc.List(context.Background(), 42)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if todos == nil || len(todos) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", todos)
	}
}

func TestTodoService_Delete_Twice(t *testing.T) {
	repo := newStubTodoRepo()
	svc := newTodoSvc(repo)
	created, _ := svc.Create(context.Background(), 1, "once")

	deleted, err := svc.Delete(context.Background(), 1, created.ID)
	if err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if deleted.ID != created.ID || deleted.Content != "once" {
		t.Fatalf("unexpected deleted record: %+v", deleted)
	}

	if _, err := svc.Delete(context.Background(), 1, created.ID); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound on second delete, got %v", err)
	}
}

func TestTodoService_Delete_OtherOwnerLooksMissing(t *testing.T) {
	repo := newStubTodoRepo()
	svc := newTodoSvc(repo)
	bobs, _ := svc.Create(context.Background(), 2, "bob's note")

	_, stolen := svc.Delete(context.Background(), 1, bobs.ID)
	_, missing := svc.Delete(context.Background(), 1, 9999)

	if stolen != domain.ErrTodoNotFound || missing != domain.ErrTodoNotFound {
		t.Fatalf("expected identical ErrTodoNotFound, got %v / %v", stolen, missing)
	}
	if _, ok := repo.todos[bobs.ID]; !ok {
		t.Fatalf("bob's todo must survive")
	}
}

func TestTodoService_Delete_InvalidID(t *testing.T) {
	svc := newTodoSvc(newStubTodoRepo())

	if _, err := svc.Delete(context.Background(), 1, 0); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestTodoService_StorageErrorsAreWrapped(t *testing.T) {
	repo := newStubTodoRepo()
	repo.err = errors.New("db down")
	svc := newTodoSvc(repo)

	if _, err := svc.List(context.Background(), 1); !errors.Is(err, repo.err) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if _, err := svc.Delete(context.Background(), 1, 1); !errors.Is(err, repo.err) || errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
}
