package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/Kokonaut/todo-app-demo/internal/domain/model"
)

// TodoRepository keeps todos in process memory, keyed by owner then id. It is
// the zero-config store for local runs and the test double for the API layer.
type TodoRepository struct {
	mu     sync.RWMutex
	now    func() time.Time
	byUser map[string]map[string]domain.Todo
}

func NewTodoRepository() *TodoRepository {
	return &TodoRepository{
		now:    func() time.Time { return time.Now().UTC() },
		byUser: make(map[string]map[string]domain.Todo),
	}
}

func (r *TodoRepository) List(ctx context.Context, userID string) ([]*domain.Todo, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := []*domain.Todo{}
	for _, t := range r.byUser[userID] {
		t := t
		todos = append(todos, &t)
	}

	// newest first
	sort.SliceStable(todos, func(i, j int) bool {
		return todos[i].CreatedAt.After(todos[j].CreatedAt)
	})
	return todos, nil
}

func (r *TodoRepository) Get(ctx context.Context, userID, id string) (*domain.Todo, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byUser[userID][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byUser[todo.UserID] == nil {
		r.byUser[todo.UserID] = make(map[string]domain.Todo)
	}
	r.byUser[todo.UserID][todo.ID] = *todo
	return nil
}

func (r *TodoRepository) Update(ctx context.Context, userID, id string, upd domain.TodoUpdate) (*domain.Todo, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byUser[userID][id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Completed != nil {
		t.Completed = *upd.Completed
	}
	t.UpdatedAt = r.now()

	r.byUser[userID][id] = t
	return &t, nil
}

func (r *TodoRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUser[userID][id]; !ok {
		return false, nil
	}
	delete(r.byUser[userID], id)
	return true, nil
}
