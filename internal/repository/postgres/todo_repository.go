package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/Kokonaut/todo-app-demo/internal/domain/model"
)

// TodoRepository persists todos in a postgres table keyed by (user_id, id).
// The existence conditions of Update and Delete are expressed directly in the
// WHERE clause, so the database evaluates them atomically with the write.
type TodoRepository struct {
	db *sql.DB
}

func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

const todoColumns = "id, user_id, title, completed, created_at, updated_at"

func scanTodo(row interface{ Scan(...any) error }) (*domain.Todo, error) {
	t := &domain.Todo{}
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TodoRepository) List(ctx context.Context, userID string) ([]*domain.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []*domain.Todo{}

	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (r *TodoRepository) Get(ctx context.Context, userID, id string) (*domain.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1 AND id = $2
	`

	t, err := scanTodo(r.db.QueryRowContext(ctx, query, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	query := `
		INSERT INTO todos (id, user_id, title, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Completed,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	return err
}

func (r *TodoRepository) Update(ctx context.Context, userID, id string, upd domain.TodoUpdate) (*domain.Todo, error) {
	// Translate the set fields into SET clauses; updated_at is always
	// refreshed. The WHERE clause is the existence condition: zero rows
	// matched means the record is absent, never that one was created.
	set := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}

	if upd.Title != nil {
		args = append(args, *upd.Title)
		set = append(set, fmt.Sprintf("title = $%d", len(args)))
	}
	if upd.Completed != nil {
		args = append(args, *upd.Completed)
		set = append(set, fmt.Sprintf("completed = $%d", len(args)))
	}

	args = append(args, userID, id)
	query := fmt.Sprintf(`
		UPDATE todos
		SET %s
		WHERE user_id = $%d AND id = $%d
		RETURNING `+todoColumns,
		strings.Join(set, ", "), len(args)-1, len(args),
	)

	t, err := scanTodo(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TodoRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	query := `
		DELETE FROM todos
		WHERE user_id = $1 AND id = $2
	`

	res, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
