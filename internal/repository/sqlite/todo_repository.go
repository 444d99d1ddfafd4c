package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	domain "github.com/Kokonaut/todo-app-demo/internal/domain/model"
)

// TodoRepository stores todos in a local sqlite file. It is the offline
// development stand-in for the postgres adapter: same interface, same
// existence-conditioned writes, no server required.
type TodoRepository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs migrations.
func Open(path string) (*TodoRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	r := &TodoRepository{db: db}
	if err := r.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return r, nil
}

func (r *TodoRepository) Close() error { return r.db.Close() }

func (r *TodoRepository) migrate() error {
	_, err := r.db.Exec(`
CREATE TABLE IF NOT EXISTS todos (
  user_id    TEXT NOT NULL,
  id         TEXT NOT NULL,
  title      TEXT NOT NULL,
  completed  INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  PRIMARY KEY (user_id, id)
);

CREATE INDEX IF NOT EXISTS idx_todos_owner_created ON todos(user_id, created_at DESC);
`)
	return err
}

func (r *TodoRepository) List(ctx context.Context, userID string) ([]*domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, title, completed, created_at, updated_at
FROM todos
WHERE user_id = ?
ORDER BY created_at DESC
`, userID)
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
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, title, completed, created_at, updated_at
FROM todos
WHERE user_id = ? AND id = ?
`, userID, id)

	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO todos(id, user_id, title, completed, created_at, updated_at)
VALUES(?, ?, ?, ?, ?, ?)
`, todo.ID, todo.UserID, todo.Title, boolToInt(todo.Completed),
		todo.CreatedAt.UnixMilli(), todo.UpdatedAt.UnixMilli())
	return err
}

func (r *TodoRepository) Update(ctx context.Context, userID, id string, upd domain.TodoUpdate) (*domain.Todo, error) {
	set := []string{"updated_at = ?"}
	args := []any{time.Now().UTC().UnixMilli()}

	if upd.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Completed != nil {
		set = append(set, "completed = ?")
		args = append(args, boolToInt(*upd.Completed))
	}
	args = append(args, userID, id)

	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`
UPDATE todos
SET %s
WHERE user_id = ? AND id = ?
`, strings.Join(set, ", ")), args...)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrNotFound
	}

	return r.Get(ctx, userID, id)
}

func (r *TodoRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanTodo(row interface{ Scan(...any) error }) (*domain.Todo, error) {
	var (
		t         domain.Todo
		completed int
		cAt, uAt  int64
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &completed, &cAt, &uAt); err != nil {
		return nil, err
	}
	t.Completed = completed == 1
	t.CreatedAt = time.UnixMilli(cAt).UTC()
	t.UpdatedAt = time.UnixMilli(uAt).UTC()
	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
