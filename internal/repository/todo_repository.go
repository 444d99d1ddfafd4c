package repository

import (
	"context"

	domain "github.com/Kokonaut/todo-app-demo/internal/domain/model"
)

// TodoRepository is the item store. Every operation is scoped to a userID;
// tenant isolation is purely key-based and no cross-owner query exists.
//
// Update and Delete are conditioned on the record already existing, so an
// update can never create a record and a delete of an absent record is a
// distinguishable non-error outcome (ErrNotFound / false) rather than an
// ambiguous success.
type TodoRepository interface {
	// List returns every todo owned by userID, newest first (createdAt
	// descending). An owner with no todos gets an empty slice, not an error.
	List(ctx context.Context, userID string) ([]*domain.Todo, error)

	// Get is a point lookup. ErrNotFound when the key does not exist or
	// belongs to a different owner.
	Get(ctx context.Context, userID, id string) (*domain.Todo, error)

	// Create stores a fully-built record unconditionally. ID collisions are
	// treated as negligible and not guarded against.
	Create(ctx context.Context, todo *domain.Todo) error

	// Update applies the set fields of upd and refreshes updatedAt, but only
	// if the record already exists; a failed existence condition surfaces as
	// ErrNotFound. Returns the record as written.
	Update(ctx context.Context, userID, id string, upd domain.TodoUpdate) (*domain.Todo, error)

	// Delete removes the record if it exists. Returns false, nil when it was
	// already absent.
	Delete(ctx context.Context, userID, id string) (bool, error)
}
