package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Todo is a single to-do record. The composite key (UserID, ID) is unique
// and immutable after creation; CreatedAt never changes and UpdatedAt is
// refreshed on every successful mutation.
type Todo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewTodo builds a ready-to-store record for userID. The title is trimmed;
// an empty or whitespace-only title is rejected with ErrEmptyTitle.
func NewTodo(userID, title string) (*Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	now := time.Now().UTC()
	return &Todo{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
