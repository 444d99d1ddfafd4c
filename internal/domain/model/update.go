package domain

import "strings"

// TodoUpdate is a set of optional field changes. A nil field means "leave
// unchanged"; the store adapter translates set fields into whatever partial
// update the backend offers. UpdatedAt is always refreshed by the adapter.
type TodoUpdate struct {
	Title     *string
	Completed *bool
}

// Empty reports whether no field is set.
func (u TodoUpdate) Empty() bool {
	return u.Title == nil && u.Completed == nil
}

// Normalize trims a pending title change. A title set to whitespace only is
// rejected with ErrEmptyTitle, same as at creation.
func (u *TodoUpdate) Normalize() error {
	if u.Title == nil {
		return nil
	}
	t := strings.TrimSpace(*u.Title)
	if t == "" {
		return ErrEmptyTitle
	}
	u.Title = &t
	return nil
}
