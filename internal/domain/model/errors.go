package domain

import "errors"

var ErrNotFound = errors.New("not found")

var ErrEmptyTitle = errors.New("title is required")

var ErrUnauthorized = errors.New("authentication required")
