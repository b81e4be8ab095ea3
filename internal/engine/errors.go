package engine

import "errors"

var (
	// ErrEmptyTitle rejects a title step confirmed with only whitespace.
	ErrEmptyTitle = errors.New("title cannot be empty")
	// ErrTagSeparator rejects tags containing the ';' the store joins them with.
	ErrTagSeparator = errors.New("tags cannot contain ';'")
)
