package storage

import "errors"

// Общие ошибки хранилищ, обе реализации (memory и postgres) оборачивают их через %w
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate entry")
)
