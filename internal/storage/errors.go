package storage

import "errors"

var (
	ErrRunNotFound    = errors.New("storage: run not found")
	ErrUnknownBackend = errors.New("storage: unknown backend")
)
