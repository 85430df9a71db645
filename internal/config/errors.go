package config

import "errors"

var (
	ErrInvalidViewport = errors.New("config: viewport dimensions must be positive")
	ErrInvalidSampling = errors.New("config: invalid curve sampling")
	ErrUnknownPreset   = errors.New("config: unknown preset")
)
