package config

import "errors"

// Error kinds returned by Load, matched by callers with errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
