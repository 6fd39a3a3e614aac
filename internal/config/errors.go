package config

import "errors"

// Sentinel errors returned by Load and Validate.
var (
	// ErrInvalidConfig wraps every validation failure, including invalid
	// foot locking settings.
	ErrInvalidConfig = errors.New("invalid stride configuration")
	// ErrLoadConfig wraps failures reading the file or environment layers.
	ErrLoadConfig = errors.New("cannot load stride configuration")
)
