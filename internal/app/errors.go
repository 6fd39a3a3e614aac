package service

import "errors"

// Sentinel errors for the service layer.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrInvalidRequest = errors.New("invalid request")
)
