package repository

import "errors"

// Sentinel kinds for clip store errors.
var (
	ErrNotFound  = errors.New("clip not found")
	ErrStoreFull = errors.New("clip store is full")
	ErrNilClip   = errors.New("entry has no clip")
)
