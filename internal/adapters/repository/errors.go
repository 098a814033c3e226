package repository

import "errors"

// Sentinel kinds for standings store errors.
var (
	ErrNotFound     = errors.New("driver not found")
	ErrNoSnapshot   = errors.New("no standings snapshot for season")
	ErrInvalidLimit = errors.New("invalid standings limit")
)
