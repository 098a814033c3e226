package model

import "errors"

// Sentinel kinds for decoding upstream values.
var (
	ErrEmptyTimestamp = errors.New("empty timestamp")
	ErrBadTimestamp   = errors.New("malformed timestamp")
)

// ErrBadSeason reports a season value that is not a year or is out of range.
var ErrBadSeason = errors.New("invalid season")
