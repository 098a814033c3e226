package site

import "errors"

// Error constants.
var (
	ErrGenerate = errors.New("site template parse failed")
	ErrServe    = errors.New("site render failed")
)
