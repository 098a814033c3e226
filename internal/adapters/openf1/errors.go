package openf1

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUpstreamStatus = errors.New("upstream returned non-success status")
	ErrRequest        = errors.New("upstream request failed")
	ErrDecode         = errors.New("decode upstream response")
)
