package itemcache

import "errors"

var (
	// ErrInvalidPattern is returned when a shortcut include or exclude pattern is malformed.
	ErrInvalidPattern = errors.New("invalid shortcut pattern")
)
