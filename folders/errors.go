package folders

import "errors"

var (
	// ErrAlreadyIndexed is returned when the folder is already in the set.
	ErrAlreadyIndexed = errors.New("folder is already indexed")

	// ErrParentIndexed is returned when an indexed folder already covers the folder.
	ErrParentIndexed = errors.New("a parent folder is already indexed")

	// ErrNotDirectory is returned when the path does not name a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrNotIndexed is returned when removing a folder that is not in the set.
	ErrNotIndexed = errors.New("folder is not indexed")

	// ErrWatcherRunning is returned when Watch is called twice.
	ErrWatcherRunning = errors.New("folder watcher already running")
)
