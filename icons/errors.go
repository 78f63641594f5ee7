package icons

import "errors"

var (
	// ErrNoIcon is returned when the extractor has no icon for a path.
	ErrNoIcon = errors.New("no icon available")

	// ErrNotImage is returned when icon bytes are not a raster image.
	ErrNotImage = errors.New("icon data is not an image")

	// ErrManifestUnreadable is returned when a package manifest is missing or malformed.
	ErrManifestUnreadable = errors.New("package manifest unreadable")

	// ErrNoLogo is returned when a package declares no logo or none of its
	// candidate files exist.
	ErrNoLogo = errors.New("package logo not found")
)
