package runtime

import "errors"

var (
	// ErrNameConflict is returned when a container with the requested name already exists.
	ErrNameConflict = errors.New("container name already in use")
	// ErrImageNotFound is returned when the image to run does not exist in the engine.
	ErrImageNotFound = errors.New("image not found")
)
