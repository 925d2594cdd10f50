package series

import (
	"errors"
	"fmt"
)

// Error classes. Callers classify failures with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrAborted    = errors.New("aborted")
)

var (
	// ErrUnmarkedArtifact means a destination exists without a build marker.
	// Its provenance is unknown, so it must be removed manually.
	ErrUnmarkedArtifact = fmt.Errorf("%w: artifact has no build marker", ErrConflict)

	// ErrAmbiguousFile means a file was found below more than one template directory.
	ErrAmbiguousFile = fmt.Errorf("%w: file found in multiple template directories", ErrConflict)
)
