package fomo

import "github.com/pkg/errors"

var (
	// ErrShapeMismatch is returned when prediction and target grids disagree on
	// spatial size or on the channel count implied by the class count.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrLabelOutOfRange is returned for a class label outside [1, C] in an
	// annotation, or outside [0, C] in a class index grid.
	ErrLabelOutOfRange = errors.New("label out of range")
	// ErrInvalidDimensions is returned for non-positive image, grid or class counts.
	ErrInvalidDimensions = errors.New("invalid dimensions")
)
