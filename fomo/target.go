package fomo

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/nvr-ai/go-fomo/common"
)

// TargetBuilder turns box annotations into one-hot FOMO target grids.
//
// Each annotation claims the cell that contains its box centre. When two
// annotations fall into the same cell the later one wins.
type TargetBuilder struct {
	gridHeight int
	gridWidth  int
	numClasses int
	log        *logrus.Entry
	degenerate atomic.Int64
}

// NewTargetBuilder creates a builder for a fixed grid size and class count.
//
// Arguments:
//   - gridHeight: Number of grid rows H.
//   - gridWidth: Number of grid columns W.
//   - numClasses: Number of object classes C.
//   - opts: WithLogger enables warnings for degenerate boxes.
//
// Returns:
//   - *TargetBuilder: The builder.
//   - error: ErrInvalidDimensions if any size is not positive.
func NewTargetBuilder(gridHeight, gridWidth, numClasses int, opts ...Option) (*TargetBuilder, error) {
	if gridHeight <= 0 || gridWidth <= 0 || numClasses <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions,
			"grid %dx%d with %d classes", gridHeight, gridWidth, numClasses)
	}
	o := newOptions(opts)
	return &TargetBuilder{
		gridHeight: gridHeight,
		gridWidth:  gridWidth,
		numClasses: numClasses,
		log:        o.log,
	}, nil
}

// Build constructs the (H, W, C+1) target grid for one image.
//
// Every label is checked before the grid is touched, so a bad label never
// yields a partial grid. Zero-area and out-of-image boxes are still placed,
// with the cell clamped into the grid, and reported through the logger.
//
// Arguments:
//   - imageHeight: Image height in pixels.
//   - imageWidth: Image width in pixels.
//   - annotations: Boxes and labels in iteration order.
//
// Returns:
//   - *Grid: The one-hot target grid.
//   - error: ErrInvalidDimensions or ErrLabelOutOfRange.
func (b *TargetBuilder) Build(imageHeight, imageWidth int, annotations []common.Annotation) (*Grid, error) {
	if imageHeight <= 0 || imageWidth <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "image %dx%d", imageHeight, imageWidth)
	}
	for i, a := range annotations {
		if a.Label < 1 || a.Label > b.numClasses {
			return nil, errors.Wrapf(ErrLabelOutOfRange,
				"annotation %d has label %d, want [1, %d]", i, a.Label, b.numClasses)
		}
	}

	grid, err := NewGrid(b.gridHeight, b.gridWidth, b.numClasses)
	if err != nil {
		return nil, err
	}
	grid.fill()

	for i, a := range annotations {
		row, col := b.Cell(imageHeight, imageWidth, a.Box)
		if a.Box.Degenerate() || !a.Box.Within(imageWidth, imageHeight) {
			b.degenerate.Add(1)
			b.log.WithFields(logrus.Fields{
				"annotation": i,
				"box":        a.Box.String(),
				"label":      a.Label,
				"image":      [2]int{imageHeight, imageWidth},
				"cell":       [2]int{row, col},
			}).Warn("degenerate box")
		}
		grid.assign(row, col, a.Label)
	}
	return grid, nil
}

// Cell returns the grid cell containing the centre of box.
//
// The centre is normalised by the image size, scaled by the grid size and
// truncated; results outside the grid are clamped to its border.
//
// @example
// b, _ := NewTargetBuilder(4, 4, 3)
// row, col := b.Cell(100, 100, common.BoundingBox{X: 40, Y: 40, Width: 10, Height: 10}) // 1, 1
func (b *TargetBuilder) Cell(imageHeight, imageWidth int, box common.BoundingBox) (row, col int) {
	cx := float64(box.X) + float64(box.Width)/2
	cy := float64(box.Y) + float64(box.Height)/2
	col = clamp(int(cx/float64(imageWidth)*float64(b.gridWidth)), b.gridWidth)
	row = clamp(int(cy/float64(imageHeight)*float64(b.gridHeight)), b.gridHeight)
	return row, col
}

// Degenerate returns how many degenerate boxes this builder has seen.
func (b *TargetBuilder) Degenerate() int64 {
	return b.degenerate.Load()
}

// BuildTarget builds one target grid without keeping a builder around.
func BuildTarget(
	imageHeight, imageWidth, gridHeight, gridWidth, numClasses int,
	annotations []common.Annotation,
) (*Grid, error) {
	b, err := NewTargetBuilder(gridHeight, gridWidth, numClasses)
	if err != nil {
		return nil, err
	}
	return b.Build(imageHeight, imageWidth, annotations)
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
