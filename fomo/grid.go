package fomo

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Grid is a dense (H, W, C+1) float32 grid. Channel 0 is the background.
type Grid struct {
	t        *tensor.Dense
	height   int
	width    int
	channels int
}

// NewGrid allocates a zeroed grid for numClasses object classes.
//
// Arguments:
//   - height: Number of grid rows H.
//   - width: Number of grid columns W.
//   - numClasses: Number of object classes C; the grid has C+1 channels.
//
// Returns:
//   - *Grid: The zeroed grid.
//   - error: ErrInvalidDimensions if any argument is not positive.
func NewGrid(height, width, numClasses int) (*Grid, error) {
	if height <= 0 || width <= 0 || numClasses <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions,
			"grid %dx%d with %d classes", height, width, numClasses)
	}
	channels := numClasses + 1
	return &Grid{
		t:        tensor.New(tensor.WithShape(height, width, channels), tensor.Of(tensor.Float32)),
		height:   height,
		width:    width,
		channels: channels,
	}, nil
}

// GridFromTensor wraps an existing (H, W, C+1) float32 tensor, such as a target
// produced by a training loop. The tensor is not copied.
func GridFromTensor(t *tensor.Dense) (*Grid, error) {
	if t == nil {
		return nil, errors.Wrap(ErrShapeMismatch, "nil tensor")
	}
	shape := t.Shape()
	if len(shape) != 3 {
		return nil, errors.Wrapf(ErrShapeMismatch, "grid tensor must be (H, W, C+1), got %v", shape)
	}
	if t.Dtype() != tensor.Float32 {
		return nil, errors.Wrapf(ErrShapeMismatch, "grid tensor must be float32, got %v", t.Dtype())
	}
	if shape[2] < 2 {
		return nil, errors.Wrapf(ErrShapeMismatch, "grid tensor needs at least 2 channels, got %d", shape[2])
	}
	if data, ok := t.Data().([]float32); !ok || len(data) != shape.TotalSize() {
		return nil, errors.Wrapf(ErrShapeMismatch, "grid tensor backing does not match shape %v", shape)
	}
	return &Grid{t: t, height: shape[0], width: shape[1], channels: shape[2]}, nil
}

// Height returns H.
func (g *Grid) Height() int { return g.height }

// Width returns W.
func (g *Grid) Width() int { return g.width }

// Channels returns C+1.
func (g *Grid) Channels() int { return g.channels }

// NumClasses returns C.
func (g *Grid) NumClasses() int { return g.channels - 1 }

// Tensor returns the backing tensor.
func (g *Grid) Tensor() *tensor.Dense { return g.t }

// At returns the value at row h, column w, channel c.
func (g *Grid) At(h, w, c int) float32 {
	return g.data()[g.offset(h, w)+c]
}

// Cell returns the channel vector of a cell. The slice aliases the grid.
func (g *Grid) Cell(h, w int) []float32 {
	off := g.offset(h, w)
	return g.data()[off : off+g.channels]
}

// ClassAt returns the index of the largest channel of a cell.
func (g *Grid) ClassAt(h, w int) int {
	cell := g.Cell(h, w)
	best := 0
	for c := 1; c < len(cell); c++ {
		if cell[c] > cell[best] {
			best = c
		}
	}
	return best
}

// Validate checks that every cell is one-hot.
func (g *Grid) Validate() error {
	for h := 0; h < g.height; h++ {
		for w := 0; w < g.width; w++ {
			ones := 0
			for c, v := range g.Cell(h, w) {
				switch v {
				case 1:
					ones++
				case 0:
				default:
					return errors.Wrapf(ErrShapeMismatch, "cell (%d, %d) channel %d holds %f", h, w, c, v)
				}
			}
			if ones != 1 {
				return errors.Wrapf(ErrShapeMismatch, "cell (%d, %d) has %d hot channels", h, w, ones)
			}
		}
	}
	return nil
}

// Equal reports whether two grids have identical shape and contents.
func (g *Grid) Equal(o *Grid) bool {
	if g.height != o.height || g.width != o.width || g.channels != o.channels {
		return false
	}
	a, b := g.data(), o.data()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// fill sets every cell to background.
func (g *Grid) fill() {
	data := g.data()
	for i := range data {
		data[i] = 0
	}
	for i := 0; i < len(data); i += g.channels {
		data[i] = 1
	}
}

// assign makes label the only hot channel of the cell.
func (g *Grid) assign(h, w, label int) {
	cell := g.Cell(h, w)
	for c := range cell {
		cell[c] = 0
	}
	cell[label] = 1
}

func (g *Grid) data() []float32 {
	return g.t.Data().([]float32)
}

func (g *Grid) offset(h, w int) int {
	return (h*g.width + w) * g.channels
}

// ClassMap is a collapsed (B, H, W) grid of class indices.
type ClassMap struct {
	Batch   int
	Height  int
	Width   int
	Indices []int
}

// At returns the class index at sample b, row h, column w.
func (m *ClassMap) At(b, h, w int) int {
	return m.Indices[(b*m.Height+h)*m.Width+w]
}

// SameShape reports whether two maps have identical dimensions.
func (m *ClassMap) SameShape(o *ClassMap) bool {
	return m.Batch == o.Batch && m.Height == o.Height && m.Width == o.Width
}

// Collapse stacks grids into a batch and takes the arg-max over the channel axis.
//
// Arguments:
//   - grids: One grid per batch sample; all must share the same shape.
//
// Returns:
//   - *ClassMap: The (len(grids), H, W) class indices.
//   - error: ErrShapeMismatch if the grids disagree on shape.
func Collapse(grids ...*Grid) (*ClassMap, error) {
	if len(grids) == 0 {
		return nil, errors.Wrap(ErrShapeMismatch, "no grids to collapse")
	}
	first := grids[0]
	m := &ClassMap{
		Batch:   len(grids),
		Height:  first.height,
		Width:   first.width,
		Indices: make([]int, 0, len(grids)*first.height*first.width),
	}
	for i, g := range grids {
		if g.height != first.height || g.width != first.width || g.channels != first.channels {
			return nil, errors.Wrapf(ErrShapeMismatch, "grid %d is %dx%dx%d, want %dx%dx%d",
				i, g.height, g.width, g.channels, first.height, first.width, first.channels)
		}
		idx, err := g.t.Argmax(2)
		if err != nil {
			return nil, errors.Wrapf(err, "arg-max of grid %d", i)
		}
		m.Indices = append(m.Indices, idx.Data().([]int)...)
	}
	return m, nil
}
