package fomo

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Counts are the cell-level outcomes of comparing a prediction to its target.
//
// TP counts correctly classified object cells. FN counts cells whose predicted
// class index is below the true one (an object missed as background, or as a
// lower class); FP counts cells whose predicted index is above the true one.
type Counts struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TN int `json:"tn"`
	// Cells on the diagonal, background included.
	Correct int `json:"correct"`
	// All compared cells.
	Total int `json:"total"`
}

// Add returns the component-wise sum of two counts.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		TP:      c.TP + o.TP,
		FP:      c.FP + o.FP,
		FN:      c.FN + o.FN,
		TN:      c.TN + o.TN,
		Correct: c.Correct + o.Correct,
		Total:   c.Total + o.Total,
	}
}

// Accuracy returns the share of correctly classified cells, or 0 for no cells.
func (c Counts) Accuracy() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Correct) / float64(c.Total)
}

// ConfusionMatrix is a (C+1)x(C+1) table of cell counts.
// Rows are true classes, columns predicted classes.
type ConfusionMatrix struct {
	m          *mat.Dense
	numClasses int
}

// NewConfusionMatrix allocates an empty matrix for numClasses object classes.
func NewConfusionMatrix(numClasses int) (*ConfusionMatrix, error) {
	if numClasses <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "%d classes", numClasses)
	}
	n := numClasses + 1
	return &ConfusionMatrix{m: mat.NewDense(n, n, nil), numClasses: numClasses}, nil
}

// Observe adds one count per cell of truth/pred to the matrix.
//
// Arguments:
//   - truth: The collapsed target.
//   - pred: The collapsed, gated prediction.
//
// Returns:
//   - error: ErrShapeMismatch if the maps differ in shape, ErrLabelOutOfRange
//     for an index outside [0, C]. The matrix is unchanged on error.
func (c *ConfusionMatrix) Observe(truth, pred *ClassMap) error {
	if !truth.SameShape(pred) {
		return errors.Wrapf(ErrShapeMismatch, "target is %dx%dx%d, prediction is %dx%dx%d",
			truth.Batch, truth.Height, truth.Width, pred.Batch, pred.Height, pred.Width)
	}
	if len(truth.Indices) != len(pred.Indices) {
		return errors.Wrapf(ErrShapeMismatch, "target has %d cells, prediction has %d",
			len(truth.Indices), len(pred.Indices))
	}
	for i := range truth.Indices {
		if t := truth.Indices[i]; t < 0 || t > c.numClasses {
			return errors.Wrapf(ErrLabelOutOfRange, "target cell %d has class %d", i, t)
		}
		if p := pred.Indices[i]; p < 0 || p > c.numClasses {
			return errors.Wrapf(ErrLabelOutOfRange, "predicted cell %d has class %d", i, p)
		}
	}

	raw := c.m.RawMatrix()
	for i := range truth.Indices {
		raw.Data[truth.Indices[i]*raw.Stride+pred.Indices[i]]++
	}
	return nil
}

// At returns the number of cells of class truth predicted as pred.
func (c *ConfusionMatrix) At(truth, pred int) int {
	return int(c.m.At(truth, pred))
}

// NumClasses returns C.
func (c *ConfusionMatrix) NumClasses() int {
	return c.numClasses
}

// Matrix returns a read-only view of the counts.
func (c *ConfusionMatrix) Matrix() mat.Matrix {
	return c.m
}

// Add sums another matrix of the same size into this one.
func (c *ConfusionMatrix) Add(o *ConfusionMatrix) error {
	if c.numClasses != o.numClasses {
		return errors.Wrapf(ErrShapeMismatch, "confusion matrices for %d and %d classes", c.numClasses, o.numClasses)
	}
	c.m.Add(c.m, o.m)
	return nil
}

// Counts derives TP/FP/FN/TN from the matrix.
//
// TN is the background diagonal entry and TP the rest of the diagonal. FN is
// the strictly lower triangle and FP the strictly upper triangle, so a
// confusion between two object classes lands in one of them depending on
// which index is larger.
func (c *ConfusionMatrix) Counts() Counts {
	n := c.numClasses + 1
	trace := int(mat.Trace(c.m))
	counts := Counts{
		TN:      c.At(0, 0),
		Correct: trace,
		Total:   int(mat.Sum(c.m)),
	}
	counts.TP = trace - counts.TN
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			switch {
			case i > j:
				counts.FN += c.At(i, j)
			case j > i:
				counts.FP += c.At(i, j)
			}
		}
	}
	return counts
}

// ComputeCounts compares one prediction with its target.
//
// Arguments:
//   - pred: The gated prediction.
//   - truth: The collapsed target.
//   - numClasses: Number of object classes C.
//
// Returns:
//   - Counts: The cell outcomes.
//   - error: ErrShapeMismatch or ErrLabelOutOfRange.
func ComputeCounts(pred, truth *ClassMap, numClasses int) (Counts, error) {
	cm, err := NewConfusionMatrix(numClasses)
	if err != nil {
		return Counts{}, err
	}
	if err := cm.Observe(truth, pred); err != nil {
		return Counts{}, err
	}
	return cm.Counts(), nil
}
