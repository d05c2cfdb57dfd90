package fomo

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// PredictionKind tells how a prediction tensor is laid out.
type PredictionKind int

const (
	// KindRawLogits is a (H, W, C+1) or (B, H, W, C+1) tensor of per-class scores.
	KindRawLogits PredictionKind = iota + 1
	// KindClassIndices is a (H, W) or (B, H, W) tensor of already collapsed classes.
	KindClassIndices
)

func (k PredictionKind) String() string {
	switch k {
	case KindRawLogits:
		return "raw-logits"
	case KindClassIndices:
		return "class-indices"
	default:
		return "unknown"
	}
}

// Prediction is a model output, tagged with its layout.
type Prediction struct {
	kind PredictionKind
	t    *tensor.Dense
}

// RawLogits tags t as per-class logits. Float32 and float64 tensors are accepted.
func RawLogits(t *tensor.Dense) Prediction {
	return Prediction{kind: KindRawLogits, t: t}
}

// ClassIndices tags t as collapsed class indices. Integer tensors are accepted,
// as are float tensors holding whole numbers.
func ClassIndices(t *tensor.Dense) Prediction {
	return Prediction{kind: KindClassIndices, t: t}
}

// Kind returns the layout tag.
func (p Prediction) Kind() PredictionKind { return p.kind }

// Tensor returns the wrapped tensor.
func (p Prediction) Tensor() *tensor.Dense { return p.t }

// Gate collapses a prediction into class indices.
//
// Raw logits go through a softmax over the channel axis. Each cell takes its
// arg-max class, unless the winning probability is strictly below threshold,
// in which case the cell becomes background. Class indices pass through
// unchanged after a range check.
//
// Arguments:
//   - p: The prediction.
//   - threshold: Minimum winning probability for a non-background class.
//   - numClasses: Number of object classes C.
//
// Returns:
//   - *ClassMap: The (B, H, W) class indices.
//   - error: ErrShapeMismatch or ErrLabelOutOfRange.
func Gate(p Prediction, threshold float32, numClasses int) (*ClassMap, error) {
	if p.t == nil {
		return nil, errors.Wrap(ErrShapeMismatch, "nil prediction tensor")
	}
	switch p.kind {
	case KindRawLogits:
		return gateLogits(p.t, threshold, numClasses)
	case KindClassIndices:
		return collectIndices(p.t, numClasses)
	default:
		return nil, errors.Errorf("unknown prediction kind %d", p.kind)
	}
}

func gateLogits(t *tensor.Dense, threshold float32, numClasses int) (*ClassMap, error) {
	shape := t.Shape()
	var batch, height, width, channels int
	switch len(shape) {
	case 3:
		batch, height, width, channels = 1, shape[0], shape[1], shape[2]
	case 4:
		batch, height, width, channels = shape[0], shape[1], shape[2], shape[3]
	default:
		return nil, errors.Wrapf(ErrShapeMismatch, "logits must be rank 3 or 4, got %v", shape)
	}
	if channels != numClasses+1 {
		return nil, errors.Wrapf(ErrShapeMismatch,
			"logits have %d channels, want %d for %d classes", channels, numClasses+1, numClasses)
	}

	var logits []float32
	switch data := t.Data().(type) {
	case []float32:
		logits = data
	case []float64:
		logits = make([]float32, len(data))
		for i, v := range data {
			logits[i] = float32(v)
		}
	default:
		return nil, errors.Wrapf(ErrShapeMismatch, "logits must be float32 or float64, got %v", t.Dtype())
	}
	if len(logits) != shape.TotalSize() {
		return nil, errors.Wrapf(ErrShapeMismatch, "logits backing has %d values for shape %v", len(logits), shape)
	}

	cells := batch * height * width
	m := &ClassMap{Batch: batch, Height: height, Width: width, Indices: make([]int, cells)}
	for i := 0; i < cells; i++ {
		class, prob := softmaxArgmax(logits[i*channels : (i+1)*channels])
		if prob < threshold {
			class = 0
		}
		m.Indices[i] = class
	}
	return m, nil
}

// softmaxArgmax returns the arg-max channel of a logit vector and its softmax probability.
func softmaxArgmax(logits []float32) (int, float32) {
	best := 0
	for c := 1; c < len(logits); c++ {
		if logits[c] > logits[best] {
			best = c
		}
	}
	top := logits[best]
	var sum float32
	for _, v := range logits {
		sum += math32.Exp(v - top)
	}
	return best, 1 / sum
}

func collectIndices(t *tensor.Dense, numClasses int) (*ClassMap, error) {
	shape := t.Shape()
	var batch, height, width int
	switch len(shape) {
	case 2:
		batch, height, width = 1, shape[0], shape[1]
	case 3:
		batch, height, width = shape[0], shape[1], shape[2]
	default:
		return nil, errors.Wrapf(ErrShapeMismatch, "class indices must be rank 2 or 3, got %v", shape)
	}

	indices, err := toInts(t.Data())
	if err != nil {
		return nil, errors.Wrapf(err, "class indices of dtype %v", t.Dtype())
	}
	if len(indices) != shape.TotalSize() {
		return nil, errors.Wrapf(ErrShapeMismatch, "class index backing has %d values for shape %v", len(indices), shape)
	}
	for i, v := range indices {
		if v < 0 || v > numClasses {
			return nil, errors.Wrapf(ErrLabelOutOfRange, "cell %d predicts class %d, want [0, %d]", i, v, numClasses)
		}
	}
	return &ClassMap{Batch: batch, Height: height, Width: width, Indices: indices}, nil
}

func toInts(data any) ([]int, error) {
	switch d := data.(type) {
	case []int:
		out := make([]int, len(d))
		copy(out, d)
		return out, nil
	case []int64:
		return convertInts(d), nil
	case []int32:
		return convertInts(d), nil
	case []int16:
		return convertInts(d), nil
	case []int8:
		return convertInts(d), nil
	case []uint8:
		return convertInts(d), nil
	case []float32:
		out := make([]int, len(d))
		for i, v := range d {
			if v != math32.Trunc(v) {
				return nil, errors.Wrapf(ErrLabelOutOfRange, "value %f at %d is not a class index", v, i)
			}
			out[i] = int(v)
		}
		return out, nil
	case []float64:
		out := make([]int, len(d))
		for i, v := range d {
			if v != float64(int64(v)) {
				return nil, errors.Wrapf(ErrLabelOutOfRange, "value %f at %d is not a class index", v, i)
			}
			out[i] = int(v)
		}
		return out, nil
	default:
		return nil, errors.Wrap(ErrShapeMismatch, "unsupported dtype")
	}
}

func convertInts[T int64 | int32 | int16 | int8 | uint8](d []T) []int {
	out := make([]int, len(d))
	for i, v := range d {
		out[i] = int(v)
	}
	return out
}
