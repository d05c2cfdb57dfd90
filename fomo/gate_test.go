package fomo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestGateRawLogits(t *testing.T) {
	logits := tensor.New(tensor.WithShape(1, 2, 2, 3), tensor.WithBacking([]float32{
		5, 0, 0,
		0, 5, 0,
		0, 0, 5,
		0, 0.1, 0,
	}))

	m, err := Gate(RawLogits(logits), 0.25, 2)
	require.NoError(t, err)
	assert.Equal(t, &ClassMap{Batch: 1, Height: 2, Width: 2, Indices: []int{0, 1, 2, 1}}, m)

	// The last cell wins with p ~= 0.356 and drops to background at 0.4.
	m, err = Gate(RawLogits(logits), 0.4, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 0}, m.Indices)
}

func TestGateSuppressesLowConfidence(t *testing.T) {
	logits := tensor.New(tensor.WithShape(1, 1, 5), tensor.WithBacking([]float32{0, 0, 0, 0, 0.01}))

	m, err := Gate(RawLogits(logits), 0.25, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, m.Indices)

	m, err = Gate(RawLogits(logits), 0.2, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, m.Indices)
}

func TestGateThresholdIsStrict(t *testing.T) {
	row := []float32{0, 0.3, 0.1}
	class, prob := softmaxArgmax(row)
	require.Equal(t, 1, class)

	logits := tensor.New(tensor.WithShape(1, 1, 3), tensor.WithBacking(row))

	m, err := Gate(RawLogits(logits), prob, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, m.Indices, "probability equal to the threshold keeps its class")

	m, err = Gate(RawLogits(logits), math.Nextafter32(prob, 1), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, m.Indices, "probability one ulp below the threshold is background")
}

func TestSoftmaxArgmax(t *testing.T) {
	class, prob := softmaxArgmax([]float32{1, 1, 1, 1})
	assert.Equal(t, 0, class)
	assert.InDelta(t, 0.25, prob, 1e-6)

	class, prob = softmaxArgmax([]float32{1000, 0, -1000})
	assert.Equal(t, 0, class)
	assert.InDelta(t, 1.0, prob, 1e-6)
}

func TestGateRankThreeLogitsAndFloat64(t *testing.T) {
	logits := tensor.New(tensor.WithShape(2, 1, 2), tensor.WithBacking([]float64{
		0, 3,
		3, 0,
	}))

	m, err := Gate(RawLogits(logits), 0.25, 1)
	require.NoError(t, err)
	assert.Equal(t, &ClassMap{Batch: 1, Height: 2, Width: 1, Indices: []int{1, 0}}, m)
}

func TestGateClassIndices(t *testing.T) {
	tests := []struct {
		name    string
		t       *tensor.Dense
		want    *ClassMap
		wantErr error
	}{
		{
			name: "rank 2 int",
			t:    tensor.New(tensor.WithShape(2, 2), tensor.WithBacking([]int{0, 1, 2, 0})),
			want: &ClassMap{Batch: 1, Height: 2, Width: 2, Indices: []int{0, 1, 2, 0}},
		},
		{
			name: "rank 3 int64",
			t:    tensor.New(tensor.WithShape(2, 1, 2), tensor.WithBacking([]int64{0, 2, 1, 0})),
			want: &ClassMap{Batch: 2, Height: 1, Width: 2, Indices: []int{0, 2, 1, 0}},
		},
		{
			name: "whole float32",
			t:    tensor.New(tensor.WithShape(1, 3), tensor.WithBacking([]float32{2, 0, 1})),
			want: &ClassMap{Batch: 1, Height: 1, Width: 3, Indices: []int{2, 0, 1}},
		},
		{
			name:    "fractional float64",
			t:       tensor.New(tensor.WithShape(1, 2), tensor.WithBacking([]float64{0, 1.5})),
			wantErr: ErrLabelOutOfRange,
		},
		{
			name:    "class above C",
			t:       tensor.New(tensor.WithShape(1, 2), tensor.WithBacking([]int{0, 3})),
			wantErr: ErrLabelOutOfRange,
		},
		{
			name:    "negative class",
			t:       tensor.New(tensor.WithShape(1, 2), tensor.WithBacking([]int32{-1, 0})),
			wantErr: ErrLabelOutOfRange,
		},
		{
			name:    "rank 4",
			t:       tensor.New(tensor.WithShape(1, 1, 1, 2), tensor.WithBacking([]int{0, 1})),
			wantErr: ErrShapeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The threshold must not matter for collapsed predictions.
			m, err := Gate(ClassIndices(tt.t), 0.99, 2)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestGateShapeErrors(t *testing.T) {
	wrongChannels := tensor.New(tensor.WithShape(1, 2, 2, 4), tensor.Of(tensor.Float32))
	_, err := Gate(RawLogits(wrongChannels), 0.25, 2)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	rankTwo := tensor.New(tensor.WithShape(2, 3), tensor.Of(tensor.Float32))
	_, err = Gate(RawLogits(rankTwo), 0.25, 2)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	ints := tensor.New(tensor.WithShape(1, 1, 3), tensor.WithBacking([]int{0, 1, 0}))
	_, err = Gate(RawLogits(ints), 0.25, 2)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Gate(RawLogits(nil), 0.25, 2)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Gate(Prediction{}, 0.25, 2)
	assert.Error(t, err)
}

func TestPredictionKind(t *testing.T) {
	assert.Equal(t, KindRawLogits, RawLogits(nil).Kind())
	assert.Equal(t, KindClassIndices, ClassIndices(nil).Kind())
	assert.Equal(t, "raw-logits", KindRawLogits.String())
	assert.Equal(t, "class-indices", KindClassIndices.String())
	assert.Equal(t, "unknown", PredictionKind(0).String())
}
