package fomo

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Evaluator scores a stream of predictions against their target grids.
type Evaluator struct {
	numClasses int
	threshold  float32
	acc        *Accumulator
	log        *logrus.Entry
}

// NewEvaluator creates an evaluator with a fresh accumulator.
//
// Arguments:
//   - numClasses: Number of object classes C.
//   - opts: WithThreshold (default 0.25) and WithLogger.
//
// Returns:
//   - *Evaluator: The evaluator.
//   - error: ErrInvalidDimensions if numClasses is not positive.
func NewEvaluator(numClasses int, opts ...Option) (*Evaluator, error) {
	acc, err := NewAccumulator(numClasses)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	return &Evaluator{
		numClasses: numClasses,
		threshold:  o.threshold,
		acc:        acc,
		log:        o.log,
	}, nil
}

// Update gates one prediction, compares it with its targets and records the counts.
//
// Arguments:
//   - p: The prediction, with a batch size equal to len(targets).
//   - targets: One target grid per batch sample.
//
// Returns:
//   - Counts: The counts of this update alone.
//   - error: ErrShapeMismatch or ErrLabelOutOfRange; nothing is recorded on error.
func (e *Evaluator) Update(p Prediction, targets ...*Grid) (Counts, error) {
	for i, g := range targets {
		if g.NumClasses() != e.numClasses {
			return Counts{}, errors.Wrapf(ErrShapeMismatch,
				"target %d has %d classes, evaluator %d", i, g.NumClasses(), e.numClasses)
		}
	}
	truth, err := Collapse(targets...)
	if err != nil {
		return Counts{}, err
	}
	pred, err := Gate(p, e.threshold, e.numClasses)
	if err != nil {
		return Counts{}, err
	}

	cm, err := NewConfusionMatrix(e.numClasses)
	if err != nil {
		return Counts{}, err
	}
	if err := cm.Observe(truth, pred); err != nil {
		return Counts{}, err
	}
	if err := e.acc.AddConfusion(cm); err != nil {
		return Counts{}, err
	}

	counts := cm.Counts()
	e.log.WithFields(logrus.Fields{
		"kind": p.Kind().String(),
		"tp":   counts.TP,
		"fp":   counts.FP,
		"fn":   counts.FN,
	}).Debug("evaluated sample")
	return counts, nil
}

// Result returns the metrics over everything recorded so far.
func (e *Evaluator) Result() Metrics {
	return e.acc.Finalize()
}

// Accumulator returns the evaluator's accumulator.
func (e *Evaluator) Accumulator() *Accumulator {
	return e.acc
}
