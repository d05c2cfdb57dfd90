package fomo

import (
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/nvr-ai/go-fomo/classes"
)

// Accumulator keeps the running totals of one evaluation pass.
//
// It is owned by the caller. Concurrent passes use separate accumulators;
// workers of one pass may share one (updates are serialised) or keep their own
// and Merge them at the end.
type Accumulator struct {
	mu          sync.Mutex
	numClasses  int
	totals      Counts
	samples     int
	scored      int
	accuracySum float64
	confusion   *mat.Dense
}

// NewAccumulator creates an empty accumulator for numClasses object classes.
func NewAccumulator(numClasses int) (*Accumulator, error) {
	if numClasses <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "%d classes", numClasses)
	}
	n := numClasses + 1
	return &Accumulator{numClasses: numClasses, confusion: mat.NewDense(n, n, nil)}, nil
}

// Add records the counts of one sample.
func (a *Accumulator) Add(c Counts) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.add(c)
}

func (a *Accumulator) add(c Counts) {
	a.totals = a.totals.Add(c)
	a.samples++
	if c.Total > 0 {
		a.scored++
		a.accuracySum += c.Accuracy()
	}
}

// AddConfusion records one sample's confusion matrix, keeping the full table
// for per-class reporting.
func (a *Accumulator) AddConfusion(cm *ConfusionMatrix) error {
	if cm.numClasses != a.numClasses {
		return errors.Wrapf(ErrShapeMismatch, "confusion matrix for %d classes, accumulator for %d",
			cm.numClasses, a.numClasses)
	}
	counts := cm.Counts()

	a.mu.Lock()
	defer a.mu.Unlock()
	a.add(counts)
	a.confusion.Add(a.confusion, cm.m)
	return nil
}

// Merge folds another accumulator into this one. The other accumulator is not modified.
func (a *Accumulator) Merge(o *Accumulator) error {
	if a == o {
		return errors.New("cannot merge an accumulator into itself")
	}
	if a.numClasses != o.numClasses {
		return errors.Wrapf(ErrShapeMismatch, "merging accumulator for %d classes into one for %d",
			o.numClasses, a.numClasses)
	}

	o.mu.Lock()
	totals, samples, scored, accuracySum := o.totals, o.samples, o.scored, o.accuracySum
	confusion := mat.DenseCopyOf(o.confusion)
	o.mu.Unlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	a.totals = a.totals.Add(totals)
	a.samples += samples
	a.scored += scored
	a.accuracySum += accuracySum
	a.confusion.Add(a.confusion, confusion)
	return nil
}

// Totals returns the summed counts.
func (a *Accumulator) Totals() Counts {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totals
}

// Samples returns how many samples have been recorded.
func (a *Accumulator) Samples() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.samples
}

// Finalize computes the aggregate metrics from the totals.
func (a *Accumulator) Finalize() Metrics {
	a.mu.Lock()
	defer a.mu.Unlock()

	var m Metrics
	m.Precision, m.Recall, m.F1 = ComputePRF(a.totals.TP, a.totals.FP, a.totals.FN)
	if a.scored > 0 {
		m.Accuracy = a.accuracySum / float64(a.scored)
	}
	return m
}

// ClassReport scores every object class one-vs-rest from the confusion
// table collected through AddConfusion.
//
// Arguments:
//   - set: Class names; must have the accumulator's class count.
//
// Returns:
//   - []ClassMetrics: One entry per label 1..C.
//   - error: ErrShapeMismatch if the set has a different class count.
func (a *Accumulator) ClassReport(set *classes.Set) ([]ClassMetrics, error) {
	if set.NumClasses() != a.numClasses {
		return nil, errors.Wrapf(ErrShapeMismatch, "class set has %d classes, accumulator %d",
			set.NumClasses(), a.numClasses)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	n := a.numClasses + 1
	report := make([]ClassMetrics, 0, a.numClasses)
	for k := 1; k < n; k++ {
		name, err := set.Name(k)
		if err != nil {
			return nil, err
		}
		tp := int(a.confusion.At(k, k))
		row := int(mat.Sum(a.confusion.RowView(k)))
		col := int(mat.Sum(a.confusion.ColView(k)))

		cm := ClassMetrics{Label: k, Name: name, TP: tp, FP: col - tp, FN: row - tp}
		cm.Precision, cm.Recall, cm.F1 = ComputePRF(cm.TP, cm.FP, cm.FN)
		report = append(report, cm)
	}
	return report, nil
}
