package fomo

import "fmt"

// Metrics is the aggregate score of an evaluation pass.
type Metrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	// Mean per-sample cell accuracy, background included.
	Accuracy float64 `json:"accuracy"`
}

// Results returns the metrics keyed the way training loggers expect them.
func (m Metrics) Results() map[string]float64 {
	return map[string]float64{
		"P":  m.Precision,
		"R":  m.Recall,
		"F1": m.F1,
	}
}

func (m Metrics) String() string {
	return fmt.Sprintf("P=%.4f R=%.4f F1=%.4f acc=%.4f", m.Precision, m.Recall, m.F1, m.Accuracy)
}

// ComputePRF turns counts into precision, recall and F1.
//
// No true positives, false positives or false negatives at all means the
// prediction matched an empty target, which scores 1 across the board.
// Otherwise each ratio with a zero denominator is 0.
func ComputePRF(tp, fp, fn int) (precision, recall, f1 float64) {
	if tp == 0 && fp == 0 && fn == 0 {
		return 1, 1, 1
	}
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1
}

// ClassMetrics is the one-vs-rest score of a single class.
type ClassMetrics struct {
	Label     int     `json:"label"`
	Name      string  `json:"name"`
	TP        int     `json:"tp"`
	FP        int     `json:"fp"`
	FN        int     `json:"fn"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}
