package fomo

import (
	"github.com/sirupsen/logrus"

	"github.com/nvr-ai/go-fomo/config"
	"github.com/nvr-ai/go-fomo/logging"
)

type options struct {
	log       *logrus.Entry
	threshold float32
}

// Option configures a TargetBuilder or an Evaluator.
type Option func(*options)

// WithLogger sets the logger. Components log nothing by default.
func WithLogger(log *logrus.Entry) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithThreshold sets the confidence threshold used to gate raw logits.
func WithThreshold(threshold float32) Option {
	return func(o *options) {
		o.threshold = threshold
	}
}

func newOptions(opts []Option) options {
	o := options{
		log:       logging.Discard(),
		threshold: config.DefaultConfidenceThreshold,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
