package fomo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nvr-ai/go-fomo/config"
	"github.com/nvr-ai/go-fomo/dataset"
)

// Predictor runs the model on one dataset item.
type Predictor interface {
	Predict(ctx context.Context, index int, item dataset.Item) (Prediction, error)
}

// PredictorFunc adapts a function to Predictor.
type PredictorFunc func(ctx context.Context, index int, item dataset.Item) (Prediction, error)

// Predict calls f.
func (f PredictorFunc) Predict(ctx context.Context, index int, item dataset.Item) (Prediction, error) {
	return f(ctx, index, item)
}

// EvaluateDataset scores a model over every item of a source.
//
// Items are spread over cfg.Workers goroutines. Each worker owns an Evaluator
// and the per-worker accumulators are merged once all items are done, so the
// result does not depend on scheduling.
//
// Arguments:
//   - ctx: Cancels the pass between items.
//   - src: The annotated items and their class set.
//   - model: Produces a prediction per item.
//   - cfg: Grid size, confidence threshold and worker count.
//   - opts: WithLogger; WithThreshold overrides cfg.ConfidenceThreshold.
//
// Returns:
//   - *Accumulator: The merged totals; call Finalize or ClassReport on it.
//   - error: The first item error, wrapped with the item index.
func EvaluateDataset(
	ctx context.Context,
	src dataset.Source,
	model Predictor,
	cfg config.Config,
	opts ...Option,
) (*Accumulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	set := src.Classes()
	if set == nil {
		return nil, errors.New("source has no class set")
	}
	numClasses := set.NumClasses()
	opts = append([]Option{WithThreshold(cfg.ConfidenceThreshold)}, opts...)
	o := newOptions(opts)

	builder, err := NewTargetBuilder(cfg.Grid.Height, cfg.Grid.Width, numClasses, opts...)
	if err != nil {
		return nil, err
	}
	total, err := NewAccumulator(numClasses)
	if err != nil {
		return nil, err
	}

	workers := make([]*Evaluator, cfg.Workers)
	for w := range workers {
		if workers[w], err = NewEvaluator(numClasses, opts...); err != nil {
			return nil, err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	indices := make(chan int)
	g.Go(func() error {
		defer close(indices)
		for i := 0; i < src.Len(); i++ {
			select {
			case indices <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for _, eval := range workers {
		eval := eval
		g.Go(func() error {
			for i := range indices {
				if err := evaluateItem(gctx, src, model, builder, eval, i); err != nil {
					return errors.Wrapf(err, "item %d", i)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, eval := range workers {
		if err := total.Merge(eval.Accumulator()); err != nil {
			return nil, err
		}
	}

	m := total.Finalize()
	o.log.WithFields(logrus.Fields{
		"samples":    total.Samples(),
		"degenerate": builder.Degenerate(),
		"precision":  m.Precision,
		"recall":     m.Recall,
		"f1":         m.F1,
	}).Info("evaluation finished")
	return total, nil
}

func evaluateItem(
	ctx context.Context,
	src dataset.Source,
	model Predictor,
	builder *TargetBuilder,
	eval *Evaluator,
	index int,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	item, err := src.Item(ctx, index)
	if err != nil {
		return err
	}
	target, err := builder.Build(item.ImageHeight, item.ImageWidth, item.Annotations)
	if err != nil {
		return err
	}
	pred, err := model.Predict(ctx, index, item)
	if err != nil {
		return errors.Wrap(err, "prediction failed")
	}
	_, err = eval.Update(pred, target)
	return err
}
