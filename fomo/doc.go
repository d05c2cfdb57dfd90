// Package fomo - dense grid targets and grid evaluation for FOMO detectors.
//
// FOMO (Faster Objects, More Objects) models predict a class per cell of a coarse
// H x W lattice instead of regressing boxes. This package turns box annotations
// into one-hot target grids, gates predicted grids by confidence, and scores
// predictions with precision, recall and F1 derived from a confusion matrix.
//
// A typical pass:
//
//	builder, _ := fomo.NewTargetBuilder(12, 12, set.NumClasses())
//	eval, _ := fomo.NewEvaluator(set.NumClasses())
//	for _, item := range items {
//		target, err := builder.Build(item.ImageHeight, item.ImageWidth, item.Annotations)
//		...
//		if _, err := eval.Update(fomo.RawLogits(logits), target); err != nil {
//			...
//		}
//	}
//	metrics := eval.Result()
package fomo
