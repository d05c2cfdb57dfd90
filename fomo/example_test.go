package fomo_test

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-fomo/classes"
	"github.com/nvr-ai/go-fomo/common"
	"github.com/nvr-ai/go-fomo/config"
	"github.com/nvr-ai/go-fomo/dataset"
	"github.com/nvr-ai/go-fomo/fomo"
	"github.com/nvr-ai/go-fomo/logging"
)

func ExampleBuildTarget() {
	grid, err := fomo.BuildTarget(100, 100, 4, 4, 3, []common.Annotation{
		{Box: common.BoundingBox{X: 40, Y: 40, Width: 10, Height: 10}, Label: 2},
	})
	if err != nil {
		panic(err)
	}
	fmt.Println(grid.ClassAt(1, 1), grid.ClassAt(0, 0))
	// Output: 2 0
}

func ExampleComputePRF() {
	p, r, f1 := fomo.ComputePRF(0, 0, 0)
	fmt.Println(p, r, f1)
	p, r, f1 = fomo.ComputePRF(0, 1, 0)
	fmt.Println(p, r, f1)
	// Output:
	// 1 1 1
	// 0 0 0
}

func ExampleEvaluateDataset() {
	cfg, err := config.Parse([]byte("grid: {height: 4, width: 4}\nworkers: 2\nlogLevel: warn\n"))
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	set, err := classes.FromNames("person")
	if err != nil {
		panic(err)
	}
	src := dataset.NewMemorySource(set, dataset.Item{
		ImageHeight: 100,
		ImageWidth:  100,
		Annotations: []common.Annotation{{Box: common.BoundingBox{X: 40, Y: 40, Width: 10, Height: 10}, Label: 1}},
	})

	// A model that never sees anything.
	model := fomo.PredictorFunc(func(context.Context, int, dataset.Item) (fomo.Prediction, error) {
		return fomo.ClassIndices(tensor.New(tensor.WithShape(4, 4), tensor.Of(tensor.Int))), nil
	})

	acc, err := fomo.EvaluateDataset(context.Background(), src, model, cfg, fomo.WithLogger(logrus.NewEntry(log)))
	if err != nil {
		panic(err)
	}
	fmt.Println(acc.Totals().FN, acc.Finalize().Recall)
	// Output: 1 0
}
