package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/treeviz/dataset"
	"github.com/YuminosukeSato/treeviz/pkg/errors"
	"github.com/YuminosukeSato/treeviz/pkg/log"
	"github.com/YuminosukeSato/treeviz/sklearn/tree"
	"github.com/YuminosukeSato/treeviz/viz"
)

type buildCmdConfig struct {
	*rootCmdConfig
	dataInput       string
	maxDepth        int
	minSamplesSplit int
	criterion       string
	steps           int
	output          string
	plotOutput      string
	plotX           int
	plotY           int
	showTree        bool
}

func buildCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &buildCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Grow a tree step by step and print its event log",
		Long: `Grow a tree breadth-first from a data set and print one row per split, leaf
and done event. Without --data the built-in fruit data set is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.applyFileConfig(cmd)
			if err := config.Validate(); err != nil {
				return err
			}
			return config.run(cmd)
		},
	}
	cmd.Flags().StringVarP(&config.dataInput, "data", "d", "", "path to a CSV (.csv) or JSON (.json) data set, or - for CSV on STDIN (defaults to the fruit data set)")
	cmd.Flags().IntVar(&config.maxDepth, "max-depth", 3, "maximum depth of the tree")
	cmd.Flags().IntVar(&config.minSamplesSplit, "min-samples-split", 2, "minimum number of samples a node needs to be split")
	cmd.Flags().StringVarP(&config.criterion, "criterion", "c", "gini", "impurity criterion: gini or entropy")
	cmd.Flags().IntVarP(&config.steps, "steps", "n", 0, "stop after this many events (defaults to 0: build to completion)")
	cmd.Flags().StringVarP(&config.output, "output", "o", "", "path to a file to which the finished tree will be written in JSON format")
	cmd.Flags().StringVar(&config.plotOutput, "plot", "", "path to an image (.png, .svg, .pdf) of the partition on two features")
	cmd.Flags().IntVar(&config.plotX, "plot-x", 0, "feature index on the horizontal axis of --plot")
	cmd.Flags().IntVar(&config.plotY, "plot-y", 1, "feature index on the vertical axis of --plot")
	cmd.Flags().BoolVar(&config.showTree, "tree", true, "print the tree after the event log")
	return cmd
}

// applyFileConfig fills in values from the config file for flags that were
// not given on the command line.
func (bc *buildCmdConfig) applyFileConfig(cmd *cobra.Command) {
	fc := bc.file
	if fc.MaxDepth != nil && !cmd.Flags().Changed("max-depth") {
		bc.maxDepth = *fc.MaxDepth
	}
	if fc.MinSamplesSplit != nil && !cmd.Flags().Changed("min-samples-split") {
		bc.minSamplesSplit = *fc.MinSamplesSplit
	}
	if fc.Criterion != "" && !cmd.Flags().Changed("criterion") {
		bc.criterion = fc.Criterion
	}
}

func (bc *buildCmdConfig) Validate() error {
	if bc.maxDepth < 0 {
		return errors.NewValidationError("max-depth", "must be >= 0", bc.maxDepth)
	}
	if bc.minSamplesSplit < 1 {
		return errors.NewValidationError("min-samples-split", "must be >= 1", bc.minSamplesSplit)
	}
	if bc.steps < 0 {
		return errors.NewValidationError("steps", "must be >= 0", bc.steps)
	}
	if _, err := tree.ParseCriterion(bc.criterion); err != nil {
		return errors.NewValidationError("criterion", err.Error(), bc.criterion)
	}
	return nil
}

func (bc *buildCmdConfig) trainingSet() (*dataset.Dataset, error) {
	switch bc.dataInput {
	case "":
		bc.Logf("Using the built-in fruit data set")
		return dataset.Fruit(), nil
	case "-":
		bc.Logf("Reading training set from STDIN...")
		return dataset.Load("")
	default:
		bc.Logf("Reading training set from %s...", bc.dataInput)
		return dataset.Load(bc.dataInput)
	}
}

func (bc *buildCmdConfig) run(cmd *cobra.Command) error {
	d, err := bc.trainingSet()
	if err != nil {
		return err
	}
	criterion, _ := tree.ParseCriterion(bc.criterion)

	b, err := tree.BuildTreeStepwise(d.Samples, bc.maxDepth, bc.minSamplesSplit,
		tree.WithCriterion(criterion),
		tree.WithLogger(bc.logger),
	)
	if err != nil {
		return err
	}
	stepper := viz.NewStepper(b)
	if bc.steps > 0 {
		stepper.Run(bc.steps)
	} else {
		stepper.Finish()
	}

	out := cmd.OutOrStdout()
	if err := viz.WriteEventTable(out, stepper.Rows(), d.FeatureNames...); err != nil {
		return err
	}
	if bc.showTree {
		fmt.Fprintln(out)
		if err := viz.WriteTree(out, stepper.Root(), d.FeatureNames...); err != nil {
			return err
		}
	}

	if bc.plotOutput != "" {
		if err := bc.writePlot(d, stepper); err != nil {
			return err
		}
	}

	if bc.output != "" {
		if !stepper.Done() {
			return errors.NewValueError("build", "the tree is incomplete after --steps; drop --steps to save it")
		}
		tf := &treeFile{
			FeatureNames:    d.FeatureNames,
			Criterion:       string(criterion),
			MaxDepth:        bc.maxDepth,
			MinSamplesSplit: bc.minSamplesSplit,
			Root:            stepper.Root(),
		}
		if err := saveTree(bc.output, tf); err != nil {
			return err
		}
		bc.logger.Info("tree saved", log.OutputKey, bc.output, log.NodesKey, stepper.Root().Count())
	}
	return nil
}

func (bc *buildCmdConfig) writePlot(d *dataset.Dataset, stepper *viz.Stepper) error {
	fy := bc.plotY
	if d.NumFeatures() == 1 {
		fy = 0
	}
	title := fmt.Sprintf("Partition after %d steps", len(stepper.Rows()))
	p, err := viz.PartitionPlot(stepper.Root(), d.Samples, bc.plotX, fy,
		viz.WithFeatureNames(d.FeatureNames...),
		viz.WithTitle(title),
	)
	if err != nil {
		return err
	}
	if err := viz.SavePlot(p, bc.plotOutput, 6*vg.Inch, 6*vg.Inch); err != nil {
		return err
	}
	bc.logger.Info("plot saved", log.OutputKey, bc.plotOutput)
	return nil
}
