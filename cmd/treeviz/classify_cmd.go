package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/treeviz/pkg/errors"
	"github.com/YuminosukeSato/treeviz/pkg/log"
	"github.com/YuminosukeSato/treeviz/sklearn/tree"
	"github.com/YuminosukeSato/treeviz/viz"
)

type classifyCmdConfig struct {
	*rootCmdConfig
	treeInput string
	features  string
	showPath  bool
}

func classifyCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &classifyCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a feature vector with a saved tree",
		Long:  `Load a tree written by build --output and print the label it predicts for a feature vector, together with the path of nodes it took.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Validate(); err != nil {
				return err
			}
			return config.run(cmd)
		},
	}
	cmd.Flags().StringVarP(&config.treeInput, "tree", "t", "", "path to a JSON tree written by build --output (required)")
	cmd.Flags().StringVarP(&config.features, "features", "f", "", "comma separated feature values, e.g. 1.5,2 (required)")
	cmd.Flags().BoolVar(&config.showPath, "path", true, "print the decision path")
	return cmd
}

func (cc *classifyCmdConfig) Validate() error {
	if cc.treeInput == "" {
		return errors.New("required tree flag was not set")
	}
	if cc.features == "" {
		return errors.New("required features flag was not set")
	}
	return nil
}

func parseFeatures(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	x := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing feature %d", i)
		}
		x[i] = v
	}
	return x, nil
}

func (cc *classifyCmdConfig) run(cmd *cobra.Command) error {
	x, err := parseFeatures(cc.features)
	if err != nil {
		return err
	}
	tf, err := loadTree(cc.treeInput)
	if err != nil {
		return err
	}

	path, err := tree.ClassifyPath(tf.Root, x)
	if err != nil {
		return err
	}
	leaf := path[len(path)-1]
	cc.logger.Debug("classified",
		log.OperationKey, log.OperationClassify,
		log.NodeIDKey, leaf.ID,
		log.PredictionKey, leaf.Prediction,
	)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "label: %s\n", leaf.Prediction)
	if !cc.showPath {
		return nil
	}
	for _, n := range path {
		if !n.IsSplit() {
			fmt.Fprintf(out, "  [%d] leaf %s\n", n.ID, n.Prediction)
			continue
		}
		name := "x[" + strconv.Itoa(n.FeatureIndex) + "]"
		if n.FeatureIndex < len(tf.FeatureNames) && tf.FeatureNames[n.FeatureIndex] != "" {
			name = tf.FeatureNames[n.FeatureIndex]
		}
		answer := "no"
		if x[n.FeatureIndex] <= n.Threshold {
			answer = "yes"
		}
		fmt.Fprintf(out, "  [%d] %s = %s <= %s? %s\n", n.ID, name,
			viz.FormatNumber(x[n.FeatureIndex]), viz.FormatNumber(n.Threshold), answer)
	}
	return nil
}
