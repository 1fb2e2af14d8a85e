package main

import (
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/treeviz/dataset"
	"github.com/YuminosukeSato/treeviz/pkg/errors"
	"github.com/YuminosukeSato/treeviz/pkg/log"
)

type demoCmdConfig struct {
	*rootCmdConfig
	name     string
	classes  int
	perClass int
	sigma    float64
	seed     uint64
	format   string
	output   string
}

func demoCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &demoCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write a demo data set",
		Long: `Write either the fixed fruit data set or a reproducible set of Gaussian
blobs whose centers are spread on a circle, in CSV or JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Validate(); err != nil {
				return err
			}
			return config.run(cmd)
		},
	}
	cmd.Flags().StringVar(&config.name, "name", "blobs", "data set to write: blobs or fruit")
	cmd.Flags().IntVar(&config.classes, "classes", 3, "number of blobs")
	cmd.Flags().IntVar(&config.perClass, "samples", 20, "samples per blob")
	cmd.Flags().Float64Var(&config.sigma, "sigma", 1.5, "standard deviation of each blob")
	cmd.Flags().Uint64Var(&config.seed, "seed", 1, "random seed")
	cmd.Flags().StringVar(&config.format, "format", "csv", "output format: csv or json")
	cmd.Flags().StringVarP(&config.output, "output", "o", "", "path to the output file (defaults to STDOUT)")
	return cmd
}

func (dc *demoCmdConfig) Validate() error {
	if dc.name != "blobs" && dc.name != "fruit" {
		return errors.NewValidationError("name", "must be blobs or fruit", dc.name)
	}
	if dc.format != "csv" && dc.format != "json" {
		return errors.NewValidationError("format", "must be csv or json", dc.format)
	}
	if dc.classes < 1 {
		return errors.NewValidationError("classes", "must be >= 1", dc.classes)
	}
	return nil
}

// blobCenters spreads k centers evenly on a circle of radius 10.
func blobCenters(k int) [][]float64 {
	centers := make([][]float64, k)
	for i := range centers {
		angle := 2 * math.Pi * float64(i) / float64(k)
		centers[i] = []float64{
			math.Round(1000*10*math.Cos(angle)) / 1000,
			math.Round(1000*10*math.Sin(angle)) / 1000,
		}
	}
	return centers
}

func (dc *demoCmdConfig) run(cmd *cobra.Command) error {
	var (
		d   *dataset.Dataset
		err error
	)
	if dc.name == "fruit" {
		d = dataset.Fruit()
	} else {
		d, err = dataset.Blobs(blobCenters(dc.classes), dc.perClass, dc.sigma, dc.seed)
		if err != nil {
			return err
		}
		d.FeatureNames = []string{"x", "y"}
	}

	var w io.Writer = cmd.OutOrStdout()
	if dc.output != "" {
		f, err := os.Create(dc.output)
		if err != nil {
			return errors.Wrap(err, "creating output")
		}
		defer f.Close()
		w = f
	}

	if dc.format == "json" {
		err = dataset.WriteJSON(w, d.Samples)
	} else {
		err = dataset.WriteCSV(w, d)
	}
	if err != nil {
		return err
	}
	dc.logger.Info("demo data set written",
		log.SamplesKey, len(d.Samples),
		log.FeaturesKey, d.NumFeatures(),
		log.OutputKey, dc.output,
	)
	return nil
}
