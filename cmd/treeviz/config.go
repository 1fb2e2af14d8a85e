package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/treeviz/pkg/errors"
	"github.com/YuminosukeSato/treeviz/sklearn/tree"
)

// fileConfig is the YAML config file. Pointer fields distinguish unset keys
// from zero values.
type fileConfig struct {
	MaxDepth        *int   `yaml:"max_depth"`
	MinSamplesSplit *int   `yaml:"min_samples_split"`
	Criterion       string `yaml:"criterion"`
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, errors.Wrapf(err, "parsing config %s", path)
	}
	return fc, fc.Validate()
}

// Validate checks the values that are set.
func (fc fileConfig) Validate() error {
	if fc.MaxDepth != nil && *fc.MaxDepth < 0 {
		return errors.NewValidationError("max_depth", "must be >= 0", *fc.MaxDepth)
	}
	if fc.MinSamplesSplit != nil && *fc.MinSamplesSplit < 1 {
		return errors.NewValidationError("min_samples_split", "must be >= 1", *fc.MinSamplesSplit)
	}
	if _, err := tree.ParseCriterion(fc.Criterion); err != nil {
		return errors.NewValidationError("criterion", err.Error(), fc.Criterion)
	}
	return nil
}
