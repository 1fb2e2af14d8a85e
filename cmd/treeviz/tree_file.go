package main

import (
	"github.com/YuminosukeSato/treeviz/core/model"
	"github.com/YuminosukeSato/treeviz/pkg/errors"
	"github.com/YuminosukeSato/treeviz/sklearn/tree"
)

// treeFile is the JSON document written by build and read by classify.
type treeFile struct {
	FeatureNames    []string   `json:"feature_names,omitempty"`
	Criterion       string     `json:"criterion"`
	MaxDepth        int        `json:"max_depth"`
	MinSamplesSplit int        `json:"min_samples_split"`
	Root            *tree.Node `json:"root"`
}

func saveTree(path string, tf *treeFile) error {
	return model.SaveJSON(path, tf)
}

func loadTree(path string) (*treeFile, error) {
	tf := &treeFile{}
	if err := model.LoadJSON(path, tf); err != nil {
		return nil, err
	}
	if err := tf.Root.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid tree in %s", path)
	}
	return tf, nil
}
