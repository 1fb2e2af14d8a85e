package model

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/treeviz/pkg/errors"
)

func TestStateManager(t *testing.T) {
	s := NewStateManager()
	assert.False(t, s.IsFitted())

	err := s.RequireFitted("DecisionTreeClassifier", "Predict")
	var notFitted *errors.NotFittedError
	require.True(t, errors.As(err, &notFitted))
	assert.Equal(t, "Predict", notFitted.Method)

	s.SetFitted(2, 8)
	assert.True(t, s.IsFitted())
	assert.NoError(t, s.RequireFitted("DecisionTreeClassifier", "Predict"))

	nf, ns := s.GetDimensions()
	assert.Equal(t, 2, nf)
	assert.Equal(t, 8, ns)
	assert.Equal(t, ModelState{Fitted: true, NFeatures: 2, NSamples: 8}, s.GetState())

	s.Reset()
	assert.False(t, s.IsFitted())
	assert.Equal(t, ModelState{}, s.GetState())
}

type params struct {
	MaxDepth        int    `json:"max_depth"`
	MinSamplesSplit int    `json:"min_samples_split"`
	Criterion       string `json:"criterion"`
}

func TestSaveLoadJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	in := params{MaxDepth: 3, MinSamplesSplit: 2, Criterion: "gini"}

	require.NoError(t, SaveJSON(path, in))

	var out params
	require.NoError(t, LoadJSON(path, &out))
	assert.Equal(t, in, out)
}

func TestLoadJSONErrors(t *testing.T) {
	var out params
	err := LoadJSON(filepath.Join(t.TempDir(), "missing.json"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open")

	err = LoadJSONFromReader(strings.NewReader("{not json"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode model")
}

func TestSaveJSONToWriterIndents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SaveJSONToWriter(&buf, params{MaxDepth: 1}))
	assert.Contains(t, buf.String(), "\n  \"max_depth\": 1")
}
