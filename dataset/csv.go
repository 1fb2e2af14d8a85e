package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/treeviz/pkg/errors"
	"github.com/YuminosukeSato/treeviz/sklearn/tree"
)

// LabelColumn is the header name of the label column in CSV files.
const LabelColumn = "label"

/*
ReadCSV parses a CSV stream into a Dataset.

The first row is a header naming the feature columns, and its last column
must be LabelColumn. Every following row holds one numeric value per feature
and the label. Rows with a different number of fields are rejected.
*/
func ReadCSV(reader io.Reader) (*Dataset, error) {
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	if len(header) < 2 {
		return nil, errors.NewValueError("ReadCSV", "header needs at least one feature and the label column")
	}
	if name := strings.TrimSpace(header[len(header)-1]); name != LabelColumn {
		return nil, errors.NewValueError("ReadCSV", "last column must be "+strconv.Quote(LabelColumn)+", got "+strconv.Quote(name))
	}

	d := &Dataset{FeatureNames: make([]string, len(header)-1)}
	for i, name := range header[:len(header)-1] {
		d.FeatureNames[i] = strings.TrimSpace(name)
	}

	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading body")
		}
		sample, err := parseRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing line %d", line)
		}
		d.Samples = append(d.Samples, sample)
	}
	return d, nil
}

func parseRow(row []string) (tree.Sample, error) {
	n := len(row) - 1
	features := make([]float64, n)
	for i, field := range row[:n] {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return tree.Sample{}, errors.Wrapf(err, "column %d", i+1)
		}
		features[i] = v
	}
	return tree.Sample{Features: features, Label: strings.TrimSpace(row[n])}, nil
}

// WriteCSV writes d with a header row. Unnamed columns are written as x[i].
func WriteCSV(writer io.Writer, d *Dataset) error {
	w := csv.NewWriter(writer)
	n := d.NumFeatures()

	record := make([]string, n+1)
	for i := 0; i < n; i++ {
		record[i] = d.FeatureName(i)
	}
	record[n] = LabelColumn
	if err := w.Write(record); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}

	for i, s := range d.Samples {
		if len(s.Features) != n {
			return errors.NewDimensionError("WriteCSV", n, len(s.Features), 1)
		}
		for j, v := range s.Features {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		record[n] = s.Label
		if err := w.Write(record); err != nil {
			return errors.Wrapf(err, "writing sample %d", i)
		}
	}
	w.Flush()
	return errors.WithStack(w.Error())
}

// Load reads a dataset from path, choosing the format by extension: .json for
// the sample list format and anything else for CSV. An empty path reads CSV
// from stdin.
func Load(path string) (*Dataset, error) {
	f := os.Stdin
	if path != "" {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "reading training set")
		}
		defer f.Close()
	}

	var (
		d   *Dataset
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		d, err = ReadJSON(f)
	} else {
		d, err = ReadCSV(f)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", displayPath(path))
	}
	return d, nil
}

func displayPath(path string) string {
	if path == "" {
		return "stdin"
	}
	return path
}
