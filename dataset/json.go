package dataset

import (
	"encoding/json"
	"io"

	"github.com/YuminosukeSato/treeviz/pkg/errors"
	"github.com/YuminosukeSato/treeviz/sklearn/tree"
)

// ReadJSON は [{"features": [...], "label": "..."}] 形式のサンプル列を読み込む
func ReadJSON(r io.Reader) (*Dataset, error) {
	var samples []tree.Sample
	if err := json.NewDecoder(r).Decode(&samples); err != nil {
		return nil, errors.Wrap(err, "failed to decode samples")
	}
	return &Dataset{Samples: samples}, nil
}

// WriteJSON はサンプル列を ReadJSON と同じ形式で書き出す
func WriteJSON(w io.Writer, samples []tree.Sample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(samples); err != nil {
		return errors.Wrap(err, "failed to encode samples")
	}
	return nil
}
