package model

import (
	"encoding/json"
	"io"
	"os"

	"github.com/YuminosukeSato/treeviz/pkg/errors"
)

// SaveJSON はvをJSONとしてファイルに保存する
//
// 使用例:
//
//	b, _ := tree.BuildTreeStepwise(samples, 3, 2)
//	b.Drain()
//	err := model.SaveJSON("tree.json", b.Root())
func SaveJSON(filename string, v interface{}) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", filename)
	}
	defer file.Close()

	if err := SaveJSONToWriter(file, v); err != nil {
		return err
	}
	return errors.Wrapf(file.Sync(), "failed to flush %s", filename)
}

// LoadJSON はファイルからJSONを読み込み、vに復元する
func LoadJSON(filename string, v interface{}) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", filename)
	}
	defer file.Close()

	return LoadJSONFromReader(file, v)
}

// SaveJSONToWriter はvをインデント付きJSONとしてio.Writerに書き出す
func SaveJSONToWriter(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadJSONFromReader はio.ReaderからJSONを読み込む
func LoadJSONFromReader(r io.Reader, v interface{}) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}
