// Package source reads an input file into a table.Batch, choosing the decoder
// from the file extension (.csv, .jsonl/.ndjson, optionally .gz compressed).
package source

import (
	"errors"
	"fmt"

	"pdclean/internal/csvin"
	"pdclean/internal/iox"
	"pdclean/internal/jsonl"
	"pdclean/internal/table"
)

var ErrUnsupported = errors.New("source: unsupported file type")

type Options struct {
	CSV   csvin.Options
	JSONL jsonl.Options
}

// Read opens path and decodes it whole.
func Read(path string, opt Options) (*table.Batch, error) {
	ext := iox.Ext(path)
	switch ext {
	case ".csv", ".jsonl", ".ndjson":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, path)
	}
	f, err := iox.OpenAuto(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	defer f.Close()

	var b *table.Batch
	if ext == ".csv" {
		b, err = csvin.ReadBatch(f, opt.CSV)
	} else {
		b, err = jsonl.ReadBatch(f, opt.JSONL)
	}
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", path, err)
	}
	return b, nil
}
