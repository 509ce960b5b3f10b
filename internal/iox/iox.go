// Package iox opens and creates files with transparent gzip handling.
package iox

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
)

func isGzip(path string) bool { return strings.EqualFold(filepath.Ext(path), ".gz") }

// Ext returns the lower-cased extension of path, looking through a trailing .gz:
// "trr.jsonl.gz" -> ".jsonl".
func Ext(path string) string {
	if isGzip(path) {
		path = path[:len(path)-len(filepath.Ext(path))]
	}
	return strings.ToLower(filepath.Ext(path))
}

func OpenAuto(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if isGzip(path) {
		gr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &rc{Reader: gr, closers: []io.Closer{gr, f}}, nil
	}
	return f, nil
}

func CreateAuto(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if isGzip(path) {
		gw := gzip.NewWriter(f)
		return &wc{Writer: gw, closers: []io.Closer{gw, f}}, nil
	}
	return f, nil
}

type rc struct {
	io.Reader
	closers []io.Closer
}

func (r *rc) Close() error { return closeAll(r.closers) }

type wc struct {
	io.Writer
	closers []io.Closer
}

func (w *wc) Close() error { return closeAll(w.closers) }

// closeAll closes in order and keeps the first error.
func closeAll(cs []io.Closer) error {
	var err error
	for _, c := range cs {
		if e := c.Close(); err == nil && e != nil {
			err = e
		}
	}
	return err
}
