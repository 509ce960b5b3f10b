// Package jsonl reads newline-delimited JSON records into a table.Batch.
package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/bytedance/sonic"

	"pdclean/internal/table"
)

// decoder keeps numbers as their JSON text.
var decoder = sonic.Config{UseNumber: true}.Froze()

type Options struct {
	Workers  int // parser goroutines
	BufLines int // jobs channel size (lines)
}

type job struct {
	idx  int
	line int
	data []byte
}

type parsed struct {
	flat map[string]table.Value
	err  error
}

// ReadBatch parses every record in parallel, flattens nested objects into
// dot.notation keys and builds one column per key. Columns are the sorted union
// of keys; a record missing a key gets a null cell. Blank lines are ignored, a
// malformed line fails the read.
func ReadBatch(r io.Reader, opt Options) (*table.Batch, error) {
	if opt.Workers <= 0 {
		opt.Workers = 8
	}
	if opt.BufLines <= 0 {
		opt.BufLines = 8192
	}

	var (
		mu      sync.Mutex
		results []parsed
		wg      sync.WaitGroup
	)
	jobs := make(chan job, opt.BufLines)

	worker := func() {
		defer wg.Done()
		for j := range jobs {
			var v any
			p := parsed{}
			if err := decoder.Unmarshal(j.data, &v); err != nil {
				p.err = fmt.Errorf("jsonl line %d: %w", j.line, err)
			} else if obj, ok := v.(map[string]any); !ok {
				p.err = fmt.Errorf("jsonl line %d: record is not an object", j.line)
			} else {
				p.flat = make(map[string]table.Value, len(obj))
				flatten("", obj, p.flat)
			}
			mu.Lock()
			results[j.idx] = p
			mu.Unlock()
		}
	}

	br := bufio.NewReaderSize(r, 1<<20)
	var (
		lines   [][]byte
		lineNos []int
		n       int
	)
	for {
		l, err := br.ReadBytes('\n')
		if len(l) > 0 {
			n++
			if t := bytes.TrimSpace(l); len(t) > 0 {
				lines = append(lines, t)
				lineNos = append(lineNos, n)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("jsonl read: %w", err)
		}
	}
	results = make([]parsed, len(lines))

	wg.Add(opt.Workers)
	for i := 0; i < opt.Workers; i++ {
		go worker()
	}
	for i, l := range lines {
		jobs <- job{idx: i, line: lineNos[i], data: l}
	}
	close(jobs)
	wg.Wait()

	keys := make(map[string]struct{})
	for _, p := range results {
		if p.err != nil {
			return nil, p.err
		}
		for k := range p.flat {
			keys[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)

	cols := make([]table.Column, len(names))
	for i, name := range names {
		vals := make([]table.Value, len(results))
		for row, p := range results {
			vals[row] = p.flat[name]
		}
		cols[i] = table.Column{Name: name, Values: vals}
	}
	return table.NewBatch(cols...)
}

// flatten turns a JSON value into dot.notation cells. Arrays are kept as their
// JSON text.
func flatten(prefix string, v any, out map[string]table.Value) {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, val, out)
		}
	case []any:
		if b, err := sonic.Marshal(t); err == nil {
			out[prefix] = table.TextValue(string(b))
		} else {
			out[prefix] = table.TextValue("[]")
		}
	case string:
		out[prefix] = table.TextValue(t)
	case json.Number:
		if n, ok := table.ParseNumber(string(t)); ok {
			out[prefix] = n
		} else {
			out[prefix] = table.TextValue(string(t))
		}
	case bool:
		out[prefix] = table.BoolValue(t)
	case nil:
		out[prefix] = table.NullValue()
	default:
		if b, err := sonic.Marshal(t); err == nil {
			out[prefix] = table.TextValue(string(b))
		}
	}
}
