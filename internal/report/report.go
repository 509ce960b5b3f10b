// Package report renders recipes, batches and reference tables as aligned
// markdown tables for the command-line tools.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"pdclean/internal/pipeline"
	"pdclean/internal/refs"
	"pdclean/internal/table"
)

const sampleWidth = 32

// Plan lists the steps of p in execution order.
func Plan(w io.Writer, p *pipeline.Pipeline) error {
	rows := [][]string{{"#", "step", "kind", "columns"}}
	for i, s := range p.Steps() {
		cols := strings.Join(s.Columns, ", ")
		if s.Optional {
			cols += " (optional)"
		}
		rows = append(rows, []string{fmt.Sprint(i + 1), s.Name, s.Kind(), cols})
	}
	return write(w, rows)
}

// ColumnStats is the per-column summary shown by Summary.
type ColumnStats struct {
	Name     string
	NonNull  int
	Null     int
	Distinct int
	Sample   string
}

func Summarize(b *table.Batch) []ColumnStats {
	out := make([]ColumnStats, 0, len(b.Names()))
	for _, c := range b.Columns() {
		st := ColumnStats{Name: c.Name}
		seen := map[string]struct{}{}
		for _, v := range c.Values {
			if v.IsNull() {
				st.Null++
				continue
			}
			st.NonNull++
			s := v.String()
			if st.Sample == "" {
				st.Sample = s
			}
			seen[s] = struct{}{}
		}
		st.Distinct = len(seen)
		out = append(out, st)
	}
	return out
}

// Summary prints row count and per-column null/distinct counts with a sample value.
func Summary(w io.Writer, b *table.Batch) error {
	if _, err := fmt.Fprintf(w, "%d rows, %d columns\n\n", b.Rows(), len(b.Names())); err != nil {
		return err
	}
	rows := [][]string{{"column", "non-null", "null", "distinct", "sample"}}
	for _, st := range Summarize(b) {
		rows = append(rows, []string{
			st.Name,
			fmt.Sprint(st.NonNull),
			fmt.Sprint(st.Null),
			fmt.Sprint(st.Distinct),
			runewidth.Truncate(st.Sample, sampleWidth, "…"),
		})
	}
	return write(w, rows)
}

// Refs prints the size of each loaded reference table.
func Refs(w io.Writer, r *refs.Registry) error {
	rows := [][]string{{"table", "entries", "code width"}}
	for _, t := range []*refs.Table{r.Beat, r.Unit, r.Category} {
		if t == nil {
			continue
		}
		width := "-"
		if t.Width() > 0 {
			width = fmt.Sprint(t.Width())
		}
		rows = append(rows, []string{t.Name(), fmt.Sprint(t.Len()), width})
	}
	if r.Officers != nil {
		rows = append(rows, []string{"officer", fmt.Sprint(r.Officers.Rows()), "-"})
	}
	return write(w, rows)
}

// Lookups prints code -> label pairs; errs holds failures keyed by code.
func Lookups(w io.Writer, tbl string, labels map[string]refs.Label, errs map[string]error) error {
	codes := make([]string, 0, len(labels)+len(errs))
	for c := range labels {
		codes = append(codes, c)
	}
	for c := range errs {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	rows := [][]string{{"table", "code", "label"}}
	for _, c := range codes {
		label := ""
		switch {
		case errs[c] != nil:
			label = "ERROR: " + errs[c].Error()
		case !labels[c].Valid:
			label = "(none)"
		default:
			label = labels[c].Text
		}
		rows = append(rows, []string{tbl, c, label})
	}
	return write(w, rows)
}

// Officers lists roster rows in refs.OfficerColumns order.
func Officers(w io.Writer, found []map[string]table.Value) error {
	rows := [][]string{refs.OfficerColumns}
	for _, r := range found {
		line := make([]string, len(refs.OfficerColumns))
		for i, c := range refs.OfficerColumns {
			line[i] = r[c].String()
		}
		rows = append(rows, line)
	}
	return write(w, rows)
}

// write renders rows as a markdown table; rows[0] is the header.
func write(w io.Writer, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}
	for i := range widths {
		widths[i] = max(widths[i], 3)
	}

	var sb strings.Builder
	line := func(row []string) {
		sb.WriteString("|")
		for i, width := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			sb.WriteString(" ")
			sb.WriteString(runewidth.FillRight(cell, width))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}
	line(rows[0])
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	line(sep)
	for _, row := range rows[1:] {
		line(row)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
