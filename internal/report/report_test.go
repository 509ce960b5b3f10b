package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pdclean/internal/categorical"
	"pdclean/internal/pipeline"
	"pdclean/internal/refs"
	"pdclean/internal/table"
)

func TestWriteAlignsWideRunes(t *testing.T) {
	var buf bytes.Buffer
	if err := write(&buf, [][]string{{"a", "b"}, {"名前", "x"}, {"z", "long value"}}); err != nil {
		t.Fatal(err)
	}
	want := "" +
		"| a    | b          |\n" +
		"| ---- | ---------- |\n" +
		"| 名前 | x          |\n" +
		"| z    | long value |\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("table (-want +got):\n%s", diff)
	}
}

func TestPlan(t *testing.T) {
	p, err := pipeline.New("x", pipeline.Options{},
		pipeline.CleanColumnNames(),
		pipeline.OptionalColumns("clean_races", categorical.CleanRaces, "race", "subject_race"),
	)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Plan(&buf, p); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[2], "clean_column_names") || !strings.Contains(lines[2], "batch") {
		t.Errorf("line 3 = %q", lines[2])
	}
	if !strings.Contains(lines[3], "race, subject_race (optional)") {
		t.Errorf("line 4 = %q", lines[3])
	}
}

func TestSummarize(t *testing.T) {
	b, _ := table.NewBatch(
		table.TextColumn("race", "Black", "", "Black", "White"),
		table.NewColumn("year", table.NumberValue(1973), table.NullValue(), table.NullValue(), table.NumberValue(1973)),
	)
	want := []ColumnStats{
		{Name: "race", NonNull: 3, Null: 1, Distinct: 2, Sample: "Black"},
		{Name: "year", NonNull: 2, Null: 2, Distinct: 1, Sample: "1973"},
	}
	if diff := cmp.Diff(want, Summarize(b)); diff != "" {
		t.Errorf("Summarize (-want +got):\n%s", diff)
	}
	var buf bytes.Buffer
	if err := Summary(&buf, b); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "4 rows, 2 columns\n") {
		t.Errorf("summary header: %q", buf.String())
	}
}

func TestRefsAndLookups(t *testing.T) {
	r := &refs.Registry{
		Beat: refs.NewTable("beat", refs.BeatWidth, map[string]string{"0111": "Beat 111", "0112": "Beat 112"}),
		Unit: refs.NewTable("unit", refs.UnitWidth, map[string]string{"001": "District 1"}),
	}
	var buf bytes.Buffer
	if err := Refs(&buf, r); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "| beat  | 2       | 4          |") {
		t.Errorf("refs table:\n%s", buf.String())
	}

	buf.Reset()
	labels := map[string]refs.Label{"0000": {}, "0111": {Text: "Beat 111", Valid: true}}
	errs := map[string]error{"9999": errors.New("unmapped")}
	if err := Lookups(&buf, "beat", labels, errs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, s := range []string{"(none)", "Beat 111", "ERROR: unmapped"} {
		if !strings.Contains(out, s) {
			t.Errorf("missing %q in:\n%s", s, out)
		}
	}
}

func TestOfficers(t *testing.T) {
	found := []map[string]table.Value{{
		"id":             table.Infer("1"),
		"last_name":      table.TextValue("jones"),
		"first_name":     table.TextValue("mary"),
		"appointed_date": table.TextValue("1998-04-13"),
		"birth_year":     table.IntValue(1973),
	}}
	var buf bytes.Buffer
	if err := Officers(&buf, found); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	for _, s := range []string{"| 1   | jones", "| mary", "| 1998-04-13", "| 1973"} {
		if !strings.Contains(lines[2], s) {
			t.Errorf("missing %q in %q", s, lines[2])
		}
	}
}
