package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pdclean/internal/categorical"
	"pdclean/internal/normerr"
	"pdclean/internal/table"
	"pdclean/internal/temporal"
)

func batch(t *testing.T) *table.Batch {
	t.Helper()
	b, err := table.NewBatch(
		table.TextColumn("Log No", "1045-7", "1046"),
		table.TextColumn("Race", "BLACK", "white hispanic"),
		table.TextColumn("Complaint Date", "01/02/03", "12/31/1999"),
		table.TextColumn("Unnamed: 3", "", ""),
	)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestRun(t *testing.T) {
	in := batch(t)
	var events []string
	p, err := New("complaints", Options{Workers: 4, OnStep: func(e StepEvent) {
		events = append(events, e.Kind+":"+e.Step)
	}},
		CleanColumnNames(),
		Rename(map[string]string{"log_no": "crid"}),
		Columns("races", categorical.CleanRaces, "race"),
		Columns("dates", temporal.CleanDates, "complaint_date"),
		OptionalColumns("genders", categorical.CleanGenders, "gender"),
	)
	if err != nil {
		t.Fatal(err)
	}
	out, err := p.Run(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"crid", "race", "complaint_date"}, out.Names()); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	race, _ := out.Column("race")
	if diff := cmp.Diff([]string{"Black", "Hispanic"}, race.Strings()); diff != "" {
		t.Errorf("race (-want +got):\n%s", diff)
	}
	dates, _ := out.Column("complaint_date")
	if diff := cmp.Diff([]string{"2003-01-02", "1999-12-31"}, dates.Strings()); diff != "" {
		t.Errorf("complaint_date (-want +got):\n%s", diff)
	}
	wantEvents := []string{"batch:clean_column_names", "batch:rename", "column:races", "column:dates", "column:genders"}
	if diff := cmp.Diff(wantEvents, events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}

	orig, _ := in.Column("Race")
	if orig.Values[0].String() != "BLACK" || orig.Values[1].String() != "white hispanic" {
		t.Errorf("input batch mutated: %v", orig.Strings())
	}
}

func TestRunErrorLocation(t *testing.T) {
	b, _ := table.NewBatch(
		table.TextColumn("race", "martian"),
		table.TextColumn("complaint_date", "not a date"),
	)
	p, err := New("x", Options{Workers: 2},
		Columns("races", categorical.CleanRaces, "race"),
		Columns("dates", temporal.CleanDates, "complaint_date"),
	)
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Run(context.Background(), b)
	var se *StepError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StepError", err)
	}
	if se.Step != "races" || se.Column != "race" {
		t.Errorf("StepError = %+v", se)
	}
	if !errors.Is(err, normerr.ErrWhitelist) {
		t.Errorf("err = %v, want whitelist violation", err)
	}
	if !strings.HasPrefix(err.Error(), `step "races" column "race": `) {
		t.Errorf("message = %q", err.Error())
	}
}

func TestRunDeterministicFirstError(t *testing.T) {
	b, _ := table.NewBatch(
		table.TextColumn("a", "x"),
		table.TextColumn("b", "x"),
		table.TextColumn("c", "x"),
	)
	fail := func(c table.Column) (table.Column, error) {
		return table.Column{}, errors.New("boom " + c.Name)
	}
	p, _ := New("x", Options{Workers: 3}, Columns("fail", fail, "a", "b", "c"))
	for i := 0; i < 20; i++ {
		_, err := p.Run(context.Background(), b)
		var se *StepError
		if !errors.As(err, &se) || se.Column != "a" {
			t.Fatalf("err = %v, want failure on column a", err)
		}
	}
}

func TestRunMissingColumn(t *testing.T) {
	b, _ := table.NewBatch(table.TextColumn("race", "black"))
	p, _ := New("x", Options{}, Columns("genders", categorical.CleanGenders, "gender"))
	_, err := p.Run(context.Background(), b)
	if !errors.Is(err, table.ErrMissingColumn) {
		t.Errorf("err = %v, want ErrMissingColumn", err)
	}
}

func TestRunCanceled(t *testing.T) {
	var calls atomic.Int32
	fn := func(c table.Column) (table.Column, error) {
		calls.Add(1)
		return c, nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p, _ := New("x", Options{}, Columns("noop", fn, "race"))
	b, _ := table.NewBatch(table.TextColumn("race", "black"))
	if _, err := p.Run(ctx, b); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls.Load() != 0 {
		t.Errorf("column func ran %d times after cancel", calls.Load())
	}
}

func TestNewValidates(t *testing.T) {
	tests := map[string]Step{
		"no name":    {Column: categorical.CleanRaces, Columns: []string{"race"}},
		"no func":    {Name: "x"},
		"no columns": {Name: "x", Column: categorical.CleanRaces},
		"both funcs": {Name: "x", Column: categorical.CleanRaces, Batch: (*table.Batch).DropEmpty, Columns: []string{"race"}},
	}
	for name, s := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := New("x", Options{}, s); !errors.Is(err, ErrInvalidStep) {
				t.Errorf("err = %v, want ErrInvalidStep", err)
			}
		})
	}
}
