package numeric

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"pdclean/internal/table"
)

func TestFloatToIntStr(t *testing.T) {
	col := table.NewColumn("birth_year",
		table.NumberValue(1973.0),
		table.NullValue(),
		table.TextValue("abc"),
		table.NumberValue(0),
		table.NumberValue(12.7),
		table.BoolValue(true),
	)

	got := FloatToIntStr(col, false)
	if diff := cmp.Diff([]string{"1973", "", "abc", "", "12", "True"}, got.Strings()); diff != "" {
		t.Errorf("FloatToIntStr (-want +got):\n%s", diff)
	}
	if got.Values[0].Kind() != table.Text {
		t.Errorf("number should become text, got %v", got.Values[0].Kind())
	}
	if got.Values[5].Kind() != table.Bool {
		t.Errorf("bool should be untouched without stringify, got %v", got.Values[5].Kind())
	}
	if !got.Values[3].IsNull() {
		t.Error("zero should become the no-value sentinel")
	}

	str := FloatToIntStr(col, true)
	if str.Values[5].Kind() != table.Text {
		t.Errorf("stringify: bool kind = %v, want text", str.Values[5].Kind())
	}
}

func TestEnsureInt(t *testing.T) {
	col := table.NewColumn("number_of_weapons_discharged",
		table.NumberValue(2.0),
		table.TextValue("3.0"),
		table.NullValue(),
		table.TextValue("n/a"),
		table.NumberValue(4.9),
	)
	got := EnsureInt(col)
	if diff := cmp.Diff([]string{"2", "3", "", "n/a", "4"}, got.Strings()); diff != "" {
		t.Errorf("EnsureInt (-want +got):\n%s", diff)
	}
	for _, i := range []int{0, 1, 4} {
		if !got.Values[i].IsIntegral() {
			t.Errorf("value %d not integral: %v", i, got.Values[i])
		}
	}
	if !got.Values[2].IsNull() {
		t.Error("null should stay null")
	}
}

func TestFloatToIntStrOutOfRange(t *testing.T) {
	col := table.NewColumn("star_no",
		table.NumberValue(1e20),
		table.NumberValue(-1e19),
		table.Infer("12345678901234567"),
	)
	got := FloatToIntStr(col, false)
	want := []string{"100000000000000000000", "-10000000000000000000", "12345678901234567"}
	if diff := cmp.Diff(want, got.Strings()); diff != "" {
		t.Errorf("FloatToIntStr (-want +got):\n%s", diff)
	}
}

func TestEnsureIntKeepsNonNumbers(t *testing.T) {
	col := table.NewColumn("total_number_of_shots",
		table.TextValue("nan"),
		table.TextValue("inf"),
		table.TextValue("12345678901234567"),
		table.Infer("98765432109876543"),
	)
	got := EnsureInt(col)
	want := []string{"nan", "inf", "12345678901234567", "98765432109876543"}
	if diff := cmp.Diff(want, got.Strings()); diff != "" {
		t.Errorf("EnsureInt (-want +got):\n%s", diff)
	}
	for _, i := range []int{0, 1} {
		if got.Values[i].Kind() != table.Text {
			t.Errorf("value %d kind = %v, want text", i, got.Values[i].Kind())
		}
	}
	if n, ok := got.Values[2].Int(); !ok || n != 12345678901234567 {
		t.Errorf("Int() = %d, %v", n, ok)
	}
}
