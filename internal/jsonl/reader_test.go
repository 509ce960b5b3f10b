package jsonl

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pdclean/internal/table"
)

func TestReadBatch(t *testing.T) {
	in := `{"crid":"1045-7","beat":111,"subject":{"race":"BLACK","armed":true}}

{"crid":"1046","beat":null,"tags":["a","b"]}
{"crid":"1047","subject":{"race":"white"}}
`
	b, err := ReadBatch(strings.NewReader(in), Options{Workers: 3})
	if err != nil {
		t.Fatal(err)
	}
	wantNames := []string{"beat", "crid", "subject.armed", "subject.race", "tags"}
	if diff := cmp.Diff(wantNames, b.Names()); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	if b.Rows() != 3 {
		t.Fatalf("Rows() = %d, want 3", b.Rows())
	}
	crid, _ := b.Column("crid")
	if diff := cmp.Diff([]string{"1045-7", "1046", "1047"}, crid.Strings()); diff != "" {
		t.Errorf("record order (-want +got):\n%s", diff)
	}
	beat, _ := b.Column("beat")
	if beat.Values[0].Kind() != table.Number || !beat.Values[1].IsNull() || !beat.Values[2].IsNull() {
		t.Errorf("beat = %v", beat.Values)
	}
	armed, _ := b.Column("subject.armed")
	if armed.Values[0].Kind() != table.Bool || !armed.Values[0].Bool() {
		t.Errorf("subject.armed = %v", armed.Values[0])
	}
	tags, _ := b.Column("tags")
	if got := tags.Values[1].String(); got != `["a","b"]` {
		t.Errorf("tags = %q", got)
	}
}

func TestReadBatchNumbersKeepText(t *testing.T) {
	in := `{"id":12345678901234567,"weight":1.50,"shots":[1,2.0]}` + "\n"
	b, err := ReadBatch(strings.NewReader(in), Options{Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	for name, want := range map[string]string{"id": "12345678901234567", "weight": "1.50"} {
		c, _ := b.Column(name)
		if c.Values[0].Kind() != table.Number {
			t.Errorf("%s kind = %v, want number", name, c.Values[0].Kind())
		}
		if got := c.Values[0].String(); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestReadBatchMalformed(t *testing.T) {
	tests := map[string]string{
		"bad json":   "{\"a\":1}\n{oops\n",
		"not object": "[1,2]\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadBatch(strings.NewReader(in), Options{}); err == nil {
				t.Error("want error")
			}
		})
	}
}
