package iox

import (
	"io"
	"path/filepath"
	"testing"
)

func TestExt(t *testing.T) {
	tests := []struct{ in, want string }{
		{"trr.csv", ".csv"},
		{"trr.JSONL.gz", ".jsonl"},
		{"dir.v2/file.csv", ".csv"},
		{"complaints.gz", ""},
		{"investigators", ""},
	}
	for _, tt := range tests {
		if got := Ext(tt.in); got != tt.want {
			t.Errorf("Ext(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGzipRoundTrip(t *testing.T) {
	for _, name := range []string{"plain.csv", "packed.csv.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			w, err := CreateAuto(path)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := io.WriteString(w, "crid,beat\n1,0111\n"); err != nil {
				t.Fatal(err)
			}
			if err := w.Close(); err != nil {
				t.Fatal(err)
			}
			r, err := OpenAuto(path)
			if err != nil {
				t.Fatal(err)
			}
			defer r.Close()
			b, err := io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
			if string(b) != "crid,beat\n1,0111\n" {
				t.Errorf("read back %q", b)
			}
		})
	}
}
