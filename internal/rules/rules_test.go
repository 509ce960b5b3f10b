package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRaceCascade(t *testing.T) {
	tests := map[string]string{
		"black":                      "Black",
		"black hispanic":             "Black",
		"blk":                        "Black",
		"white hispanic":             "Hispanic",
		"hispanic/latino":            "Hispanic",
		"spanish":                    "Hispanic",
		"panish":                     "Hispanic",
		"white":                      "White",
		"whi":                        "White",
		"wwh":                        "White",
		"w":                          "",
		"api":                        "Asian/Pacific Islander",
		"asian/pacific islander":     "Asian/Pacific Islander",
		"amer indian/alaskan native": "Native American/Alaskan Native",
		"unknown":                    "",
		"":                           "",
		"martian":                    "martian",
	}
	for in, want := range tests {
		if got := Race.Apply(in); got != want {
			t.Errorf("Race.Apply(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenderCascade(t *testing.T) {
	tests := map[string]string{
		"male":   "M",
		"female": "F",
		"m":      "M",
		"f":      "F",
		"x":      "X",
		"":       "",
		"other":  "OTHER",
	}
	for in, want := range tests {
		if got := Gender.Apply(in); got != want {
			t.Errorf("Gender.Apply(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCascadesIdempotentOnWhitelist(t *testing.T) {
	for _, tc := range []struct {
		c *Cascade
		w Whitelist
	}{{Race, RaceWhitelist}, {Gender, GenderWhitelist}} {
		for v := range tc.w {
			once := tc.c.Apply(strings.ToLower(v))
			if once != v {
				t.Errorf("%s: canonical %q rewritten to %q", tc.c.Name(), v, once)
			}
		}
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
	}{
		{"empty", nil},
		{"bad regex", []Rule{{Pattern: "("}}},
		{"unknown op", []Rule{{Op: "reverse"}}},
		{"both", []Rule{{Pattern: "a", Op: "upper"}}},
		{"blank", []Rule{{Name: "nothing"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile("x", tt.rules); err == nil {
				t.Error("Compile succeeded, want error")
			}
		})
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "rules.yaml", `
cascades:
  gender:
    - {name: male, pattern: "^m(ale)?$", replace: M}
    - {name: female, pattern: "^f(emale)?$", replace: F}
    - {name: nonbinary, pattern: "^non-?binary$", replace: X}
    - {op: upper}
whitelists:
  lighting_condition: [DAYLIGHT, DUSK, NIGHT]
`)
	set, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	g, err := set.Cascade(GenderCascade)
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Apply("nonbinary"); got != "X" {
		t.Errorf("override gender cascade: got %q, want X", got)
	}
	if set.Cascades[RaceCascade] != Race {
		t.Error("race cascade should still be the default")
	}
	if !set.Whitelist("lighting_condition").Contains("DUSK") {
		t.Error("whitelist from file missing")
	}
}

func TestLoadFileJSON(t *testing.T) {
	path := writeFile(t, "rules.json", `{"whitelists": {"party_fired_first": ["MEMBER", "OTHER", "OFFENDER"]}}`)
	set, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(set.Whitelist("party_fired_first")); got != 3 {
		t.Errorf("whitelist size = %d, want 3", got)
	}
}

func TestLoadFileErrors(t *testing.T) {
	for name, content := range map[string]string{
		"bad.yaml":   "cascades:\n  race:\n    - {pattern: \"(\"}\n",
		"empty.yaml": "{}\n",
		"rules.txt":  "cascades: {}",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFile(writeFile(t, name, content)); err == nil {
				t.Error("LoadFile succeeded, want error")
			}
		})
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}
