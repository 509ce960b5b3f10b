package recipes

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Overrides replaces the closed vocabularies of title/upper steps, keyed by
// recipe then column:
//
//	trr:
//	  title:
//	    indoor_or_outdoor: [Indoor, Outdoor, Unknown]
//	  upper:
//	    weather_condition: [CLEAR, RAIN]
type Overrides map[string]Override

type Override struct {
	Title map[string][]string `yaml:"title"`
	Upper map[string][]string `yaml:"upper"`
}

func (o Overrides) choices(recipe, kind, col string, def []string) []string {
	ov, ok := o[recipe]
	if !ok {
		return def
	}
	m := ov.Title
	if kind == "upper" {
		m = ov.Upper
	}
	if c, ok := m[col]; ok {
		return c
	}
	return def
}

// LoadOverrides reads a YAML override file. Unknown keys and unknown recipe
// names are errors. An empty path yields no overrides.
func LoadOverrides(path string) (Overrides, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var o Overrides
	if err := dec.Decode(&o); err != nil {
		return nil, fmt.Errorf("overrides: %s: %w", path, err)
	}
	for name, ov := range o {
		if _, err := Lookup(name); err != nil {
			return nil, fmt.Errorf("overrides: %s: %w", path, err)
		}
		for col, c := range ov.Title {
			if len(c) == 0 {
				return nil, fmt.Errorf("overrides: %s: %s.title.%s: empty choice list", path, name, col)
			}
		}
		for col, c := range ov.Upper {
			if len(c) == 0 {
				return nil, fmt.Errorf("overrides: %s: %s.upper.%s: empty choice list", path, name, col)
			}
		}
	}
	return o, nil
}
