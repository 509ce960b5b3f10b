package rules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a rule file (.yaml, .yml or .json).
//
//	cascades:
//	  race:
//	    - {name: black, pattern: "^black.*", replace: Black}
//	whitelists:
//	  race: [Black, White, ""]
type File struct {
	Cascades   map[string][]Rule   `json:"cascades" yaml:"cascades"`
	Whitelists map[string][]string `json:"whitelists" yaml:"whitelists"`
}

// LoadFile reads a rule file and layers it over Defaults: a cascade or
// whitelist named in the file replaces the built-in one of the same name.
// An empty path returns Defaults. Any problem in the file is an error.
func LoadFile(path string) (*Set, error) {
	set := Defaults()
	if path == "" {
		return set, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("rules: %s: %w", path, err)
		}
	case ".json":
		if err := sonic.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("rules: %s: %w", path, err)
		}
	default:
		return nil, errors.New("rules: unsupported file format (use .json or .yaml/.yml)")
	}
	if len(f.Cascades) == 0 && len(f.Whitelists) == 0 {
		return nil, fmt.Errorf("rules: %s: no cascades or whitelists", path)
	}
	for name, rs := range f.Cascades {
		c, err := Compile(name, rs)
		if err != nil {
			return nil, fmt.Errorf("rules: %s: %w", path, err)
		}
		set.Cascades[name] = c
	}
	for name, vals := range f.Whitelists {
		set.Whitelists[name] = NewWhitelist(vals...)
	}
	return set, nil
}
