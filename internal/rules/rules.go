// Package rules is the registry of categorical rewrite cascades and the closed
// whitelists their output is checked against.
package rules

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Rule is one rewrite step. Either Pattern (a Go regexp, replaced with Replace
// using $1-style expansion) or Op (upper, lower, trim) must be set.
type Rule struct {
	Name    string `json:"name" yaml:"name"`
	Pattern string `json:"pattern" yaml:"pattern"`
	Replace string `json:"replace" yaml:"replace"`
	Op      string `json:"op" yaml:"op"`
}

type compiled struct {
	name    string
	re      *regexp.Regexp
	replace string
	op      func(string) string
}

var ops = map[string]func(string) string{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"trim":  strings.TrimSpace,
}

// Cascade applies its rules in order; each rule sees the previous rule's output.
type Cascade struct {
	name  string
	rules []compiled
}

func Compile(name string, rs []Rule) (*Cascade, error) {
	if len(rs) == 0 {
		return nil, fmt.Errorf("cascade %q: no rules", name)
	}
	c := &Cascade{name: name, rules: make([]compiled, 0, len(rs))}
	for i, r := range rs {
		label := r.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		switch {
		case r.Op != "" && r.Pattern != "":
			return nil, fmt.Errorf("cascade %q rule %s: pattern and op are exclusive", name, label)
		case r.Op != "":
			fn, ok := ops[r.Op]
			if !ok {
				return nil, fmt.Errorf("cascade %q rule %s: unknown op %q", name, label, r.Op)
			}
			c.rules = append(c.rules, compiled{name: label, op: fn})
		case r.Pattern != "":
			re, err := regexp.Compile(r.Pattern)
			if err != nil {
				return nil, fmt.Errorf("cascade %q rule %s: %w", name, label, err)
			}
			c.rules = append(c.rules, compiled{name: label, re: re, replace: r.Replace})
		default:
			return nil, fmt.Errorf("cascade %q rule %s: empty rule", name, label)
		}
	}
	return c, nil
}

func MustCompile(name string, rs []Rule) *Cascade {
	c, err := Compile(name, rs)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Cascade) Name() string { return c.name }

func (c *Cascade) Len() int { return len(c.rules) }

// Apply runs every rule over s in order.
func (c *Cascade) Apply(s string) string {
	for _, r := range c.rules {
		if r.op != nil {
			s = r.op(s)
			continue
		}
		s = r.re.ReplaceAllString(s, r.replace)
	}
	return s
}

// Whitelist is a closed vocabulary of canonical values. "" is a member only if listed.
type Whitelist map[string]struct{}

func NewWhitelist(vals ...string) Whitelist {
	w := make(Whitelist, len(vals))
	for _, v := range vals {
		w[v] = struct{}{}
	}
	return w
}

func (w Whitelist) Contains(v string) bool {
	_, ok := w[v]
	return ok
}

func (w Whitelist) Values() []string {
	out := make([]string, 0, len(w))
	for v := range w {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

var ErrUnknownCascade = errors.New("unknown cascade")

// Set is a named collection of cascades and whitelists.
type Set struct {
	Cascades   map[string]*Cascade
	Whitelists map[string]Whitelist
}

func (s *Set) Cascade(name string) (*Cascade, error) {
	c, ok := s.Cascades[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCascade, name)
	}
	return c, nil
}

// Whitelist returns the named whitelist, or nil when none is registered.
func (s *Set) Whitelist(name string) Whitelist {
	return s.Whitelists[name]
}
