package normerr

import "sort"

// Offenders accumulates distinct offending values across a whole column.
type Offenders map[string]struct{}

func (o Offenders) Add(v string) { o[v] = struct{}{} }

func (o Offenders) Empty() bool { return len(o) == 0 }

// Sorted returns the distinct values in lexical order.
func (o Offenders) Sorted() []string {
	out := make([]string, 0, len(o))
	for v := range o {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
