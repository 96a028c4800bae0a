package source

import (
	"fmt"
)

// Nest arranges flat records into a tree. Each record whose parentKey value
// matches another record's idKey value is moved under that record's
// childrenKey; the rest are returned as roots. Keys are compared by their
// text form, so an int64 id matches a "7" parent reference. Input order is
// kept among siblings and the input maps are not modified.
//
// Records that only reach each other through a parent cycle are an error.
func Nest(records []Record, idKey, parentKey, childrenKey string) ([]Record, error) {
	nodes := make([]Record, len(records))
	byID := make(map[string]int, len(records))
	for i, r := range records {
		n := make(Record, len(r)+1)
		for k, v := range r {
			n[k] = v
		}
		nodes[i] = n
		if id := keyText(r[idKey]); id != "" {
			if _, dup := byID[id]; dup {
				return nil, fmt.Errorf("nest: duplicate %s %q", idKey, id)
			}
			byID[id] = i
		}
	}

	children := make([][]int, len(nodes))
	var roots []int
	for i, n := range nodes {
		p, ok := byID[keyText(n[parentKey])]
		if !ok || p == i {
			roots = append(roots, i)
			continue
		}
		children[p] = append(children[p], i)
	}

	placed := 0
	var build func(i int) Record
	build = func(i int) Record {
		placed++
		n := nodes[i]
		if len(children[i]) > 0 {
			subs := make([]Record, len(children[i]))
			for j, c := range children[i] {
				subs[j] = build(c)
			}
			n[childrenKey] = subs
		}
		return n
	}

	out := make([]Record, len(roots))
	for i, r := range roots {
		out[i] = build(r)
	}
	if placed != len(nodes) {
		return nil, fmt.Errorf("nest: %d records form a %s cycle", len(nodes)-placed, parentKey)
	}
	return out, nil
}

// SubRows returns a table.Options.GetSubRows function reading the children
// Nest stored under childrenKey.
func SubRows(childrenKey string) func(Record, int) []Record {
	return func(r Record, _ int) []Record {
		subs, _ := r[childrenKey].([]Record)
		return subs
	}
}

func keyText(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
