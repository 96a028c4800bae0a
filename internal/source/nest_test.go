package source

import (
	"reflect"
	"strings"
	"testing"
)

func TestNest(t *testing.T) {
	flat := []Record{
		{"id": int64(1), "name": "root"},
		{"id": int64(2), "parent": "1", "name": "child"},
		{"id": int64(3), "parent": int64(2), "name": "grandchild"},
		{"id": int64(4), "parent": int64(1), "name": "second child"},
		{"id": int64(5), "parent": int64(99), "name": "orphan"},
	}

	roots, err := Nest(flat, "id", "parent", "children")
	if err != nil {
		t.Fatalf("Nest() error = %v", err)
	}
	if len(roots) != 2 || roots[0]["name"] != "root" || roots[1]["name"] != "orphan" {
		t.Fatalf("roots = %v", roots)
	}

	sub := SubRows("children")
	kids := sub(roots[0], 0)
	if names := []any{kids[0]["name"], kids[1]["name"]}; !reflect.DeepEqual(names, []any{"child", "second child"}) {
		t.Errorf("children = %v", names)
	}
	if got := sub(kids[0], 0); len(got) != 1 || got[0]["name"] != "grandchild" {
		t.Errorf("grandchildren = %v", got)
	}
	if got := sub(roots[1], 0); got != nil {
		t.Errorf("orphan children = %v, want nil", got)
	}
	if _, ok := flat[0]["children"]; ok {
		t.Error("Nest modified its input")
	}
}

func TestNest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		wantErr string
	}{
		{
			name:    "duplicate id",
			records: []Record{{"id": 1}, {"id": "1"}},
			wantErr: "duplicate",
		},
		{
			name:    "cycle",
			records: []Record{{"id": 1}, {"id": 2, "parent": 3}, {"id": 3, "parent": 2}},
			wantErr: "cycle",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Nest(tt.records, "id", "parent", "children")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Nest() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
