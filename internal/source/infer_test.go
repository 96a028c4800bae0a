package source

import (
	"testing"
	"time"
)

func TestInferValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", nil},
		{"   ", nil},
		{`=""`, nil},
		{"hello", "hello"},
		{"TRUE", true},
		{"no", false},
		{"42", int64(42)},
		{"-7", int64(-7)},
		{"3.25", 3.25},
		{"1e3", 1000.0},
		{"$1,234", int64(1234)},
		{"€9.99", 9.99},
		{"(12.50)", -12.5},
		{`="00123"`, "00123"},
		{"0.5", 0.5},
		{"0", int64(0)},
		{"007", "007"},
		{"2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"3/4/2023", time.Date(2023, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"Jan 2, 2021", time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:30:00Z", time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)},
		{"1.2.3", "1.2.3"},
	}
	for _, tt := range tests {
		got := InferValue(tt.in)
		if gt, ok := got.(time.Time); ok {
			if wt, ok := tt.want.(time.Time); !ok || !gt.Equal(wt) {
				t.Errorf("InferValue(%q) = %v, want %v", tt.in, got, tt.want)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("InferValue(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestInferValue_TwoDigitYear(t *testing.T) {
	got, ok := InferValue("1/2/05").(time.Time)
	if !ok || got.Year() != 2005 {
		t.Errorf("InferValue(1/2/05) = %v, want a 2005 date", got)
	}

	old := TwoDigitYearPivot
	defer func() { TwoDigitYearPivot = old }()
	TwoDigitYearPivot = -100
	got, ok = InferValue("1/2/05").(time.Time)
	if !ok || got.Year() != 1905 {
		t.Errorf("InferValue(1/2/05) with a past pivot = %v, want 1905", got)
	}
}
