package stats

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestAvg(t *testing.T) {
	tests := []struct {
		name  string
		input []float64
		want  float64
	}{
		{name: "single", input: []float64{42.5}, want: 42.5},
		{name: "one two three", input: []float64{1, 2, 3}, want: 2},
		{name: "negative", input: []float64{-4, 4}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Avg(tt.input)
			if err != nil {
				t.Fatalf("Avg failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Avg(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMaxMin(t *testing.T) {
	input := []float64{3, 1, 4, 1, 5, 9, 2, 6}

	maxV, err := Max(input)
	if err != nil {
		t.Fatalf("Max failed: %v", err)
	}
	if maxV != 9 {
		t.Errorf("Max = %v, want 9", maxV)
	}

	minV, err := Min(input)
	if err != nil {
		t.Fatalf("Min failed: %v", err)
	}
	if minV != 1 {
		t.Errorf("Min = %v, want 1", minV)
	}
}

func TestEmpty(t *testing.T) {
	reductions := map[string]func([]float64) (float64, error){
		"avg": Avg,
		"max": Max,
		"min": Min,
	}

	for name, fn := range reductions {
		t.Run(name, func(t *testing.T) {
			got, err := fn(nil)
			if !errors.Is(err, ErrEmpty) {
				t.Errorf("err = %v, want ErrEmpty", err)
			}
			if !math.IsNaN(got) {
				t.Errorf("value = %v, want NaN", got)
			}
		})
	}
}

func TestUndefined(t *testing.T) {
	s := Undefined()
	if !math.IsNaN(s.Avg) || !math.IsNaN(s.Max) || !math.IsNaN(s.Min) {
		t.Errorf("Undefined() = %+v, want all NaN", s)
	}
}

func TestDescribe(t *testing.T) {
	input := []float64{5, 1, 4, 2, 3}
	d := Describe(input)

	if d.N != 5 {
		t.Errorf("N = %d, want 5", d.N)
	}
	if d.Mean != 3 {
		t.Errorf("Mean = %v, want 3", d.Mean)
	}
	if math.Abs(d.Median-3) > 1e-9 {
		t.Errorf("Median = %v, want 3", d.Median)
	}
	if d.StdDev <= 0 {
		t.Errorf("StdDev = %v, want > 0", d.StdDev)
	}

	if input[0] != 5 || input[4] != 3 {
		t.Errorf("Describe modified its input: %v", input)
	}
}

func TestDescribeEmpty(t *testing.T) {
	if d := Describe(nil); d != (Description{}) {
		t.Errorf("Describe(nil) = %+v, want zero value", d)
	}
}

func TestSummaryJSON(t *testing.T) {
	tests := []struct {
		name  string
		input Summary
		want  string
	}{
		{name: "defined", input: Summary{Avg: 2, Max: 3, Min: 1}, want: `{"avg":2,"max":3,"min":1}`},
		{name: "undefined", input: Undefined(), want: `{"avg":null,"max":null,"min":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.input)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
