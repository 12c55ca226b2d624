// Package stats computes the summary statistics reported for a dataset.
package stats

import (
	"encoding/json"
	"errors"
	"math"
	"slices"

	mstats "github.com/aclements/go-moremath/stats"
)

// ErrEmpty is returned by reductions over an empty dataset.
var ErrEmpty = errors.New("empty dataset")

// Summary holds the three statistics written to the result file.
type Summary struct {
	Avg float64 `json:"avg"`
	Max float64 `json:"max"`
	Min float64 `json:"min"`
}

// Undefined returns the Summary of a dataset with no values.
func Undefined() Summary {
	return Summary{Avg: math.NaN(), Max: math.NaN(), Min: math.NaN()}
}

// MarshalJSON encodes undefined statistics as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Avg *float64 `json:"avg"`
		Max *float64 `json:"max"`
		Min *float64 `json:"min"`
	}{finite(s.Avg), finite(s.Max), finite(s.Min)})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	return &v
}

// Avg returns the arithmetic mean of xs.
func Avg(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return math.NaN(), ErrEmpty
	}

	var sum float64
	for _, x := range xs {
		sum += x
	}

	return sum / float64(len(xs)), nil
}

// Max returns the greatest value in xs.
func Max(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return math.NaN(), ErrEmpty
	}

	best := xs[0]
	for _, x := range xs[1:] {
		if x > best {
			best = x
		}
	}

	return best, nil
}

// Min returns the smallest value in xs.
func Min(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return math.NaN(), ErrEmpty
	}

	best := xs[0]
	for _, x := range xs[1:] {
		if x < best {
			best = x
		}
	}

	return best, nil
}

// Description is a wider view of a dataset's distribution. It is logged
// and reported as JSON but never written to the result file.
type Description struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	P5     float64 `json:"p5"`
	P95    float64 `json:"p95"`
}

// Describe summarizes the distribution of xs without modifying it.
func Describe(xs []float64) Description {
	if len(xs) == 0 {
		return Description{}
	}

	samp := mstats.Sample{Xs: slices.Clone(xs)}
	// Speed up order statistics.
	samp.Sort()

	d := Description{
		N:      len(xs),
		Mean:   samp.Mean(),
		Median: samp.Quantile(0.5),
		P5:     samp.Quantile(0.05),
		P95:    samp.Quantile(0.95),
	}

	if len(xs) > 1 {
		d.StdDev = samp.StdDev()
	}

	return d
}
