// Package workload generates the synthetic datasets sorted by the
// benchmark. A dataset is a plain text file holding one uniformly
// distributed floating-point value per line.
package workload

import (
	"bufio"
	"fmt"
	"io"
	mrand "math/rand"
	"os"
	"strconv"
	"time"
)

// DefaultBound is the upper bound of every value written by CreateFile
// when the Config leaves Bound unset.
const DefaultBound = 100

// Summary contains statistics about the generated dataset.
type Summary struct {
	Values int
	Bytes  int64
	// Bound is the upper bound the values were drawn with.
	Bound float64
}

// Config controls dataset generation parameters.
type Config struct {
	Size  int
	Bound float64
	// Seed 0 seeds from the current time.
	Seed int64
}

// Generator produces random values from a Config.
type Generator struct {
	cfg Config
	rng *mrand.Rand
}

// NewGenerator creates a Generator from the given Config.
func NewGenerator(cfg Config) *Generator {
	if cfg.Bound <= 0 {
		cfg.Bound = DefaultBound
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg: cfg,
		rng: mrand.New(mrand.NewSource(seed)),
	}
}

// Bound returns the inclusive upper bound of generated values.
func (g *Generator) Bound() float64 {
	return g.cfg.Bound
}

// Value returns one pseudo-random value in [0, Bound].
func (g *Generator) Value() float64 {
	return g.rng.Float64() * g.cfg.Bound
}

// Generate writes Size values to w, one per line, and returns a Summary.
func (g *Generator) Generate(w io.Writer) (Summary, error) {
	bw := bufio.NewWriter(w)

	var line []byte

	summary := Summary{Bound: g.Bound()}

	for i := 0; i < g.cfg.Size; i++ {
		line = strconv.AppendFloat(line[:0], g.Value(), 'g', -1, 64)
		line = append(line, '\n')

		n, err := bw.Write(line)
		summary.Bytes += int64(n)
		if err != nil {
			return summary, fmt.Errorf("write value %d: %w", i, err)
		}

		summary.Values++
	}

	if err := bw.Flush(); err != nil {
		return summary, fmt.Errorf("flush: %w", err)
	}

	return summary, nil
}

// CreateFile truncates path and fills it with a freshly generated dataset.
func CreateFile(path string, cfg Config) (Summary, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return Summary{}, fmt.Errorf("open dataset %s: %w", path, err)
	}

	summary, err := NewGenerator(cfg).Generate(f)
	if err != nil {
		f.Close()

		return summary, fmt.Errorf("generate %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return summary, fmt.Errorf("close dataset %s: %w", path, err)
	}

	return summary, nil
}
