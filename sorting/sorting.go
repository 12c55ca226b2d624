// Package sorting provides the interchangeable sort strategies timed by the
// benchmark. Every strategy orders a dataset ascending, in place; they
// differ only in cost.
package sorting

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownMode is returned by Lookup for an unrecognized mode.
var ErrUnknownMode = errors.New("unknown algorithm mode")

// Mode selects a sort strategy on the command line.
type Mode string

const (
	ModeLibrary   Mode = "qs"
	ModeSelection Mode = "ss"
	ModeInsertion Mode = "is"
)

// Strategy sorts a dataset in place.
type Strategy interface {
	// Name is the display name written to the timing log.
	Name() string
	Sort(values []float64)
}

// Modes returns the supported modes in display order.
func Modes() []Mode {
	return []Mode{ModeLibrary, ModeSelection, ModeInsertion}
}

// Lookup returns the Strategy registered for mode.
func Lookup(mode string) (Strategy, error) {
	switch Mode(mode) {
	case ModeLibrary:
		return Library{}, nil
	case ModeSelection:
		return Selection{}, nil
	case ModeInsertion:
		return Insertion{}, nil
	default:
		return nil, fmt.Errorf("%w %q (want one of %v)", ErrUnknownMode, mode, Modes())
	}
}

// Library delegates to slices.Sort. It is the performance baseline.
type Library struct{}

func (Library) Name() string { return "library sort" }

func (Library) Sort(values []float64) { slices.Sort(values) }

// Selection is selection sort: O(n^2) comparisons, O(n) swaps.
type Selection struct{}

func (Selection) Name() string { return "selection sort" }

func (Selection) Sort(values []float64) {
	for i := range values {
		minIdx := i
		for j := i + 1; j < len(values); j++ {
			if values[j] < values[minIdx] {
				minIdx = j
			}
		}

		values[i], values[minIdx] = values[minIdx], values[i]
	}
}

// Insertion is insertion sort: O(n^2) worst case, O(n) on sorted input.
type Insertion struct{}

func (Insertion) Name() string { return "insertion sort" }

func (Insertion) Sort(values []float64) {
	for i := 1; i < len(values); i++ {
		node := values[i]

		// j is signed so the scan can stop at -1.
		j := i - 1
		for j >= 0 && node < values[j] {
			values[j+1] = values[j]
			j--
		}

		values[j+1] = node
	}
}
