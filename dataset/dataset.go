// Package dataset reads datasets from disk and writes sorted results back.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/weiihann/resow/stats"
)

var (
	// ErrTruncated is returned when a dataset holds fewer values than expected.
	ErrTruncated = errors.New("truncated input")

	// ErrNotFinite is wrapped by a ParseError for NaN and infinite tokens.
	ErrNotFinite = errors.New("value is not finite")
)

const (
	defaultBufferSize = 4096

	// maxBufferSize caps the buffer size hint before it is allocated.
	maxBufferSize = 1 << 20

	// maxPrealloc caps the capacity reserved up front; count comes from the
	// command line and may be far larger than the file.
	maxPrealloc = 1 << 16
)

// ParseError reports a token that is not a floating-point number.
type ParseError struct {
	// Index is the 1-based position of the token in the file.
	Index int
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("token %d %q: %v", e.Index, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// bufferSizeHint maps the user's buffer size hint to an allocatable size.
func bufferSizeHint(n int) int {
	if n <= 0 {
		return defaultBufferSize
	}

	return min(n, maxBufferSize)
}

// Load reads count whitespace-delimited values from r in order. On a short
// or malformed input it returns the values read so far with the error.
// NaN and infinities are rejected as malformed.
func Load(r io.Reader, count, bufferSize int) ([]float64, error) {
	bufferSize = bufferSizeHint(bufferSize)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufferSize), max(bufferSize, bufio.MaxScanTokenSize))
	scanner.Split(bufio.ScanWords)

	values := make([]float64, 0, min(max(count, 0), maxPrealloc))

	for len(values) < count {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return values, fmt.Errorf("scan: %w", err)
			}

			return values, fmt.Errorf("%w: read %d of %d values",
				ErrTruncated, len(values), count)
		}

		v, err := strconv.ParseFloat(scanner.Text(), 64)
		if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
			err = ErrNotFinite
		}

		if err != nil {
			return values, &ParseError{
				Index: len(values) + 1,
				Token: scanner.Text(),
				Err:   err,
			}
		}

		values = append(values, v)
	}

	return values, nil
}

// LoadFile opens path and loads count values from it. If the file cannot
// be opened the returned dataset is empty.
func LoadFile(path string, count, bufferSize int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return []float64{}, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	values, err := Load(f, count, bufferSize)
	if err != nil {
		return values, fmt.Errorf("load %s: %w", path, err)
	}

	return values, nil
}

// Write emits the three labeled statistic lines followed by values in
// their current order, one per line.
func Write(w io.Writer, values []float64, s stats.Summary, bufferSize int) error {
	bufferSize = bufferSizeHint(bufferSize)

	bw := bufio.NewWriterSize(w, bufferSize)

	header := []struct {
		label string
		value float64
	}{
		{"Avg: ", s.Avg},
		{"Max: ", s.Max},
		{"Min: ", s.Min},
	}

	var line []byte

	for _, h := range header {
		line = append(line[:0], h.label...)
		line = strconv.AppendFloat(line, h.value, 'g', -1, 64)
		line = append(line, '\n')

		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("write %s line: %w", h.label[:3], err)
		}
	}

	for i, v := range values {
		line = strconv.AppendFloat(line[:0], v, 'g', -1, 64)
		line = append(line, '\n')

		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("write value %d: %w", i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	return nil
}

// WriteFile truncates path and writes the result to it.
func WriteFile(path string, values []float64, s stats.Summary, bufferSize int) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open result %s: %w", path, err)
	}

	if err := Write(f, values, s, bufferSize); err != nil {
		f.Close()

		return fmt.Errorf("write result %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close result %s: %w", path, err)
	}

	return nil
}
