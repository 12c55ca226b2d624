// Package report formats benchmark timings for the shared timing log and
// for the console.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// DefaultTimingLog is the file every run appends its timing block to.
const DefaultTimingLog = "time_result.txt"

// Block is the timing record of one benchmark run.
type Block struct {
	DatasetSize int           `json:"dataset_size"`
	BufferSize  int           `json:"buffer_size"`
	Algorithm   string        `json:"algorithm"`
	Load        time.Duration `json:"load_ns"`
	Avg         time.Duration `json:"avg_ns"`
	Max         time.Duration `json:"max_ns"`
	Min         time.Duration `json:"min_ns"`
	Sort        time.Duration `json:"sort_ns"`
	Write       time.Duration `json:"write_ns"`
}

type phase struct {
	name    string
	elapsed time.Duration
}

func (b Block) phases() []phase {
	return []phase{
		{"Load", b.Load},
		{"Avg", b.Avg},
		{"Max", b.Max},
		{"Min", b.Min},
		{"Sort", b.Sort},
		{"Write", b.Write},
	}
}

// Total returns the summed elapsed time of all phases.
func (b Block) Total() time.Duration {
	var total time.Duration
	for _, p := range b.phases() {
		total += p.elapsed
	}

	return total
}

// WriteBlock writes the human-readable timing block appended to the
// timing log. Times are whole microseconds.
func WriteBlock(w io.Writer, b Block) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Dataset Size: %d\n", b.DatasetSize)
	fmt.Fprintf(&buf, "Buffer Size:  %d\n", b.BufferSize)
	fmt.Fprintf(&buf, "Using %s ...\n", b.Algorithm)

	for _, p := range b.phases() {
		label := p.name + " Time:"
		fmt.Fprintf(&buf, "%-14s%d μs\n", label, p.elapsed.Microseconds())
	}

	fmt.Fprintln(&buf, "==============")

	_, err := w.Write(buf.Bytes())

	return err
}

// FileLog appends timing blocks to a file that is never truncated.
// Concurrent processes appending to the same file are not coordinated.
type FileLog struct {
	Path string
}

// Append opens the log in append mode, writes b and closes it again.
func (l FileLog) Append(ctx context.Context, b Block) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open timing log %s: %w", l.Path, err)
	}

	if err := WriteBlock(f, b); err != nil {
		f.Close()

		return fmt.Errorf("append timing log %s: %w", l.Path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close timing log %s: %w", l.Path, err)
	}

	return nil
}

// Generate writes a markdown phase table for b.
func Generate(w io.Writer, b Block) error {
	if b.Algorithm == "" {
		return fmt.Errorf("no algorithm recorded")
	}

	total := b.Total()

	// Header.
	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Algorithm: **%s**, %d values, %s buffer\n",
		b.Algorithm, b.DatasetSize, formatBytes(uint64(max(b.BufferSize, 0))))
	fmt.Fprintln(w)

	// Table header.
	fmt.Fprintln(w, "| Phase | Elapsed | Share |")
	fmt.Fprintln(w, "|-------|---------|-------|")

	for _, p := range b.phases() {
		share := 0.0
		if total > 0 {
			share = 100 * float64(p.elapsed) / float64(total)
		}

		fmt.Fprintf(w, "| %s | %s | %.1f%% |\n",
			p.name, formatDuration(p.elapsed), share)
	}

	fmt.Fprintf(w, "| Total | %s | 100.0%% |\n", formatDuration(total))

	return nil
}

// GenerateJSON writes v as indented JSON to w.
func GenerateJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dμs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

func formatBytes(b uint64) string {
	if b == 0 {
		return "-"
	}

	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(b)
	unit := 0

	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}

	formatted := fmt.Sprintf("%.1f", size)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")

	return formatted + " " + units[unit]
}
