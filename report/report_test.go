package report

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleBlock() Block {
	return Block{
		DatasetSize: 5,
		BufferSize:  8,
		Algorithm:   "selection sort",
		Load:        12 * time.Microsecond,
		Avg:         1500 * time.Nanosecond,
		Max:         0,
		Min:         999 * time.Nanosecond,
		Sort:        3 * time.Microsecond,
		Write:       40 * time.Microsecond,
	}
}

func TestWriteBlock(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBlock(&buf, sampleBlock()); err != nil {
		t.Fatalf("WriteBlock failed: %v", err)
	}

	want := "Dataset Size: 5\n" +
		"Buffer Size:  8\n" +
		"Using selection sort ...\n" +
		"Load Time:    12 μs\n" +
		"Avg Time:     1 μs\n" +
		"Max Time:     0 μs\n" +
		"Min Time:     0 μs\n" +
		"Sort Time:    3 μs\n" +
		"Write Time:   40 μs\n" +
		"==============\n"

	if buf.String() != want {
		t.Errorf("block mismatch\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFileLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultTimingLog)
	log := FileLog{Path: path}

	first := sampleBlock()
	second := sampleBlock()
	second.Algorithm = "insertion sort"

	for _, b := range []Block{first, second} {
		if err := log.Append(context.Background(), b); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}

	output := string(data)

	if n := strings.Count(output, "=============="); n != 2 {
		t.Errorf("got %d blocks, want 2", n)
	}
	if strings.Index(output, "selection sort") > strings.Index(output, "insertion sort") {
		t.Error("blocks are not in append order")
	}
}

func TestFileLogCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), DefaultTimingLog)
	if err := (FileLog{Path: path}).Append(ctx, sampleBlock()); err == nil {
		t.Error("expected error for canceled context")
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("log should not be created for a canceled append")
	}
}

func TestFileLogOpenError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", DefaultTimingLog)
	if err := (FileLog{Path: path}).Append(context.Background(), sampleBlock()); err == nil {
		t.Error("expected error for unopenable path")
	}
}

func TestGenerate(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(&buf, sampleBlock()); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	output := buf.String()

	for _, want := range []string{"selection sort", "| Load |", "| Write | 40μs |", "| Total |", "8 B buffer"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestGenerateEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(&buf, Block{}); err == nil {
		t.Error("expected error for block without algorithm")
	}
}

func TestGenerateJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateJSON(&buf, sampleBlock()); err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}

	var parsed Block
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if parsed != sampleBlock() {
		t.Errorf("parsed = %+v, want %+v", parsed, sampleBlock())
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input uint64
		want  string
	}{
		{0, "-"},
		{8, "8 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
	}

	for _, tt := range tests {
		got := formatBytes(tt.input)
		if got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{0, "0μs"},
		{999 * time.Microsecond, "999μs"},
		{1500 * time.Microsecond, "1.50ms"},
		{2 * time.Second, "2.00s"},
	}

	for _, tt := range tests {
		got := formatDuration(tt.input)
		if got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
