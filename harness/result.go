// Package harness runs one timed benchmark pass over a dataset: generate,
// load, summarize, sort and write, each phase measured separately.
package harness

import (
	"fmt"
	"path/filepath"

	"github.com/weiihann/resow/report"
	"github.com/weiihann/resow/sorting"
	"github.com/weiihann/resow/stats"
)

// Config is the fixed input of one run.
type Config struct {
	DatasetSize int    `json:"dataset_size"`
	BufferSize  int    `json:"buffer_size"`
	Stem        string `json:"stem"`
	Mode        string `json:"mode"`
	// Dir is where the dataset and result files live. Empty means the
	// working directory.
	Dir string `json:"dir,omitempty"`
	// Seed for dataset generation; 0 seeds from the current time.
	Seed int64 `json:"seed,omitempty"`
}

// Validate reports the first invalid field of cfg.
func (c Config) Validate() error {
	if c.DatasetSize <= 0 {
		return fmt.Errorf("dataset size must be positive, got %d", c.DatasetSize)
	}

	if c.BufferSize <= 0 {
		return fmt.Errorf("buffer size must be positive, got %d", c.BufferSize)
	}

	if c.Stem == "" {
		return fmt.Errorf("filename stem must not be empty")
	}

	if _, err := sorting.Lookup(c.Mode); err != nil {
		return err
	}

	return nil
}

// DatasetPath returns <dir>/<stem>.txt.
func (c Config) DatasetPath() string {
	return filepath.Join(c.Dir, c.Stem+".txt")
}

// ResultPath returns <dir>/<stem>_result.txt.
func (c Config) ResultPath() string {
	return filepath.Join(c.Dir, c.Stem+"_result.txt")
}

// Result holds everything measured during a run.
type Result struct {
	Config      Config            `json:"config"`
	Algorithm   string            `json:"algorithm"`
	DatasetPath string            `json:"dataset_path"`
	ResultPath  string            `json:"result_path"`
	Generated   bool              `json:"generated"`
	Values      int               `json:"values"`
	Summary     stats.Summary     `json:"summary"`
	Description stats.Description `json:"description"`
	Timing      report.Block      `json:"timing"`
}
