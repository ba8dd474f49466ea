package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/solaris/config"
	"github.com/pthm-cable/solaris/params"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir        string
	framesFile *os.File
	perfFile   *os.File
	stylesFile *os.File
	marksFile  *os.File

	// Track if headers have been written
	framesHeaderWritten bool
	perfHeaderWritten   bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "frames.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating frames.csv: %w", err)
	}
	om.framesFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.framesFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	f, err = os.Create(filepath.Join(dir, "styles.jsonl"))
	if err != nil {
		om.framesFile.Close()
		om.perfFile.Close()
		return nil, fmt.Errorf("creating styles.jsonl: %w", err)
	}
	om.stylesFile = f

	f, err = os.Create(filepath.Join(dir, "bookmarks.jsonl"))
	if err != nil {
		om.Close()
		return nil, fmt.Errorf("creating bookmarks.jsonl: %w", err)
	}
	om.marksFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteFrames writes a window stats record to frames.csv.
func (om *OutputManager) WriteFrames(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := writeCSV(om.framesFile, []WindowStats{stats}, &om.framesHeaderWritten); err != nil {
		return fmt.Errorf("writing frames: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := writeCSV(om.perfFile, []PerfStatsCSV{stats.ToCSV(windowEnd)}, &om.perfHeaderWritten); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// StyleRecord is one generated style, as appended to styles.jsonl.
type StyleRecord struct {
	Frame     int32               `json:"frame"`
	Prompt    string              `json:"prompt"`
	Config    params.ParameterSet `json:"config"`
	Reasoning string              `json:"reasoning"`
	Fallback  bool                `json:"fallback"`
}

// WriteStyle appends a generated style to styles.jsonl.
func (om *OutputManager) WriteStyle(rec StyleRecord) error {
	if om == nil {
		return nil
	}
	if err := appendJSONL(om.stylesFile, rec); err != nil {
		return fmt.Errorf("writing styles.jsonl: %w", err)
	}
	return nil
}

// WriteBookmark appends a bookmark to bookmarks.jsonl.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	if err := appendJSONL(om.marksFile, b); err != nil {
		return fmt.Errorf("writing bookmarks.jsonl: %w", err)
	}
	return nil
}

func appendJSONL(f *os.File, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// writeCSV includes headers on the first write only.
func writeCSV(f *os.File, records any, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.framesFile, om.perfFile, om.stylesFile, om.marksFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
