package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// ReadCSV loads a frame from a delimited file with a header row.
func ReadCSV(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading %s: missing header row", path)
	}

	frame := NewFrame(records[0])
	for i, record := range records[1:] {
		if err := frame.AppendRow(record); err != nil {
			return nil, fmt.Errorf("reading %s row %d: %w", path, i+1, err)
		}
	}
	return frame, nil
}

// WriteCSV persists the frame with a header row, creating parent
// directories as needed.
func WriteCSV(path string, frame *Frame) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(frame.Columns); err != nil {
		return fmt.Errorf("writing header to %s: %w", path, err)
	}
	for _, row := range frame.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing row to %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}
