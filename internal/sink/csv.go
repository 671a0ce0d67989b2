// SPDX-License-Identifier: Apache-2.0

package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rosterproj/roster-mcp/internal/roster"
)

// CSVSink writes the table to a CSV file, replacing it atomically.
type CSVSink struct {
	path string
}

func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

func (s *CSVSink) Name() string {
	return "csv:" + s.path
}

func (s *CSVSink) Publish(_ context.Context, table roster.Table) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".roster-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, table); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// WriteCSV writes the header row and one row per record.
func WriteCSV(w io.Writer, table roster.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FileHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range table {
		if err := cw.Write(FileRow(r)); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
