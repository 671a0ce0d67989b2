// SPDX-License-Identifier: Apache-2.0

// Package sink publishes extracted duty tables to their destinations.
package sink

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rosterproj/roster-mcp/internal/config"
	"github.com/rosterproj/roster-mcp/internal/roster"
)

// Sink receives the final, canonically ordered record list.
type Sink interface {
	Publish(ctx context.Context, table roster.Table) error
	Name() string
}

// FileHeader is the header row of delimited file output.
var FileHeader = []string{"Shift", "Block", "Resident Type", "Resident Name"}

// FileRow renders a record in FileHeader column order.
func FileRow(r roster.DutyRecord) []string {
	return []string{r.Shift.String(), r.Block.String(), r.ResidentType.String(), r.ResidentName}
}

// SheetHeader is the header row of the spreadsheet output. The sheet has no
// separate resident type column; the block is written as the building.
var SheetHeader = []string{"Shift Timing", "Doctor Name", "Building"}

// SheetRow renders a record in SheetHeader column order.
func SheetRow(r roster.DutyRecord) []string {
	return []string{r.Shift.String(), r.ResidentName, r.Block.String()}
}

// FromConfig builds every sink enabled in cfg.
func FromConfig(ctx context.Context, cfg config.SinksConfig, logger *zap.Logger) ([]Sink, error) {
	var sinks []Sink
	if cfg.CSV.Path != "" {
		sinks = append(sinks, NewCSVSink(cfg.CSV.Path))
	}
	if cfg.Sheets.SpreadsheetID != "" {
		s, err := NewSheetsSink(ctx, cfg.Sheets, logger)
		if err != nil {
			return nil, fmt.Errorf("sheets sink: %w", err)
		}
		sinks = append(sinks, s)
	}
	return sinks, nil
}
