// SPDX-License-Identifier: Apache-2.0

package sink

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/rosterproj/roster-mcp/internal/config"
	"github.com/rosterproj/roster-mcp/internal/roster"
)

// valuesAPI is the part of the Sheets values service the sink needs.
type valuesAPI interface {
	Clear(ctx context.Context, spreadsheetID, rng string) error
	Update(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) (int64, error)
}

type sheetsValues struct {
	svc *sheets.Service
}

func (v sheetsValues) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := v.svc.Spreadsheets.Values.Clear(spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (v sheetsValues) Update(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) (int64, error) {
	resp, err := v.svc.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return 0, err
	}
	return resp.UpdatedCells, nil
}

// SheetsSink replaces the contents of one spreadsheet tab with the table.
type SheetsSink struct {
	values        valuesAPI
	spreadsheetID string
	tab           string
	logger        *zap.Logger
}

// NewSheetsSink creates a sink using service account or application default
// credentials.
func NewSheetsSink(ctx context.Context, cfg config.SheetsSinkConfig, logger *zap.Logger) (*SheetsSink, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return newSheetsSink(sheetsValues{svc: svc}, cfg.SpreadsheetID, cfg.Tab, logger), nil
}

func newSheetsSink(values valuesAPI, spreadsheetID, tab string, logger *zap.Logger) *SheetsSink {
	if tab == "" {
		tab = "Sheet1"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetsSink{values: values, spreadsheetID: spreadsheetID, tab: tab, logger: logger}
}

func (s *SheetsSink) Name() string {
	return fmt.Sprintf("sheets:%s/%s", s.spreadsheetID, s.tab)
}

func (s *SheetsSink) Publish(ctx context.Context, table roster.Table) error {
	if err := s.values.Clear(ctx, s.spreadsheetID, s.tab); err != nil {
		return fmt.Errorf("failed to clear %s: %w", s.tab, err)
	}

	cells, err := s.values.Update(ctx, s.spreadsheetID, s.tab, SheetValues(table))
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", s.tab, err)
	}
	s.logger.Info("sheet updated", zap.String("tab", s.tab), zap.Int64("cells", cells))
	return nil
}

// SheetValues renders the header and rows in the shape the Sheets API takes.
func SheetValues(table roster.Table) [][]interface{} {
	values := make([][]interface{}, 0, len(table)+1)
	values = append(values, toCells(SheetHeader))
	for _, r := range table {
		values = append(values, toCells(SheetRow(r)))
	}
	return values
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}
