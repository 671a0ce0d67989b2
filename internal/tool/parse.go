// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rosterproj/roster-mcp/internal/roster"
	"github.com/rosterproj/roster-mcp/internal/roster/extractors"
)

// MetadataExtractDutyRoster describes the extract_duty_roster tool.
var MetadataExtractDutyRoster = &mcp.Tool{
	Name: "extract_duty_roster",
	Description: "Extract resident duty assignments from the raw text of a hospital duty roster. " +
		"The text is split into block sections (Duty Teams, Surgical, Burns & Plastic, MCH) and each " +
		"section is parsed into records of shift (Morning or Night), block, resident type (SR or JR) " +
		"and resident name. Records are returned sorted by shift, block and resident type; ties keep roster order. " +
		"Sections that cannot be parsed are listed in skipped rather than failing the call.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"text"},
		"properties": map[string]interface{}{
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Raw roster text, as transcribed from the roster image",
			},
			"markers": map[string]interface{}{
				"type":        "string",
				"description": "Optional YAML marker table replacing the built-in section, role and shift markers.",
			},
		},
	},
}

// InputExtractDutyRoster is the input for the ExtractDutyRoster tool.
type InputExtractDutyRoster struct {
	Text    string `json:"text"`
	Markers string `json:"markers"`
}

// Record is one duty assignment with display names for every field.
type Record struct {
	Shift        string `json:"shift"`
	Block        string `json:"block"`
	ResidentType string `json:"resident_type"`
	ResidentName string `json:"resident_name"`
}

// OutputExtractDutyRoster is the output for the ExtractDutyRoster tool.
type OutputExtractDutyRoster struct {
	// Records in canonical order.
	Records []Record `json:"records"`
	// Segments is the number of block sections found in the text.
	Segments int `json:"segments"`
	// Skipped lists sections that produced no records and why.
	Skipped []roster.SkippedSegment `json:"skipped"`
	// ExtractorsUsed names the extractors that produced records.
	ExtractorsUsed []string `json:"extractors_used"`
}

// ExtractDutyRoster runs the roster pipeline over the provided text.
func ExtractDutyRoster(ctx context.Context, _ *mcp.CallToolRequest, input InputExtractDutyRoster) (*mcp.CallToolResult, OutputExtractDutyRoster, error) {
	if input.Text == "" {
		return nil, OutputExtractDutyRoster{}, fmt.Errorf("text is required")
	}

	table := roster.DefaultMarkerTable()
	if input.Markers != "" {
		var err error
		table, err = roster.LoadMarkerTable([]byte(input.Markers))
		if err != nil {
			return nil, OutputExtractDutyRoster{}, fmt.Errorf("invalid markers: %w", err)
		}
	}

	result, err := extractors.NewPipeline(table, nil).RunWithMeta(ctx, input.Text)
	if err != nil && !errors.Is(err, roster.ErrNoRecords) {
		return nil, OutputExtractDutyRoster{}, err
	}

	out := OutputExtractDutyRoster{
		Records:        toRecords(result.Records),
		Segments:       result.Segments,
		Skipped:        result.Skipped,
		ExtractorsUsed: result.ExtractorsUsed,
	}
	if out.Skipped == nil {
		out.Skipped = []roster.SkippedSegment{}
	}
	if out.ExtractorsUsed == nil {
		out.ExtractorsUsed = []string{}
	}
	return nil, out, err
}

func toRecords(table roster.Table) []Record {
	records := make([]Record, len(table))
	for i, r := range table {
		records[i] = Record{
			Shift:        r.Shift.String(),
			Block:        r.Block.String(),
			ResidentType: r.ResidentType.String(),
			ResidentName: r.ResidentName,
		}
	}
	return records
}
