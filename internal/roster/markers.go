// SPDX-License-Identifier: Apache-2.0

package roster

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/rosterproj/roster-mcp/internal/schema"
)

// SectionID names the roster section a marker opens.
type SectionID string

const (
	SectionDutyTeams       SectionID = "duty_teams"
	SectionSurgical        SectionID = "surgical"
	SectionBurnsAndPlastic SectionID = "burns_and_plastic"
	SectionMCH             SectionID = "mch"
	// SectionEnd markers terminate roster content and produce no segment.
	SectionEnd SectionID = "end"
)

//go:embed markers.yaml
var defaultMarkers []byte

// Marker maps a literal header text to the section it opens.
type Marker struct {
	Text    string    `yaml:"text" json:"text"`
	Section SectionID `yaml:"section" json:"section"`
}

// RoleMarkers are the literal labels preceding resident names inside
// single-role blocks.
type RoleMarkers struct {
	SRMorning string `yaml:"sr_morning" json:"sr_morning"`
	SRNight   string `yaml:"sr_night" json:"sr_night"`
	JR        string `yaml:"jr" json:"jr"`
}

// ShiftLabels are the row labels of the combined Duty Teams table. Day and
// Morning are both accepted for the first shift.
type ShiftLabels struct {
	Morning []string `yaml:"morning" json:"morning"`
	Night   []string `yaml:"night" json:"night"`
}

// MarkerTable is the single, versioned source of truth for everything the
// segmenter and extractors search for.
type MarkerTable struct {
	Version     int         `yaml:"version" json:"version"`
	Markers     []Marker    `yaml:"markers" json:"markers"`
	Roles       RoleMarkers `yaml:"roles" json:"roles"`
	ShiftLabels ShiftLabels `yaml:"shift_labels" json:"shift_labels"`
}

// DefaultMarkerTable returns the embedded marker table.
func DefaultMarkerTable() *MarkerTable {
	t, err := LoadMarkerTable(defaultMarkers)
	if err != nil {
		panic(fmt.Sprintf("embedded marker table is invalid: %v", err))
	}
	return t
}

// LoadMarkerTable decodes and validates a YAML marker table.
func LoadMarkerTable(data []byte) (*MarkerTable, error) {
	var t MarkerTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal marker table: %w", err)
	}
	if err := schema.Validate(schema.MarkerTable, t); err != nil {
		return nil, fmt.Errorf("invalid marker table: %w", err)
	}
	return &t, nil
}

// LoadMarkerTableFile reads a marker table from disk. An empty path yields
// the embedded default.
func LoadMarkerTableFile(path string) (*MarkerTable, error) {
	if path == "" {
		return DefaultMarkerTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read marker table: %w", err)
	}
	return LoadMarkerTable(data)
}

// Encode renders the table in the same layout LoadMarkerTable accepts.
func (t *MarkerTable) Encode() ([]byte, error) {
	return yaml.Marshal(t)
}

// SectionMarkers returns the markers that open the given section, in table
// order.
func (t *MarkerTable) SectionMarkers(section SectionID) []string {
	var out []string
	for _, m := range t.Markers {
		if m.Section == section {
			out = append(out, m.Text)
		}
	}
	return out
}
