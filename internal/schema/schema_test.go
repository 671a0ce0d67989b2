// SPDX-License-Identifier: Apache-2.0

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterproj/roster-mcp/internal/schema"
)

type marker struct {
	Text    string `json:"text"`
	Section string `json:"section"`
}

type roles struct {
	SRMorning string `json:"sr_morning"`
	SRNight   string `json:"sr_night"`
	JR        string `json:"jr"`
}

type labels struct {
	Morning []string `json:"morning"`
	Night   []string `json:"night"`
}

type table struct {
	Version     int      `json:"version"`
	Markers     []marker `json:"markers"`
	Roles       roles    `json:"roles"`
	ShiftLabels labels   `json:"shift_labels"`
}

func validTable() table {
	return table{
		Version: 1,
		Markers: []marker{{Text: "SURGICAL BLOCK", Section: "surgical"}},
		Roles:   roles{SRMorning: "Duty SR (M)", SRNight: "Duty SR (N)", JR: "Duty JR"},
		ShiftLabels: labels{
			Morning: []string{"Day"},
			Night:   []string{"Night"},
		},
	}
}

func TestValidate_MarkerTable(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*table)
		errContains string
	}{
		{name: "valid table", mutate: func(*table) {}},
		{
			name:        "unknown section rejected",
			mutate:      func(tb *table) { tb.Markers[0].Section = "icu" },
			errContains: "#MarkerTable",
		},
		{
			name:        "empty marker text rejected",
			mutate:      func(tb *table) { tb.Markers[0].Text = "" },
			errContains: "#MarkerTable",
		},
		{
			name:        "no markers rejected",
			mutate:      func(tb *table) { tb.Markers = []marker{} },
			errContains: "#MarkerTable",
		},
		{
			name:        "zero version rejected",
			mutate:      func(tb *table) { tb.Version = 0 },
			errContains: "#MarkerTable",
		},
		{
			name:        "empty role marker rejected",
			mutate:      func(tb *table) { tb.Roles.JR = "" },
			errContains: "#MarkerTable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := validTable()
			tt.mutate(&tb)
			err := schema.Validate(schema.MarkerTable, tb)
			if tt.errContains == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestValidate_UnknownDefinition(t *testing.T) {
	err := schema.Validate("#Nope", validTable())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
