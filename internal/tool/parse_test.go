// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterproj/roster-mcp/internal/roster"
)

const surgicalAndMCH = `SURGICAL BLOCK
Duty SR (M) - Dr. A
Duty SR (N) - Dr. B
Duty JR - Dr. C
MCH BLOCK
Duty JR - Dr. D, Dr. E
`

func TestExtractDutyRoster(t *testing.T) {
	ctx := context.Background()
	req := &mcp.CallToolRequest{}

	tests := []struct {
		name           string
		input          InputExtractDutyRoster
		wantErr        bool
		errContains    string
		validateOutput func(t *testing.T, output OutputExtractDutyRoster)
	}{
		{
			name:        "empty text returns error",
			input:       InputExtractDutyRoster{Text: ""},
			wantErr:     true,
			errContains: "text is required",
		},
		{
			name:  "surgical and MCH blocks produce canonical records",
			input: InputExtractDutyRoster{Text: surgicalAndMCH},
			validateOutput: func(t *testing.T, output OutputExtractDutyRoster) {
				want := []Record{
					{Shift: "Morning", Block: "Surgical", ResidentType: "SR", ResidentName: "Dr. A"},
					{Shift: "Morning", Block: "Surgical", ResidentType: "JR", ResidentName: "Dr. C"},
					{Shift: "Morning", Block: "MCH", ResidentType: "JR", ResidentName: "Dr. D"},
					{Shift: "Morning", Block: "MCH", ResidentType: "JR", ResidentName: "Dr. E"},
					{Shift: "Night", Block: "Surgical", ResidentType: "SR", ResidentName: "Dr. B"},
					{Shift: "Night", Block: "Surgical", ResidentType: "JR", ResidentName: "Dr. C"},
					{Shift: "Night", Block: "MCH", ResidentType: "JR", ResidentName: "Dr. D"},
					{Shift: "Night", Block: "MCH", ResidentType: "JR", ResidentName: "Dr. E"},
				}
				assert.Equal(t, want, output.Records)
				assert.Equal(t, 2, output.Segments)
				assert.Empty(t, output.Skipped)
				assert.Equal(t, []string{"surgical", "mch"}, output.ExtractorsUsed)
			},
		},
		{
			name: "duty teams rows",
			input: InputExtractDutyRoster{
				Text: "Duty Teams\nDay A B C D\nNight E F G H\nAB8 ICU Dr. Z\n",
			},
			validateOutput: func(t *testing.T, output OutputExtractDutyRoster) {
				require.Len(t, output.Records, 8)
				assert.Equal(t, []string{"duty_teams"}, output.ExtractorsUsed)
				for _, r := range output.Records {
					assert.NotEqual(t, "Dr. Z", r.ResidentName, "text after an end marker must be ignored")
				}
			},
		},
		{
			name: "custom markers",
			input: InputExtractDutyRoster{
				Text: "MCH WING\nDuty JR - Dr. Q\n",
				Markers: `version: 1
markers:
  - text: "MCH WING"
    section: mch
roles: {sr_morning: "Duty SR (M)", sr_night: "Duty SR (N)", jr: "Duty JR"}
shift_labels: {morning: ["Day"], night: ["Night"]}
`,
			},
			validateOutput: func(t *testing.T, output OutputExtractDutyRoster) {
				require.Len(t, output.Records, 2)
				assert.Equal(t, "Dr. Q", output.Records[0].ResidentName)
				assert.Equal(t, "MCH", output.Records[0].Block)
			},
		},
		{
			name: "invalid markers return error",
			input: InputExtractDutyRoster{
				Text:    surgicalAndMCH,
				Markers: "version: 0\nmarkers: []\n",
			},
			wantErr:     true,
			errContains: "invalid markers",
		},
		{
			name:        "text without any block returns no records",
			input:       InputExtractDutyRoster{Text: "Notice: departmental meeting at 4pm"},
			wantErr:     true,
			errContains: roster.ErrNoRecords.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := ExtractDutyRoster(ctx, req, tt.input)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			if tt.validateOutput != nil {
				tt.validateOutput(t, output)
			}
		})
	}
}

func TestExtractDutyRoster_SkippedSectionsAreReported(t *testing.T) {
	text := "Duty Teams\nsomething unreadable\nSURGICAL BLOCK\nDuty JR - Dr. C\n"
	_, output, err := ExtractDutyRoster(context.Background(), &mcp.CallToolRequest{}, InputExtractDutyRoster{Text: text})
	require.NoError(t, err)

	require.Len(t, output.Skipped, 1)
	assert.Equal(t, roster.SectionDutyTeams, output.Skipped[0].Section)
	assert.Len(t, output.Records, 2)
}

func TestMetadataExtractDutyRoster_DescribesSortKey(t *testing.T) {
	assert.Contains(t, MetadataExtractDutyRoster.Description, "sorted by shift, block and resident type")
	assert.NotContains(t, MetadataExtractDutyRoster.Description, "resident type and name")
}

// ---------------------------------------------------------------------------
// Server
// ---------------------------------------------------------------------------

func TestServer_CallTool(t *testing.T) {
	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	serverSession, err := NewServer("test").Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 1)
	assert.Equal(t, "extract_duty_roster", tools.Tools[0].Name)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "extract_duty_roster",
		Arguments: map[string]any{"text": surgicalAndMCH},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.NotNil(t, res.StructuredContent)

	res, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "extract_duty_roster",
		Arguments: map[string]any{"text": ""},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError, "handler errors are reported as tool errors")
}
