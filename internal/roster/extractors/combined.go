// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"context"
	"regexp"

	"go.uber.org/zap"

	"github.com/rosterproj/roster-mcp/internal/roster"
)

// columnsPerRow is the fixed column layout of the Duty Teams table:
// SR (Centre), SR (Periphery), JR (Centre), JR (Periphery).
const columnsPerRow = 4

// CombinedExtractor parses the Duty Teams table shared by the Main (Centre)
// and Main (Periphery) blocks. The table has a Day (or Morning) row and a
// Night row, each holding four names in column order.
type CombinedExtractor struct {
	morning *regexp.Regexp
	night   *regexp.Regexp
	logger  *zap.Logger
}

// NewCombinedExtractor creates a CombinedExtractor recognising the given row
// labels.
func NewCombinedExtractor(labels roster.ShiftLabels, logger *zap.Logger) *CombinedExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CombinedExtractor{
		morning: labelPattern(labels.Morning),
		night:   labelPattern(labels.Night),
		logger:  logger,
	}
}

func (e *CombinedExtractor) Name() string {
	return "duty_teams"
}

func (e *CombinedExtractor) CanHandle(seg roster.Segment) bool {
	return seg.Section == roster.SectionDutyTeams
}

// Extract emits SR and JR records from the Day row, duplicating each JR into
// the Night shift, and only SR records from the Night row. A row with fewer
// than four names contributes nothing. The segment is malformed only when
// neither row label is present.
func (e *CombinedExtractor) Extract(_ context.Context, seg roster.Segment) ([]roster.DutyRecord, error) {
	text := seg.Text

	dayLoc := e.morning.FindStringIndex(text)
	searchFrom := 0
	if dayLoc != nil {
		searchFrom = dayLoc[1]
	}
	nightLoc := findFrom(e.night, text, searchFrom)
	if nightLoc == nil && searchFrom > 0 {
		nightLoc = e.night.FindStringIndex(text)
	}

	if dayLoc == nil && nightLoc == nil {
		return nil, &roster.MalformedRosterError{
			Marker: seg.Marker,
			Reason: "neither a day nor a night row was found",
		}
	}

	var records []roster.DutyRecord

	if dayLoc != nil {
		end := len(text)
		if nightLoc != nil && nightLoc[0] >= dayLoc[1] {
			end = nightLoc[0]
		}
		day := nameTokens(text[dayLoc[1]:end])
		if len(day) >= columnsPerRow {
			records = append(records,
				record(roster.ShiftMorning, roster.BlockMainCentre, roster.ResidentSR, day[0]),
				record(roster.ShiftMorning, roster.BlockMainPeriphery, roster.ResidentSR, day[1]),
				record(roster.ShiftMorning, roster.BlockMainCentre, roster.ResidentJR, day[2]),
				record(roster.ShiftMorning, roster.BlockMainPeriphery, roster.ResidentJR, day[3]),
				record(roster.ShiftNight, roster.BlockMainCentre, roster.ResidentJR, day[2]),
				record(roster.ShiftNight, roster.BlockMainPeriphery, roster.ResidentJR, day[3]),
			)
		} else {
			e.logger.Debug("day row under-populated", zap.String("marker", seg.Marker), zap.Int("names", len(day)))
		}
	}

	if nightLoc != nil {
		end := len(text)
		if dayLoc != nil && dayLoc[0] >= nightLoc[1] {
			end = dayLoc[0]
		}
		night := nameTokens(text[nightLoc[1]:end])
		if len(night) >= columnsPerRow {
			records = append(records,
				record(roster.ShiftNight, roster.BlockMainCentre, roster.ResidentSR, night[0]),
				record(roster.ShiftNight, roster.BlockMainPeriphery, roster.ResidentSR, night[1]),
			)
		} else {
			e.logger.Debug("night row under-populated", zap.String("marker", seg.Marker), zap.Int("names", len(night)))
		}
	}

	return records, nil
}

func findFrom(re *regexp.Regexp, s string, from int) []int {
	loc := re.FindStringIndex(s[from:])
	if loc == nil {
		return nil
	}
	return []int{loc[0] + from, loc[1] + from}
}

func record(shift roster.Shift, block roster.Block, kind roster.ResidentType, name string) roster.DutyRecord {
	return roster.DutyRecord{Shift: shift, Block: block, ResidentType: kind, ResidentName: name}
}
