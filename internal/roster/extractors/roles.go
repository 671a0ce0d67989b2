// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/rosterproj/roster-mcp/internal/roster"
)

// RoleExtractor parses a block that lists its residents next to
// "Duty SR (M)", "Duty SR (N)" and "Duty JR" labels.
type RoleExtractor struct {
	section   roster.SectionID
	block     roster.Block
	srMorning *regexp.Regexp
	srNight   *regexp.Regexp
	jr        *regexp.Regexp
	anyRole   []*regexp.Regexp
	multiJR   bool
	logger    *zap.Logger
}

type RoleOption func(*RoleExtractor)

// WithMultipleJR makes the JR label accept a comma-separated list of names.
func WithMultipleJR() RoleOption {
	return func(e *RoleExtractor) { e.multiJR = true }
}

// WithLogger sets the logger used for soft misses.
func WithLogger(logger *zap.Logger) RoleOption {
	return func(e *RoleExtractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewRoleExtractor creates a RoleExtractor that handles section and emits
// records for block.
func NewRoleExtractor(section roster.SectionID, block roster.Block, roles roster.RoleMarkers, opts ...RoleOption) *RoleExtractor {
	e := &RoleExtractor{
		section:   section,
		block:     block,
		srMorning: markerPattern(roles.SRMorning),
		srNight:   markerPattern(roles.SRNight),
		jr:        markerPattern(roles.JR),
		logger:    zap.NewNop(),
	}
	e.anyRole = []*regexp.Regexp{e.srMorning, e.srNight, e.jr}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *RoleExtractor) Name() string {
	return string(e.section)
}

func (e *RoleExtractor) CanHandle(seg roster.Segment) bool {
	return seg.Section == e.section
}

// Extract never fails: a missing label or an empty name yields no record for
// that role.
func (e *RoleExtractor) Extract(_ context.Context, seg roster.Segment) ([]roster.DutyRecord, error) {
	var records []roster.DutyRecord

	if name, ok := e.capture(seg.Text, e.srMorning); ok {
		if name = nameAfterSeparator(name); name != "" {
			records = append(records, record(roster.ShiftMorning, e.block, roster.ResidentSR, name))
		}
	} else {
		e.logger.Debug("no morning SR label", zap.String("block", e.block.String()))
	}

	if name, ok := e.capture(seg.Text, e.srNight); ok {
		if name = nameAfterSeparator(name); name != "" {
			records = append(records, record(roster.ShiftNight, e.block, roster.ResidentSR, name))
		}
	} else {
		e.logger.Debug("no night SR label", zap.String("block", e.block.String()))
	}

	if captured, ok := e.capture(seg.Text, e.jr); ok {
		for _, name := range e.juniorNames(nameAfterSeparator(captured)) {
			records = append(records,
				record(roster.ShiftMorning, e.block, roster.ResidentJR, name),
				record(roster.ShiftNight, e.block, roster.ResidentJR, name),
			)
		}
	} else {
		e.logger.Debug("no JR label", zap.String("block", e.block.String()))
	}

	return records, nil
}

func (e *RoleExtractor) juniorNames(captured string) []string {
	if captured == "" {
		return nil
	}
	if !e.multiJR {
		return []string{captured}
	}
	var names []string
	for _, n := range strings.Split(captured, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// capture returns the text following the first match of label, up to the end
// of the line or the next role label on the same line.
func (e *RoleExtractor) capture(text string, label *regexp.Regexp) (string, bool) {
	loc := label.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	rest := restOfLine(text[loc[1]:])
	for _, other := range e.anyRole {
		if next := other.FindStringIndex(rest); next != nil {
			rest = rest[:next[0]]
		}
	}
	return rest, true
}
