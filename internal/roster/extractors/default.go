// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"go.uber.org/zap"

	"github.com/rosterproj/roster-mcp/internal/roster"
)

// Default returns the extractors for the standard roster layout: the shared
// Duty Teams table plus the Surgical, Burns & Plastic and MCH role blocks.
// MCH lists more than one JR.
func Default(t *roster.MarkerTable, logger *zap.Logger) []roster.Extractor {
	return []roster.Extractor{
		NewCombinedExtractor(t.ShiftLabels, logger),
		NewRoleExtractor(roster.SectionSurgical, roster.BlockSurgical, t.Roles, WithLogger(logger)),
		NewRoleExtractor(roster.SectionBurnsAndPlastic, roster.BlockBurnsAndPlastic, t.Roles, WithLogger(logger)),
		NewRoleExtractor(roster.SectionMCH, roster.BlockMCH, t.Roles, WithLogger(logger), WithMultipleJR()),
	}
}

// NewPipeline builds a roster.Pipeline over t with the default extractors.
func NewPipeline(t *roster.MarkerTable, logger *zap.Logger) *roster.Pipeline {
	return roster.NewPipeline(roster.NewSegmenter(t), logger, Default(t, logger)...)
}
