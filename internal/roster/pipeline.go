// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Extractor turns one segment into duty records.
type Extractor interface {
	CanHandle(seg Segment) bool
	Extract(ctx context.Context, seg Segment) ([]DutyRecord, error)
	Name() string
}

type Pipeline struct {
	segmenter  *Segmenter
	extractors []Extractor
	logger     *zap.Logger
}

// NewPipeline creates a Pipeline with the provided extractors. The first
// extractor that can handle a segment is used for it.
func NewPipeline(segmenter *Segmenter, logger *zap.Logger, extractors ...Extractor) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		segmenter:  segmenter,
		extractors: extractors,
		logger:     logger,
	}
}

// SkippedSegment records a segment that produced no records because it could
// not be parsed.
type SkippedSegment struct {
	Section SectionID `json:"section"`
	Marker  string    `json:"marker"`
	Reason  string    `json:"reason"`
}

// RunResult is the output of a pipeline run.
type RunResult struct {
	Records        Table
	Segments       int
	Skipped        []SkippedSegment
	ExtractorsUsed []string
}

func (p *Pipeline) Run(ctx context.Context, text string) (Table, error) {
	result, err := p.RunWithMeta(ctx, text)
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}

// RunWithMeta segments text, extracts every segment and returns the records
// in canonical order. A segment that fails is skipped and reported in
// Skipped. When no segment yields a record the partial result is returned
// together with ErrNoRecords.
func (p *Pipeline) RunWithMeta(ctx context.Context, text string) (RunResult, error) {
	segments, err := p.segmenter.Segment(text)
	if err != nil {
		return RunResult{}, err
	}

	result := RunResult{Segments: len(segments)}
	used := make(map[string]bool)
	var records []DutyRecord

	for _, seg := range segments {
		extractor := p.selectExtractor(seg)
		if extractor == nil {
			p.logger.Warn("no extractor for segment",
				zap.String("section", string(seg.Section)),
				zap.String("marker", seg.Marker))
			result.Skipped = append(result.Skipped, SkippedSegment{
				Section: seg.Section,
				Marker:  seg.Marker,
				Reason:  "no extractor registered",
			})
			continue
		}

		extracted, err := extractor.Extract(ctx, seg)
		if err != nil {
			p.logger.Warn("skipping segment",
				zap.String("extractor", extractor.Name()),
				zap.String("marker", seg.Marker),
				zap.Error(err))
			result.Skipped = append(result.Skipped, SkippedSegment{
				Section: seg.Section,
				Marker:  seg.Marker,
				Reason:  err.Error(),
			})
			continue
		}

		p.logger.Debug("segment extracted",
			zap.String("extractor", extractor.Name()),
			zap.String("marker", seg.Marker),
			zap.Int("records", len(extracted)))

		if !used[extractor.Name()] {
			used[extractor.Name()] = true
			result.ExtractorsUsed = append(result.ExtractorsUsed, extractor.Name())
		}
		records = append(records, extracted...)
	}

	SortCanonical(records)
	result.Records = records

	if len(records) == 0 {
		return result, fmt.Errorf("%w (%d segments, %d skipped)", ErrNoRecords, result.Segments, len(result.Skipped))
	}
	return result, nil
}

// selectExtractor returns the first registered extractor that can handle seg.
func (p *Pipeline) selectExtractor(seg Segment) Extractor {
	for _, e := range p.extractors {
		if e.CanHandle(seg) {
			return e
		}
	}
	return nil
}

// RegisteredExtractors returns the names of all registered extractors.
func (p *Pipeline) RegisteredExtractors() []string {
	names := make([]string, len(p.extractors))
	for i, e := range p.extractors {
		names[i] = e.Name()
	}
	return names
}
