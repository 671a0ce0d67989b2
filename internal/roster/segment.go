// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"cmp"
	"slices"
	"strings"
)

// Segment is a contiguous span of the raw text opened by a section marker.
// Text includes the marker itself.
type Segment struct {
	Section SectionID
	Marker  string
	Start   int
	End     int
	Text    string
}

// Segmenter splits raw roster text into sections using a marker table.
type Segmenter struct {
	markers []Marker
}

// NewSegmenter creates a Segmenter over the markers of t.
func NewSegmenter(t *MarkerTable) *Segmenter {
	return &Segmenter{markers: slices.Clone(t.Markers)}
}

type markerHit struct {
	marker Marker
	offset int
	order  int
}

func (h markerHit) end() int {
	return h.offset + len(h.marker.Text)
}

// Segment scans raw for every marker, orders the hits by position and cuts
// the text from each section's first hit to the next hit of a different
// section. Aliases of the same section therefore extend the span instead of
// cutting it. A span with no following hit runs to the end of the text, so a
// truncated document still yields its last block. Sections whose marker is
// absent are simply not returned.
func (s *Segmenter) Segment(raw string) ([]Segment, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyInput
	}

	hits := s.scan(raw)

	var segments []Segment
	seen := make(map[SectionID]bool)
	for i, h := range hits {
		if h.marker.Section == SectionEnd || seen[h.marker.Section] {
			continue
		}
		seen[h.marker.Section] = true

		end := len(raw)
		for _, next := range hits[i+1:] {
			if next.marker.Section != h.marker.Section {
				end = next.offset
				break
			}
		}
		segments = append(segments, Segment{
			Section: h.marker.Section,
			Marker:  h.marker.Text,
			Start:   h.offset,
			End:     end,
			Text:    raw[h.offset:end],
		})
	}
	return segments, nil
}

// scan returns the first occurrence of each marker in document order. Hits
// that start inside an earlier, longer hit are discarded.
func (s *Segmenter) scan(raw string) []markerHit {
	var hits []markerHit
	found := make(map[string]bool, len(s.markers))
	for i, m := range s.markers {
		if found[m.Text] {
			continue
		}
		idx := strings.Index(raw, m.Text)
		if idx < 0 {
			continue
		}
		found[m.Text] = true
		hits = append(hits, markerHit{marker: m, offset: idx, order: i})
	}

	slices.SortStableFunc(hits, func(a, b markerHit) int {
		if c := cmp.Compare(a.offset, b.offset); c != 0 {
			return c
		}
		if c := cmp.Compare(len(b.marker.Text), len(a.marker.Text)); c != 0 {
			return c
		}
		return cmp.Compare(a.order, b.order)
	})

	kept := hits[:0]
	for _, h := range hits {
		if len(kept) > 0 && h.offset < kept[len(kept)-1].end() {
			continue
		}
		kept = append(kept, h)
	}
	return kept
}
