// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when there is no usable text to segment.
	ErrEmptyInput = errors.New("roster: no text to extract from")
	// ErrNoRecords is returned when every segment yielded zero records.
	ErrNoRecords = errors.New("roster: no duty records extracted")
)

// MalformedRosterError reports a segment that could not be parsed at all.
// It is local to one segment; the pipeline skips the segment and continues.
type MalformedRosterError struct {
	Marker string
	Reason string
}

func (e *MalformedRosterError) Error() string {
	return fmt.Sprintf("malformed roster under %q: %s", e.Marker, e.Reason)
}
