// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"cmp"
	"slices"
)

// CompareRecords orders records by shift, then block declaration order, then
// SR before JR. Names are not part of the key.
func CompareRecords(a, b DutyRecord) int {
	if c := cmp.Compare(a.Shift, b.Shift); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Block, b.Block); c != 0 {
		return c
	}
	return cmp.Compare(a.ResidentType, b.ResidentType)
}

// SortCanonical sorts records in place. Ties keep their extraction order.
func SortCanonical(records []DutyRecord) {
	slices.SortStableFunc(records, CompareRecords)
}

// IsCanonical reports whether records are already in canonical order.
func IsCanonical(records []DutyRecord) bool {
	return slices.IsSortedFunc(records, CompareRecords)
}
