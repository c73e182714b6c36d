package changeset

import (
	"slices"

	"github.com/go-drift/datacontroller/pkg/collection"
)

// Delta is a validated change-set. Section and item sets are sorted and
// free of duplicates; deletions are in before-update coordinates, insertions
// in after-update coordinates.
type Delta struct {
	// Reload replaces everything; the other sets are empty.
	Reload bool

	DeletedSections  []int
	InsertedSections []int
	// DeletedItems excludes items of deleted sections.
	DeletedItems []collection.IndexPath
	// InsertedItems excludes items of inserted sections.
	InsertedItems []collection.IndexPath

	OldCounts []int
	NewCounts []int
}

// IsEmpty reports whether the delta changes nothing.
func (d Delta) IsEmpty() bool {
	return !d.Reload && len(d.DeletedSections) == 0 && len(d.InsertedSections) == 0 &&
		len(d.DeletedItems) == 0 && len(d.InsertedItems) == 0
}

// IntermediateSection maps an old section to its index once section
// deletions, but not insertions, have been applied. Deleted sections
// report false.
func (d Delta) IntermediateSection(old int) (int, bool) {
	if _, found := slices.BinarySearch(d.DeletedSections, old); found {
		return 0, false
	}
	return old - countBelow(d.DeletedSections, old), true
}

// SectionFromIntermediate maps an intermediate section to its new index.
func (d Delta) SectionFromIntermediate(mid int) int {
	return shiftPast(d.InsertedSections, mid)
}

// NewSection maps an old section to its new index. Deleted sections report
// false.
func (d Delta) NewSection(old int) (int, bool) {
	mid, ok := d.IntermediateSection(old)
	if !ok {
		return 0, false
	}
	return d.SectionFromIntermediate(mid), true
}

// OldSection maps a new section to its old index. Inserted sections report
// false.
func (d Delta) OldSection(newSection int) (int, bool) {
	if _, found := slices.BinarySearch(d.InsertedSections, newSection); found {
		return 0, false
	}
	mid := newSection - countBelow(d.InsertedSections, newSection)
	return shiftPast(d.DeletedSections, mid), true
}

// countBelow returns how many of the sorted values are < v.
func countBelow(sorted []int, v int) int {
	n, _ := slices.BinarySearch(sorted, v)
	return n
}

// shiftPast returns the position of the i-th slot that is not in sorted.
func shiftPast(sorted []int, i int) int {
	for _, s := range sorted {
		if s > i {
			break
		}
		i++
	}
	return i
}
