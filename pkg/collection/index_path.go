package collection

import (
	"cmp"
	"fmt"
	"slices"
)

// IndexPath locates an element by section and item.
type IndexPath struct {
	Section int
	Item    int
}

func (p IndexPath) String() string {
	return fmt.Sprintf("[%d, %d]", p.Section, p.Item)
}

// Compare orders index paths by section, then item.
func (p IndexPath) Compare(other IndexPath) int {
	if c := cmp.Compare(p.Section, other.Section); c != 0 {
		return c
	}
	return cmp.Compare(p.Item, other.Item)
}

// SortIndexPaths sorts paths ascending and drops duplicates.
func SortIndexPaths(paths []IndexPath) []IndexPath {
	out := slices.Clone(paths)
	slices.SortFunc(out, IndexPath.Compare)
	return slices.Compact(out)
}

// SectionsOf returns the sorted, distinct sections of paths.
func SectionsOf(paths []IndexPath) []int {
	sections := make([]int, 0, len(paths))
	for _, p := range paths {
		sections = append(sections, p.Section)
	}
	return SortIndexes(sections)
}

// SortIndexes sorts indexes ascending and drops duplicates.
func SortIndexes(indexes []int) []int {
	out := slices.Clone(indexes)
	slices.Sort(out)
	return slices.Compact(out)
}
