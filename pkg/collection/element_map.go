package collection

import (
	"iter"
	"maps"
	"slices"
)

// Location is the coordinate of an element in a snapshot.
type Location struct {
	// Kind is RowKind or a supplementary kind.
	Kind      string
	IndexPath IndexPath
}

// ElementMap is an immutable snapshot of a list's sections and elements.
//
// Snapshots are never mutated after Freeze. The next generation is built
// from MutableCopy and shares every unchanged *Element with this one.
type ElementMap struct {
	version       uint64
	sections      []*Section
	items         [][]*Element
	supplementary map[string][][]*Element
	index         map[*Element]Location
}

// NewElementMap returns an empty snapshot with version zero.
func NewElementMap() *ElementMap {
	return &ElementMap{
		supplementary: map[string][][]*Element{},
		index:         map[*Element]Location{},
	}
}

// Version identifies the generation. Later generations have larger versions.
func (m *ElementMap) Version() uint64 {
	return m.version
}

// NumberOfSections returns the number of sections.
func (m *ElementMap) NumberOfSections() int {
	return len(m.sections)
}

// NumberOfItems returns the row count of section, or 0 if out of range.
func (m *ElementMap) NumberOfItems(section int) int {
	if section < 0 || section >= len(m.items) {
		return 0
	}
	return len(m.items[section])
}

// ItemCounts returns the row count of every section.
func (m *ElementMap) ItemCounts() []int {
	counts := make([]int, len(m.items))
	for i, rows := range m.items {
		counts[i] = len(rows)
	}
	return counts
}

// Sections returns the sections in order.
func (m *ElementMap) Sections() []*Section {
	return slices.Clone(m.sections)
}

// Section returns the section at index.
func (m *ElementMap) Section(index int) (*Section, bool) {
	if index < 0 || index >= len(m.sections) {
		return nil, false
	}
	return m.sections[index], true
}

// Element returns the row at path.
func (m *ElementMap) Element(path IndexPath) (*Element, bool) {
	return lookup(m.items, path)
}

// SupplementaryElement returns the element of kind at path.
func (m *ElementMap) SupplementaryElement(kind string, path IndexPath) (*Element, bool) {
	if kind == RowKind {
		return m.Element(path)
	}
	return lookup(m.supplementary[kind], path)
}

// SupplementaryKinds returns the supplementary kinds present, sorted.
func (m *ElementMap) SupplementaryKinds() []string {
	return slices.Sorted(maps.Keys(m.supplementary))
}

// SupplementaryCount returns the number of elements of kind in section.
func (m *ElementMap) SupplementaryCount(kind string, section int) int {
	slots := m.supplementary[kind]
	if section < 0 || section >= len(slots) {
		return 0
	}
	return len(slots[section])
}

// Location returns the coordinate of e in this snapshot.
func (m *ElementMap) Location(e *Element) (Location, bool) {
	loc, ok := m.index[e]
	return loc, ok
}

// IndexPathForElement returns the index path of e, whatever its kind.
func (m *ElementMap) IndexPathForElement(e *Element) (IndexPath, bool) {
	loc, ok := m.index[e]
	return loc.IndexPath, ok
}

// Contains reports whether e belongs to this snapshot.
func (m *ElementMap) Contains(e *Element) bool {
	_, ok := m.index[e]
	return ok
}

// Count returns the total number of elements, rows and supplementary.
func (m *ElementMap) Count() int {
	return len(m.index)
}

// All iterates rows in index order, then each supplementary kind in sorted
// kind order.
func (m *ElementMap) All() iter.Seq2[Location, *Element] {
	return func(yield func(Location, *Element) bool) {
		if !walk(RowKind, m.items, yield) {
			return
		}
		for _, kind := range m.SupplementaryKinds() {
			if !walk(kind, m.supplementary[kind], yield) {
				return
			}
		}
	}
}

// Elements returns every element in the order of All.
func (m *ElementMap) Elements() []*Element {
	out := make([]*Element, 0, len(m.index))
	for _, e := range m.All() {
		out = append(out, e)
	}
	return out
}

// MutableCopy returns a builder holding the same structure. Elements are
// shared, not copied.
func (m *ElementMap) MutableCopy() *MutableElementMap {
	supplementary := make(map[string][][]*Element, len(m.supplementary))
	for kind, slots := range m.supplementary {
		supplementary[kind] = cloneSlots(slots)
	}
	return &MutableElementMap{
		sections:      slices.Clone(m.sections),
		items:         cloneSlots(m.items),
		supplementary: supplementary,
	}
}

func lookup(slots [][]*Element, path IndexPath) (*Element, bool) {
	if path.Section < 0 || path.Section >= len(slots) {
		return nil, false
	}
	rows := slots[path.Section]
	if path.Item < 0 || path.Item >= len(rows) {
		return nil, false
	}
	return rows[path.Item], true
}

func walk(kind string, slots [][]*Element, yield func(Location, *Element) bool) bool {
	for s, rows := range slots {
		for i, e := range rows {
			if !yield(Location{Kind: kind, IndexPath: IndexPath{Section: s, Item: i}}, e) {
				return false
			}
		}
	}
	return true
}

func cloneSlots(slots [][]*Element) [][]*Element {
	out := make([][]*Element, len(slots))
	for i, rows := range slots {
		out[i] = slices.Clone(rows)
	}
	return out
}
