package collection

import (
	"fmt"
	"math"
	"slices"
)

// MutableElementMap is a single-writer builder for an ElementMap.
//
// Section contexts and row arrays are stored separately so an update can
// insert section contexts before the matching row arrays exist. Supplementary
// slots always follow the row arrays.
type MutableElementMap struct {
	sections      []*Section
	items         [][]*Element
	supplementary map[string][][]*Element
	frozen        bool
}

// NewMutableElementMap returns an empty builder.
func NewMutableElementMap() *MutableElementMap {
	return &MutableElementMap{supplementary: map[string][][]*Element{}}
}

// NumberOfSections returns the number of section contexts.
func (m *MutableElementMap) NumberOfSections() int {
	return len(m.sections)
}

// NumberOfItems returns the row count of section, or 0 if out of range.
func (m *MutableElementMap) NumberOfItems(section int) int {
	if section < 0 || section >= len(m.items) {
		return 0
	}
	return len(m.items[section])
}

// Section returns the section context at index.
func (m *MutableElementMap) Section(index int) (*Section, bool) {
	if index < 0 || index >= len(m.sections) {
		return nil, false
	}
	return m.sections[index], true
}

// Element returns the row at path.
func (m *MutableElementMap) Element(path IndexPath) (*Element, bool) {
	return lookup(m.items, path)
}

// SupplementaryElement returns the element of kind at path.
func (m *MutableElementMap) SupplementaryElement(kind string, path IndexPath) (*Element, bool) {
	return lookup(m.supplementary[kind], path)
}

// InsertSection inserts a section context at index.
func (m *MutableElementMap) InsertSection(section *Section, at int) {
	m.mustBeMutable()
	checkInsert("section", at, len(m.sections))
	m.sections = slices.Insert(m.sections, at, section)
}

// RemoveSections removes the section contexts, row arrays and supplementary
// slots at indexes.
func (m *MutableElementMap) RemoveSections(indexes []int) {
	m.mustBeMutable()
	for _, at := range descending(indexes) {
		if at < len(m.sections) {
			m.sections = slices.Delete(m.sections, at, at+1)
		}
		if at < len(m.items) {
			m.items = slices.Delete(m.items, at, at+1)
		}
		for kind, slots := range m.supplementary {
			if at < len(slots) {
				m.supplementary[kind] = slices.Delete(slots, at, at+1)
			}
		}
	}
}

// InsertEmptyItemSections inserts empty row arrays, and empty supplementary
// slots, at indexes. Indexes are in post-insertion coordinates.
func (m *MutableElementMap) InsertEmptyItemSections(indexes []int) {
	m.mustBeMutable()
	for _, at := range SortIndexes(indexes) {
		checkInsert("item section", at, len(m.items))
		m.items = slices.Insert(m.items, at, []*Element(nil))
		for kind, slots := range m.supplementary {
			m.supplementary[kind] = slices.Insert(slots, min(at, len(slots)), []*Element(nil))
		}
	}
}

// InsertElement inserts a row at path. An item index past the end of the
// section appends.
func (m *MutableElementMap) InsertElement(e *Element, at IndexPath) {
	m.mustBeMutable()
	checkInsert("section", at.Section, len(m.items)-1)
	rows := m.items[at.Section]
	checkInsert("item", at.Item, math.MaxInt)
	m.items[at.Section] = slices.Insert(rows, min(at.Item, len(rows)), e)
}

// RemoveItems removes the rows at paths. Paths are in pre-removal
// coordinates; paths out of range are ignored.
func (m *MutableElementMap) RemoveItems(paths []IndexPath) {
	m.mustBeMutable()
	sorted := SortIndexPaths(paths)
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		if p.Section < 0 || p.Section >= len(m.items) {
			continue
		}
		rows := m.items[p.Section]
		if p.Item < 0 || p.Item >= len(rows) {
			continue
		}
		m.items[p.Section] = slices.Delete(rows, p.Item, p.Item+1)
	}
}

// InsertSupplementary inserts an element of kind at path.
func (m *MutableElementMap) InsertSupplementary(kind string, e *Element, at IndexPath) {
	m.mustBeMutable()
	if kind == RowKind {
		panic("collection: InsertSupplementary with row kind")
	}
	slots := m.supplementary[kind]
	for len(slots) < len(m.items) {
		slots = append(slots, nil)
	}
	checkInsert("section", at.Section, len(slots)-1)
	checkInsert("supplementary item", at.Item, len(slots[at.Section]))
	slots[at.Section] = slices.Insert(slots[at.Section], at.Item, e)
	m.supplementary[kind] = slots
}

// RemoveSupplementary empties the slots of kind in sections. RowKind
// empties every supplementary kind.
func (m *MutableElementMap) RemoveSupplementary(kind string, sections []int) {
	m.mustBeMutable()
	for k, slots := range m.supplementary {
		if kind != RowKind && k != kind {
			continue
		}
		for _, s := range sections {
			if s >= 0 && s < len(slots) {
				slots[s] = nil
			}
		}
	}
}

// RemoveAll drops every section and element.
func (m *MutableElementMap) RemoveAll() {
	m.mustBeMutable()
	m.sections = nil
	m.items = nil
	m.supplementary = map[string][][]*Element{}
}

// Freeze copies the builder into an immutable snapshot. The builder must not
// be used afterwards.
func (m *MutableElementMap) Freeze(version uint64) *ElementMap {
	m.mustBeMutable()
	m.frozen = true
	if len(m.sections) != len(m.items) {
		panic(fmt.Sprintf("collection: freeze with %d sections but %d item sections", len(m.sections), len(m.items)))
	}

	out := &ElementMap{
		version:       version,
		sections:      slices.Clone(m.sections),
		items:         cloneSlots(m.items),
		supplementary: make(map[string][][]*Element, len(m.supplementary)),
		index:         make(map[*Element]Location),
	}
	for kind, slots := range m.supplementary {
		if countSlots(slots) == 0 {
			continue
		}
		slots = cloneSlots(slots)
		for len(slots) < len(out.items) {
			slots = append(slots, nil)
		}
		out.supplementary[kind] = slots
	}
	for loc, e := range out.All() {
		out.index[e] = loc
	}
	return out
}

func (m *MutableElementMap) mustBeMutable() {
	if m.frozen {
		panic("collection: mutation after Freeze")
	}
}

func checkInsert(what string, at, limit int) {
	if at < 0 || at > limit {
		panic(fmt.Sprintf("collection: %s index %d out of range [0, %d]", what, at, limit))
	}
}

func descending(indexes []int) []int {
	out := SortIndexes(indexes)
	slices.Reverse(out)
	return out
}

func countSlots(slots [][]*Element) int {
	n := 0
	for _, rows := range slots {
		n += len(rows)
	}
	return n
}
