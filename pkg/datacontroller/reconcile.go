package datacontroller

import (
	"github.com/go-drift/datacontroller/pkg/changeset"
	"github.com/go-drift/datacontroller/pkg/collection"
)

// reconcile applies a validated delta to m. The order of the steps keeps
// every index valid at the moment it is used:
//
//  1. delete sections (contexts, rows and supplementary slots)
//  2. insert section contexts
//  3. delete rows, then repopulate supplementary elements of their sections
//  4. insert row arrays and elements of inserted sections
//  5. insert rows, then repopulate supplementary elements of their sections
//
// Between steps 2 and 4 the row arrays are in intermediate coordinates:
// old sections with deletions applied, insertions not yet.
func (c *Controller) reconcile(m *collection.MutableElementMap, d changeset.Delta, ref *sourceRef) {
	if d.Reload {
		c.nextSectionID = 0
		m.RemoveAll()
		sections := make([]int, len(d.NewCounts))
		for s := range sections {
			sections[s] = s
			m.InsertSection(c.newSection(ref, s), s)
		}
		m.InsertEmptyItemSections(sections)
		c.insertSectionElements(m, ref, sections)
		return
	}

	if len(d.DeletedSections) > 0 {
		m.RemoveSections(d.DeletedSections)
	}

	for _, s := range d.InsertedSections {
		m.InsertSection(c.newSection(ref, s), s)
	}

	if len(d.DeletedItems) > 0 {
		paths := make([]collection.IndexPath, 0, len(d.DeletedItems))
		for _, p := range d.DeletedItems {
			mid, ok := d.IntermediateSection(p.Section)
			if !ok {
				continue
			}
			paths = append(paths, collection.IndexPath{Section: mid, Item: p.Item})
		}
		m.RemoveItems(paths)
		c.repopulateSupplementary(m, ref, collection.SectionsOf(paths), d.SectionFromIntermediate)
	}

	if len(d.InsertedSections) > 0 {
		m.InsertEmptyItemSections(d.InsertedSections)
		c.insertSectionElements(m, ref, d.InsertedSections)
	}

	if len(d.InsertedItems) > 0 {
		for _, p := range d.InsertedItems {
			// Inserts past the end append.
			p.Item = min(p.Item, m.NumberOfItems(p.Section))
			m.InsertElement(newRow(ref, p), p)
		}
		c.repopulateSupplementary(m, ref, collection.SectionsOf(d.InsertedItems), identity)
	}
}

// newSection takes the next section id.
func (c *Controller) newSection(ref *sourceRef, index int) *collection.Section {
	var context any
	if ref.caps.Has(CapSectionContext) {
		context = ref.src.(SectionContextSource).ContextForSection(index)
	}
	id := c.nextSectionID
	c.nextSectionID++
	return collection.NewSection(id, context)
}

// insertSectionElements fills the empty row arrays of sections with rows and
// supplementary elements. sections are in final coordinates.
func (c *Controller) insertSectionElements(m *collection.MutableElementMap, ref *sourceRef, sections []int) {
	for _, s := range sections {
		for i := range c.itemCounts[s] {
			p := collection.IndexPath{Section: s, Item: i}
			m.InsertElement(newRow(ref, p), p)
		}
	}
	insertSupplementary(m, ref, sections, identity)
}

// repopulateSupplementary drops and rebuilds every supplementary element of
// the given sections. Any row change in a section invalidates all of its
// supplementary elements, whatever their kind.
//
// slots are section indexes in m; toSource maps them to the data source's
// (final) coordinates.
func (c *Controller) repopulateSupplementary(m *collection.MutableElementMap, ref *sourceRef, slots []int, toSource func(int) int) {
	if len(slots) == 0 {
		return
	}
	m.RemoveSupplementary(collection.RowKind, slots)
	insertSupplementary(m, ref, slots, toSource)
}

func insertSupplementary(m *collection.MutableElementMap, ref *sourceRef, slots []int, toSource func(int) int) {
	sup := ref.supplementary()
	if sup == nil || len(slots) == 0 {
		return
	}
	sources := make([]int, len(slots))
	for i, slot := range slots {
		sources[i] = toSource(slot)
	}
	for _, kind := range sup.SupplementaryKinds(sources) {
		if kind == collection.RowKind {
			continue
		}
		for i, slot := range slots {
			src := sources[i]
			n := sup.NumberOfSupplementaryElements(kind, src)
			for item := range n {
				p := collection.IndexPath{Section: src, Item: item}
				e := collection.NewElement(sup.NodeBlockForSupplementary(kind, p), sup.SizeRangeForSupplementary(kind, p), kind)
				m.InsertSupplementary(kind, e, collection.IndexPath{Section: slot, Item: item})
			}
		}
	}
}

func newRow(ref *sourceRef, p collection.IndexPath) *collection.Element {
	return collection.NewElement(ref.src.NodeBlockForItem(p), ref.src.SizeRangeForItem(p), collection.RowKind)
}

func identity(section int) int {
	return section
}
