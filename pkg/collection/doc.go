// Package collection holds the element snapshots behind a virtualized list.
//
// # Types
//
// Element is one measurable unit at a coordinate: a row, or a supplementary
// decoration such as a section header. Elements have reference identity and
// are shared between snapshots that did not change them.
//
// Section is an identity-bearing group of rows. Its ID is assigned once when
// the section is inserted and survives every update that does not delete it.
//
// ElementMap is an immutable snapshot of sections, rows and supplementary
// elements. MutableElementMap is the builder used while applying one update:
//
//	m := visible.MutableCopy()
//	m.RemoveItems([]collection.IndexPath{{Section: 0, Item: 1}})
//	m.InsertElement(collection.NewElement(block, sizeRange, ""), collection.IndexPath{Section: 0, Item: 1})
//	next := m.Freeze(visible.Version() + 1)
//
// Index-based mutations must be applied in a fixed order so coordinates stay
// valid: deletions before insertions within a category, and supplementary
// rebuilds after the row churn of the same section.
package collection
