package datacontroller

import (
	"strings"

	"github.com/go-drift/datacontroller/pkg/changeset"
	"github.com/go-drift/datacontroller/pkg/collection"
	"github.com/go-drift/datacontroller/pkg/rendering"
)

// DataSource supplies the list's content. It is polled on the interactive
// thread while an update is reconciled.
type DataSource interface {
	// NumberOfSections returns the current section count.
	NumberOfSections() int
	// NumberOfItems returns the current row count of section.
	NumberOfItems(section int) int
	// NodeBlockForItem returns the block that builds the row's node. The
	// block runs later on a layout worker.
	NodeBlockForItem(path collection.IndexPath) collection.NodeBlock
	// SizeRangeForItem returns the range the row is measured against.
	SizeRangeForItem(path collection.IndexPath) rendering.SizeRange
}

// SupplementarySource is implemented by data sources with supplementary
// elements such as section headers and footers.
type SupplementarySource interface {
	// SupplementaryKinds returns the kinds present in any of sections.
	SupplementaryKinds(sections []int) []string
	NumberOfSupplementaryElements(kind string, section int) int
	NodeBlockForSupplementary(kind string, path collection.IndexPath) collection.NodeBlock
	SizeRangeForSupplementary(kind string, path collection.IndexPath) rendering.SizeRange
}

// SectionContextSource is implemented by data sources that attach opaque
// context to sections.
type SectionContextSource interface {
	ContextForSection(section int) any
}

// ExtentSource is implemented by data sources that know the on-screen size
// of rows. It is only consulted by RelayoutAll.
type ExtentSource interface {
	CurrentExtentForItem(path collection.IndexPath) (rendering.Size, bool)
}

// Capabilities records which optional interfaces a data source implements.
type Capabilities uint8

const (
	// CapSupplementary marks a SupplementarySource.
	CapSupplementary Capabilities = 1 << iota
	// CapSectionContext marks a SectionContextSource.
	CapSectionContext
	// CapExtent marks an ExtentSource.
	CapExtent
)

// ProbeCapabilities checks src against every optional interface once.
func ProbeCapabilities(src DataSource) Capabilities {
	var caps Capabilities
	if _, ok := src.(SupplementarySource); ok {
		caps |= CapSupplementary
	}
	if _, ok := src.(SectionContextSource); ok {
		caps |= CapSectionContext
	}
	if _, ok := src.(ExtentSource); ok {
		caps |= CapExtent
	}
	return caps
}

// Has reports whether every flag in f is set.
func (c Capabilities) Has(f Capabilities) bool {
	return c&f == f
}

func (c Capabilities) String() string {
	var names []string
	if c.Has(CapSupplementary) {
		names = append(names, "supplementary")
	}
	if c.Has(CapSectionContext) {
		names = append(names, "section_context")
	}
	if c.Has(CapExtent) {
		names = append(names, "extent")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ChangeSet is a validated-on-demand batch of deltas. *changeset.ChangeSet
// implements it.
type ChangeSet interface {
	IncludesReload() bool
	Validate(oldCounts, newCounts []int) (changeset.Delta, error)
	// Complete is called once, after publication or when the change-set
	// is dropped.
	Complete(finished bool)
}

// Delegate observes publication. Both methods run on the interactive thread.
type Delegate interface {
	// WillPublish is called before the visible snapshot is replaced.
	WillPublish(cs ChangeSet)
	// DidPublish is called after the visible snapshot is replaced.
	DidPublish(cs ChangeSet)
}

// sourceRef pairs a data source with its probed capabilities so both are
// swapped together.
type sourceRef struct {
	src  DataSource
	caps Capabilities
}

func (r *sourceRef) supplementary() SupplementarySource {
	if !r.caps.Has(CapSupplementary) {
		return nil
	}
	return r.src.(SupplementarySource)
}

var _ ChangeSet = (*changeset.ChangeSet)(nil)
