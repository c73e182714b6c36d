package textsource

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/go-drift/datacontroller/pkg/collection"
	"github.com/go-drift/datacontroller/pkg/datacontroller"
	"github.com/go-drift/datacontroller/pkg/layout"
	"github.com/go-drift/datacontroller/pkg/rendering"
)

const (
	// KindHeader is the supplementary kind produced for SectionData.Header.
	KindHeader = "header"
	// DefaultWidth is the width rows are constrained to.
	DefaultWidth = 320
	// MissingContent is an item text whose node block yields nil.
	MissingContent = "\x00missing"
)

// SectionData describes one section of a Source.
type SectionData struct {
	// Context is returned by ContextForSection.
	Context any
	// Header, when non-empty, produces one KindHeader element.
	Header string
	// Items are the row texts.
	Items []string
}

// Section returns a section with the given row texts.
func Section(items ...string) SectionData {
	return SectionData{Items: items}
}

// Source is a scriptable, thread-safe data source. Rows are text nodes; the
// text is captured when the node block is created.
//
// Source implements DataSource, SupplementarySource and SectionContextSource.
// Use Plain or WithExtents for other capability sets.
type Source struct {
	mu       sync.Mutex
	sections []SectionData
	width    float64
	calls    atomic.Int64
}

// New returns a source holding sections.
func New(sections ...SectionData) *Source {
	return &Source{sections: cloneSections(sections), width: DefaultWidth}
}

// SetSections replaces all sections.
func (s *Source) SetSections(sections ...SectionData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = cloneSections(sections)
}

// SetWidth changes the width rows are constrained to.
func (s *Source) SetWidth(width float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
}

// InsertSection inserts a section at index.
func (s *Source) InsertSection(at int, data SectionData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = slices.Insert(s.sections, at, cloneSection(data))
}

// DeleteSection removes the section at index.
func (s *Source) DeleteSection(at int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = slices.Delete(s.sections, at, at+1)
}

// InsertItem inserts a row.
func (s *Source) InsertItem(path collection.IndexPath, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec := &s.sections[path.Section]
	sec.Items = slices.Insert(sec.Items, path.Item, text)
}

// DeleteItem removes a row.
func (s *Source) DeleteItem(path collection.IndexPath) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec := &s.sections[path.Section]
	sec.Items = slices.Delete(sec.Items, path.Item, path.Item+1)
}

// SetHeader changes the header text of a section.
func (s *Source) SetHeader(section int, header string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections[section].Header = header
}

// NodeBlockCalls returns how many nodes have been materialized.
func (s *Source) NodeBlockCalls() int64 {
	return s.calls.Load()
}

// NumberOfSections implements datacontroller.DataSource.
func (s *Source) NumberOfSections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sections)
}

// NumberOfItems implements datacontroller.DataSource.
func (s *Source) NumberOfItems(section int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sections[section].Items)
}

// NodeBlockForItem implements datacontroller.DataSource.
func (s *Source) NodeBlockForItem(path collection.IndexPath) collection.NodeBlock {
	s.mu.Lock()
	text := s.sections[path.Section].Items[path.Item]
	s.mu.Unlock()
	return s.textBlock(text)
}

// SizeRangeForItem implements datacontroller.DataSource.
func (s *Source) SizeRangeForItem(collection.IndexPath) rendering.SizeRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rendering.UnconstrainedHeight(s.width)
}

// SupplementaryKinds implements datacontroller.SupplementarySource.
func (s *Source) SupplementaryKinds(sections []int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sec := range sections {
		if sec < len(s.sections) && s.sections[sec].Header != "" {
			return []string{KindHeader}
		}
	}
	return nil
}

// NumberOfSupplementaryElements implements datacontroller.SupplementarySource.
func (s *Source) NumberOfSupplementaryElements(kind string, section int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind != KindHeader || s.sections[section].Header == "" {
		return 0
	}
	return 1
}

// NodeBlockForSupplementary implements datacontroller.SupplementarySource.
func (s *Source) NodeBlockForSupplementary(_ string, path collection.IndexPath) collection.NodeBlock {
	s.mu.Lock()
	text := s.sections[path.Section].Header
	s.mu.Unlock()
	return s.textBlock(text)
}

// SizeRangeForSupplementary implements datacontroller.SupplementarySource.
func (s *Source) SizeRangeForSupplementary(string, collection.IndexPath) rendering.SizeRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rendering.UnconstrainedHeight(s.width)
}

// ContextForSection implements datacontroller.SectionContextSource.
func (s *Source) ContextForSection(section int) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sections[section].Context
}

// TextOf returns the text of e's node, or "" if it is not a text node.
// It materializes the node.
func TextOf(e *collection.Element) string {
	if n, ok := e.Node().(*layout.TextNode); ok {
		return n.Text
	}
	return ""
}

func (s *Source) textBlock(text string) collection.NodeBlock {
	return func() layout.Node {
		s.calls.Add(1)
		if text == MissingContent {
			return nil
		}
		return layout.NewTextNode(text)
	}
}

// Plain returns a view of s that only implements datacontroller.DataSource.
func (s *Source) Plain() datacontroller.DataSource {
	return plainSource{s}
}

type plainSource struct {
	s *Source
}

func (p plainSource) NumberOfSections() int          { return p.s.NumberOfSections() }
func (p plainSource) NumberOfItems(section int) int { return p.s.NumberOfItems(section) }
func (p plainSource) NodeBlockForItem(path collection.IndexPath) collection.NodeBlock {
	return p.s.NodeBlockForItem(path)
}
func (p plainSource) SizeRangeForItem(path collection.IndexPath) rendering.SizeRange {
	return p.s.SizeRangeForItem(path)
}

// ExtentSource is a Source that also reports on-screen extents.
type ExtentSource struct {
	*Source

	mu      sync.Mutex
	extents map[collection.IndexPath]rendering.Size
}

// WithExtents wraps s with an empty extent table.
func (s *Source) WithExtents() *ExtentSource {
	return &ExtentSource{Source: s, extents: map[collection.IndexPath]rendering.Size{}}
}

// SetExtent records the on-screen size of a row.
func (e *ExtentSource) SetExtent(path collection.IndexPath, size rendering.Size) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.extents[path] = size
}

// CurrentExtentForItem implements datacontroller.ExtentSource.
func (e *ExtentSource) CurrentExtentForItem(path collection.IndexPath) (rendering.Size, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	size, ok := e.extents[path]
	return size, ok
}

func cloneSections(sections []SectionData) []SectionData {
	out := make([]SectionData, len(sections))
	for i, sec := range sections {
		out[i] = cloneSection(sec)
	}
	return out
}

func cloneSection(sec SectionData) SectionData {
	sec.Items = slices.Clone(sec.Items)
	return sec
}

var (
	_ datacontroller.SupplementarySource  = (*Source)(nil)
	_ datacontroller.SectionContextSource = (*Source)(nil)
	_ datacontroller.ExtentSource         = (*ExtentSource)(nil)
)
