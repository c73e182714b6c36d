package collection

import (
	stderrors "errors"
	"sync"

	"github.com/go-drift/datacontroller/pkg/errors"
	"github.com/go-drift/datacontroller/pkg/layout"
	"github.com/go-drift/datacontroller/pkg/rendering"
)

// RowKind is the kind of primary row elements.
const RowKind = ""

// NodeBlock produces the node for an element. It is called at most once,
// from the layout engine's workers.
type NodeBlock func() layout.Node

var errNilNode = stderrors.New("node block returned nil")

// Element is a measurable unit of content, compared by reference.
//
// The node and its cached layout are filled in lazily during layout. The
// kind is fixed at construction; everything else is guarded by mu.
type Element struct {
	kind string

	mu          sync.Mutex
	nodeBlock   NodeBlock
	node        layout.Node
	placeholder bool
	sizeRange   rendering.SizeRange
	measured    rendering.Size
	hasLayout   bool
}

// NewElement returns an element. kind is RowKind for rows or the name of a
// supplementary kind.
func NewElement(block NodeBlock, sizeRange rendering.SizeRange, kind string) *Element {
	return &Element{
		kind:      kind,
		nodeBlock: block,
		sizeRange: sizeRange,
	}
}

// Kind returns RowKind or the supplementary kind name.
func (e *Element) Kind() string {
	return e.kind
}

// IsSupplementary reports whether the element is a supplementary decoration.
func (e *Element) IsSupplementary() bool {
	return e.kind != RowKind
}

// SizeRange returns the range the element is measured against.
func (e *Element) SizeRange() rendering.SizeRange {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sizeRange
}

// SetSizeRange replaces the size range. A different range drops the cached
// layout. Returns true if the range changed.
func (e *Element) SetSizeRange(r rendering.SizeRange) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sizeRange.Equal(r) {
		return false
	}
	e.sizeRange = r
	e.hasLayout = false
	e.measured = rendering.SizeZero
	return true
}

// Node materializes the node on first use. A missing node block, or one
// that yields nil, is replaced by layout.EmptyNode.
func (e *Element) Node() layout.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.node != nil {
		return e.node
	}
	var n layout.Node
	if e.nodeBlock != nil {
		n = e.nodeBlock()
	}
	e.nodeBlock = nil
	if n == nil {
		errors.Report(&errors.ControllerError{
			Op:   "collection.Element.Node",
			Kind: errors.KindMissingContent,
			Err:  errNilNode,
		})
		n = layout.EmptyNode{}
		e.placeholder = true
	}
	e.node = n
	return n
}

// NodeIfAllocated returns the node without materializing it.
func (e *Element) NodeIfAllocated() layout.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.node
}

// IsPlaceholder reports whether the node was substituted for missing content.
func (e *Element) IsPlaceholder() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.placeholder
}

// CachedSize returns the measured size if it was taken against the current
// size range.
func (e *Element) CachedSize() (rendering.Size, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasLayout {
		return rendering.SizeZero, false
	}
	return e.measured, true
}

// StoreLayout records a measurement. It is ignored if the size range has
// changed since r was read.
func (e *Element) StoreLayout(r rendering.SizeRange, size rendering.Size) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.sizeRange.Equal(r) {
		return
	}
	e.measured = size
	e.hasLayout = true
}

// NeedsLayout reports whether the element has no node or no measurement
// for its current size range. Elements whose range has no area only need a
// node.
func (e *Element) NeedsLayout() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.node == nil {
		return true
	}
	return !e.hasLayout && e.sizeRange.HasSignificantArea()
}

// Size returns the last measured size, zero if never measured.
func (e *Element) Size() rendering.Size {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.measured
}

var _ layout.Measurable = (*Element)(nil)
