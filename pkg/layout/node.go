// Package layout measures list elements off the interactive thread.
//
// A Node is the measurable content behind an element. The Engine takes a
// batch of Measurables, materializes their nodes and measures each one
// against its size range with bounded parallelism.
package layout

import "github.com/go-drift/datacontroller/pkg/rendering"

// Node is measurable content. Measure must be safe to call from any
// goroutine, but is never called concurrently for the same node.
type Node interface {
	Measure(r rendering.SizeRange) rendering.Size
}

// EmptyNode is the placeholder substituted when a node block yields nothing.
// It takes the smallest size the range allows.
type EmptyNode struct{}

// Measure returns r.Min.
func (EmptyNode) Measure(r rendering.SizeRange) rendering.Size {
	return r.Constrain(rendering.SizeZero)
}

// FixedNode has a preferred size that is clamped into the range.
type FixedNode struct {
	Size rendering.Size
}

// Measure returns the preferred size constrained to r.
func (n FixedNode) Measure(r rendering.SizeRange) rendering.Size {
	return r.Constrain(n.Size)
}

// NodeFunc adapts a function to the Node interface.
type NodeFunc func(r rendering.SizeRange) rendering.Size

// Measure calls f(r).
func (f NodeFunc) Measure(r rendering.SizeRange) rendering.Size {
	return f(r)
}

// Measurable is a unit of layout work.
type Measurable interface {
	// SizeRange is the range the node is measured against.
	SizeRange() rendering.SizeRange
	// Node materializes the node if needed and returns it. Never nil.
	Node() Node
	// CachedSize returns the measurement for the current size range, if any.
	CachedSize() (rendering.Size, bool)
	// StoreLayout records a measurement taken against r.
	StoreLayout(r rendering.SizeRange, size rendering.Size)
}
