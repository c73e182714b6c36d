package datacontroller

import (
	"context"

	"github.com/go-drift/datacontroller/pkg/collection"
	"github.com/go-drift/datacontroller/pkg/layout"
	"github.com/go-drift/datacontroller/pkg/rendering"
)

// RelayoutAll re-fetches the size range of every visible element and
// re-measures those whose range changed, without any structural update. It
// settles pending transactions first.
//
// It returns the rows whose size changed. When the data source is an
// ExtentSource the new size is compared with the row's on-screen extent,
// otherwise with its previous measurement. Elements whose new range has no
// area keep their old range.
func (c *Controller) RelayoutAll() []collection.IndexPath {
	c.DrainPending()
	ref := c.source.Load()
	if ref == nil {
		return nil
	}

	var (
		items    []layout.Measurable
		rows     []collection.IndexPath
		previous []rendering.Size
	)
	for loc, e := range c.visible.All() {
		r := sizeRangeFor(ref, loc)
		if !r.HasSignificantArea() {
			continue
		}
		prev := e.Size()
		if !e.SetSizeRange(r) && !e.NeedsLayout() {
			continue
		}
		if loc.Kind == collection.RowKind {
			rows = append(rows, loc.IndexPath)
			previous = append(previous, prev)
		} else {
			rows = append(rows, collection.IndexPath{Section: -1})
			previous = append(previous, rendering.SizeZero)
		}
		items = append(items, e)
	}

	results := c.engine.Run(context.Background(), items, c.alive)
	var ext ExtentSource
	if ref.caps.Has(CapExtent) {
		ext = ref.src.(ExtentSource)
	}
	var changed []collection.IndexPath
	for _, res := range results {
		p := rows[res.Index]
		if p.Section < 0 {
			continue
		}
		old := previous[res.Index]
		if ext != nil {
			if extent, ok := ext.CurrentExtentForItem(p); ok {
				old = extent
			}
		}
		if !old.Equal(res.Size) {
			changed = append(changed, p)
		}
	}
	return changed
}

func sizeRangeFor(ref *sourceRef, loc collection.Location) rendering.SizeRange {
	if loc.Kind == collection.RowKind {
		return ref.src.SizeRangeForItem(loc.IndexPath)
	}
	if sup := ref.supplementary(); sup != nil {
		return sup.SizeRangeForSupplementary(loc.Kind, loc.IndexPath)
	}
	return rendering.SizeRange{}
}
