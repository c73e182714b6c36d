// Package changeset records section and item deltas for a list update and
// validates them against the data source's counts.
//
// A ChangeSet only records what the caller states. It does not diff.
package changeset

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-drift/datacontroller/pkg/collection"
	"github.com/go-drift/datacontroller/pkg/errors"
)

// ChangeSet is a batch of deltas applied as one transaction.
// Build it on the interactive thread before submitting it.
type ChangeSet struct {
	reload         bool
	deleteSections []int
	insertSections []int
	deleteItems    []collection.IndexPath
	insertItems    []collection.IndexPath

	completeOnce sync.Once
	completion   func(finished bool)
}

// New returns an empty change-set.
func New() *ChangeSet {
	return &ChangeSet{}
}

// Reload returns a change-set that replaces all data.
func Reload() *ChangeSet {
	return New().ReloadData()
}

// ReloadData marks the change-set as a full reload.
func (c *ChangeSet) ReloadData() *ChangeSet {
	c.reload = true
	return c
}

// DeleteSections records section deletions in before-update coordinates.
func (c *ChangeSet) DeleteSections(sections ...int) *ChangeSet {
	c.deleteSections = append(c.deleteSections, sections...)
	return c
}

// InsertSections records section insertions in after-update coordinates.
func (c *ChangeSet) InsertSections(sections ...int) *ChangeSet {
	c.insertSections = append(c.insertSections, sections...)
	return c
}

// DeleteItems records item deletions in before-update coordinates.
func (c *ChangeSet) DeleteItems(paths ...collection.IndexPath) *ChangeSet {
	c.deleteItems = append(c.deleteItems, paths...)
	return c
}

// InsertItems records item insertions in after-update coordinates. An
// insertion past the end of its section appends.
func (c *ChangeSet) InsertItems(paths ...collection.IndexPath) *ChangeSet {
	c.insertItems = append(c.insertItems, paths...)
	return c
}

// OnComplete sets a callback run once the change-set has been published,
// or immediately if it was dropped.
func (c *ChangeSet) OnComplete(fn func(finished bool)) *ChangeSet {
	c.completion = fn
	return c
}

// IncludesReload reports whether the change-set is a full reload.
func (c *ChangeSet) IncludesReload() bool {
	return c.reload
}

// Complete runs the completion callback. Only the first call has an effect.
func (c *ChangeSet) Complete(finished bool) {
	c.completeOnce.Do(func() {
		if c.completion != nil {
			c.completion(finished)
		}
	})
}

// Validate checks the recorded deltas against the item counts before and
// after the update and returns the normalized delta.
func (c *ChangeSet) Validate(oldCounts, newCounts []int) (Delta, error) {
	hasDeltas := len(c.deleteSections)+len(c.insertSections)+len(c.deleteItems)+len(c.insertItems) > 0
	if c.reload {
		if hasDeltas {
			return Delta{}, errors.Invalidf("a reload cannot be combined with incremental changes")
		}
		return Delta{Reload: true, OldCounts: slices.Clone(oldCounts), NewCounts: slices.Clone(newCounts)}, nil
	}

	d := Delta{
		DeletedSections:  collection.SortIndexes(c.deleteSections),
		InsertedSections: collection.SortIndexes(c.insertSections),
		OldCounts:        slices.Clone(oldCounts),
		NewCounts:        slices.Clone(newCounts),
	}
	for _, s := range d.DeletedSections {
		if s < 0 || s >= len(oldCounts) {
			return Delta{}, errors.Invalidf("deleting section %d but there are %d sections before the update", s, len(oldCounts))
		}
	}
	for _, s := range d.InsertedSections {
		if s < 0 || s >= len(newCounts) {
			return Delta{}, errors.Invalidf("inserting section %d but there are %d sections after the update", s, len(newCounts))
		}
	}
	if want := len(oldCounts) - len(d.DeletedSections) + len(d.InsertedSections); want != len(newCounts) {
		return Delta{}, errors.Invalidf(
			"the number of sections after the update (%d) must equal the number before (%d), minus %d deleted, plus %d inserted",
			len(newCounts), len(oldCounts), len(d.DeletedSections), len(d.InsertedSections))
	}

	deletesPerSection := map[int]int{}
	for _, p := range collection.SortIndexPaths(c.deleteItems) {
		if p.Section < 0 || p.Section >= len(oldCounts) || p.Item < 0 || p.Item >= oldCounts[p.Section] {
			return Delta{}, errors.Invalidf("deleting item %v which does not exist before the update", p)
		}
		if _, found := slices.BinarySearch(d.DeletedSections, p.Section); found {
			continue
		}
		d.DeletedItems = append(d.DeletedItems, p)
		deletesPerSection[p.Section]++
	}

	insertsPerSection := map[int]int{}
	for _, p := range collection.SortIndexPaths(c.insertItems) {
		if p.Section < 0 || p.Section >= len(newCounts) || p.Item < 0 {
			return Delta{}, errors.Invalidf("inserting item %v which does not exist after the update", p)
		}
		if _, found := slices.BinarySearch(d.InsertedSections, p.Section); found {
			continue
		}
		d.InsertedItems = append(d.InsertedItems, p)
		insertsPerSection[p.Section]++
	}

	for old := range oldCounts {
		n, ok := d.NewSection(old)
		if !ok {
			continue
		}
		want := oldCounts[old] - deletesPerSection[old] + insertsPerSection[n]
		if newCounts[n] != want {
			return Delta{}, errors.Invalidf(
				"the number of items in section %d after the update (%d) must equal the number in section %d before (%d), minus %d deleted, plus %d inserted",
				n, newCounts[n], old, oldCounts[old], deletesPerSection[old], insertsPerSection[n])
		}
	}
	return d, nil
}

func (c *ChangeSet) String() string {
	if c.reload {
		return "ChangeSet{reload}"
	}
	var parts []string
	add := func(name string, n int) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", name, n))
		}
	}
	add("deleteSections", len(c.deleteSections))
	add("insertSections", len(c.insertSections))
	add("deleteItems", len(c.deleteItems))
	add("insertItems", len(c.insertItems))
	return "ChangeSet{" + strings.Join(parts, " ") + "}"
}
