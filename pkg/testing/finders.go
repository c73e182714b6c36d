package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/datacontroller/pkg/collection"
	"github.com/go-drift/datacontroller/pkg/layout"
	"github.com/go-drift/datacontroller/pkg/textsource"
)

// Match is an element found in a snapshot.
type Match struct {
	Location collection.Location
	Element  *collection.Element
}

// Finder locates elements in a snapshot.
type Finder interface {
	// Evaluate returns all matching elements in the snapshot's All order.
	Evaluate(m *collection.ElementMap) []Match
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	matches []Match
	finder  Finder
}

// FindIn evaluates finder against m.
func FindIn(m *collection.ElementMap, finder Finder) FinderResult {
	if m == nil {
		return FinderResult{finder: finder}
	}
	return FinderResult{matches: finder.Evaluate(m), finder: finder}
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() Match {
	if len(r.matches) == 0 {
		panic(fmt.Sprintf("Finder found no elements: %s", r.describe()))
	}
	return r.matches[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) Match {
	if index < 0 || index >= len(r.matches) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.matches), r.describe()))
	}
	return r.matches[index]
}

// All returns all matches.
func (r FinderResult) All() []Match {
	return r.matches
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.matches)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.matches) > 0
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// --- Concrete finders ---

type predicateFinder struct {
	desc  string
	match func(collection.Location, *collection.Element) bool
}

func (f *predicateFinder) Evaluate(m *collection.ElementMap) []Match {
	var out []Match
	for loc, e := range m.All() {
		if f.match(loc, e) {
			out = append(out, Match{Location: loc, Element: e})
		}
	}
	return out
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByText matches elements whose node is a text node with exactly text.
// It materializes nodes that have not been laid out yet.
func ByText(text string) Finder {
	return &predicateFinder{
		desc:  fmt.Sprintf("ByText(%q)", text),
		match: func(_ collection.Location, e *collection.Element) bool { return TextOf(e) == text },
	}
}

// ByTextContaining matches text nodes containing substr.
func ByTextContaining(substr string) Finder {
	return &predicateFinder{
		desc: fmt.Sprintf("ByTextContaining(%q)", substr),
		match: func(_ collection.Location, e *collection.Element) bool {
			n, ok := e.Node().(*layout.TextNode)
			return ok && strings.Contains(n.Text, substr)
		},
	}
}

// ByKind matches elements of a kind; collection.RowKind matches rows.
func ByKind(kind string) Finder {
	return &predicateFinder{
		desc:  fmt.Sprintf("ByKind(%q)", kind),
		match: func(loc collection.Location, _ *collection.Element) bool { return loc.Kind == kind },
	}
}

// BySection matches every element of a section.
func BySection(section int) Finder {
	return &predicateFinder{
		desc:  fmt.Sprintf("BySection(%d)", section),
		match: func(loc collection.Location, _ *collection.Element) bool { return loc.IndexPath.Section == section },
	}
}

// TextOf returns the text of e's node, or "" if it is not a text node.
func TextOf(e *collection.Element) string {
	return textsource.TextOf(e)
}
