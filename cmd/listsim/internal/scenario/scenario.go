// Package scenario loads and runs scripted list updates.
//
// A scenario is a YAML document with an initial set of sections and a list
// of steps. The initial sections are loaded with a full reload; every step
// mutates the simulated data source and submits the matching change-set:
//
//	name: feed
//	sections:
//	  - header: Fruit
//	    items: [apple, banana]
//	steps:
//	  - name: add cherry
//	    insert_items: [{section: 0, item: 2, text: cherry}]
//	  - delete_sections: [0]
//	  - width: 120
package scenario

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/datacontroller/pkg/changeset"
	"github.com/go-drift/datacontroller/pkg/collection"
	"github.com/go-drift/datacontroller/pkg/textsource"
)

// Scenario is a scripted sequence of updates.
type Scenario struct {
	Name     string    `yaml:"name"`
	Sections []Section `yaml:"sections"`
	Steps    []Step    `yaml:"steps"`
}

// Section is the content of one section.
type Section struct {
	Context string   `yaml:"context,omitempty"`
	Header  string   `yaml:"header,omitempty"`
	Items   []string `yaml:"items,omitempty"`
}

// Item is a row inserted by a step.
type Item struct {
	Section int    `yaml:"section"`
	Item    int    `yaml:"item"`
	Text    string `yaml:"text"`
}

// Path addresses a row deleted by a step.
type Path struct {
	Section int `yaml:"section"`
	Item    int `yaml:"item"`
}

// InsertedSection is a section inserted by a step.
type InsertedSection struct {
	At      int `yaml:"at"`
	Section `yaml:",inline"`
}

// Step is one transaction. Deletions are in before-update coordinates,
// insertions in after-update coordinates.
type Step struct {
	Name string `yaml:"name,omitempty"`

	// Reload replaces the source with Sections and reloads.
	Reload   bool      `yaml:"reload,omitempty"`
	Sections []Section `yaml:"sections,omitempty"`

	DeleteSections []int             `yaml:"delete_sections,omitempty"`
	InsertSections []InsertedSection `yaml:"insert_sections,omitempty"`
	DeleteItems    []Path            `yaml:"delete_items,omitempty"`
	InsertItems    []Item            `yaml:"insert_items,omitempty"`

	// SetHeaders changes header texts without a structural update.
	SetHeaders map[int]string `yaml:"set_headers,omitempty"`

	// Width, when set, changes the row width and runs a relayout instead
	// of a transaction.
	Width float64 `yaml:"width,omitempty"`

	// Lie submits the change-set without mutating the source, producing
	// an invalid update.
	Lie bool `yaml:"lie,omitempty"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	for i := range sc.Steps {
		if sc.Steps[i].Name == "" {
			sc.Steps[i].Name = fmt.Sprintf("step %d", i+1)
		}
	}
	return &sc, nil
}

// IsRelayout reports whether the step is a relayout rather than a transaction.
func (s Step) IsRelayout() bool {
	return s.Width > 0
}

// ChangeSet returns the change-set the step submits.
func (s Step) ChangeSet() *changeset.ChangeSet {
	if s.Reload {
		return changeset.Reload()
	}
	cs := changeset.New()
	if len(s.DeleteSections) > 0 {
		cs.DeleteSections(s.DeleteSections...)
	}
	for _, sec := range s.InsertSections {
		cs.InsertSections(sec.At)
	}
	for _, p := range s.DeleteItems {
		cs.DeleteItems(collection.IndexPath{Section: p.Section, Item: p.Item})
	}
	for _, it := range s.InsertItems {
		cs.InsertItems(collection.IndexPath{Section: it.Section, Item: it.Item})
	}
	return cs
}

// Apply mutates src the way the step describes. Item deletions go first,
// then section deletions, both descending, then section and item
// insertions, ascending.
func (s Step) Apply(src *textsource.Source) {
	if s.Lie {
		return
	}
	for section, header := range s.SetHeaders {
		src.SetHeader(section, header)
	}
	if s.Reload {
		if s.Sections != nil {
			src.SetSections(sectionData(s.Sections)...)
		}
		return
	}

	deletes := slices.Clone(s.DeleteItems)
	slices.SortFunc(deletes, func(a, b Path) int {
		return collection.IndexPath(b).Compare(collection.IndexPath(a))
	})
	for _, p := range deletes {
		if !slices.Contains(s.DeleteSections, p.Section) {
			src.DeleteItem(collection.IndexPath(p))
		}
	}

	sections := slices.Clone(s.DeleteSections)
	slices.Sort(sections)
	for _, sec := range slices.Backward(sections) {
		src.DeleteSection(sec)
	}

	inserted := slices.Clone(s.InsertSections)
	slices.SortFunc(inserted, func(a, b InsertedSection) int { return a.At - b.At })
	for _, sec := range inserted {
		src.InsertSection(sec.At, toSectionData(sec.Section))
	}

	items := slices.Clone(s.InsertItems)
	slices.SortFunc(items, func(a, b Item) int {
		return collection.IndexPath{Section: a.Section, Item: a.Item}.Compare(collection.IndexPath{Section: b.Section, Item: b.Item})
	})
	for _, it := range items {
		p := collection.IndexPath{Section: it.Section, Item: min(it.Item, src.NumberOfItems(it.Section))}
		src.InsertItem(p, it.Text)
	}
}

func sectionData(sections []Section) []textsource.SectionData {
	out := make([]textsource.SectionData, len(sections))
	for i, s := range sections {
		out[i] = toSectionData(s)
	}
	return out
}

func toSectionData(s Section) textsource.SectionData {
	data := textsource.SectionData{Header: s.Header, Items: slices.Clone(s.Items)}
	if s.Context != "" {
		data.Context = s.Context
	}
	return data
}
