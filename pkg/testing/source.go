package testing

import (
	"github.com/go-drift/datacontroller/pkg/textsource"
)

// Source is the scriptable text data source. See textsource.Source.
type Source = textsource.Source

// SectionData describes one section of a Source.
type SectionData = textsource.SectionData

// ExtentSource is a Source that also reports on-screen extents.
type ExtentSource = textsource.ExtentSource

// Re-exported textsource constants.
const (
	KindHeader     = textsource.KindHeader
	DefaultWidth   = textsource.DefaultWidth
	MissingContent = textsource.MissingContent
)

// NewSource returns a source holding sections.
func NewSource(sections ...SectionData) *Source {
	return textsource.New(sections...)
}

// Section returns a section with the given row texts.
func Section(items ...string) SectionData {
	return textsource.Section(items...)
}
