package collection

// Section is an ordered group of rows with a stable identity.
type Section struct {
	// ID is assigned when the section is inserted and never reused until a
	// full reload.
	ID int
	// Context is opaque data supplied by the data source. May be nil.
	Context any
}

// NewSection returns a section.
func NewSection(id int, context any) *Section {
	return &Section{ID: id, Context: context}
}
