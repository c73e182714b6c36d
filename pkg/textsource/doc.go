// Package textsource is a scriptable data source whose rows and section
// headers are text nodes, plus a YAML capture of the element maps it
// produces.
//
// The listsim command plays scenarios against it, and the testing package
// builds its harness on top of it.
package textsource
