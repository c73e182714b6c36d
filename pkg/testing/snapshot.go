package testing

import (
	"github.com/go-drift/datacontroller/pkg/collection"
	"github.com/go-drift/datacontroller/pkg/textsource"
)

// UpdateSnapshotsEnv, when set to 1, makes MatchesFile rewrite golden files.
const UpdateSnapshotsEnv = textsource.UpdateSnapshotsEnv

type (
	// Snapshot captures the structure and measured sizes of an element map.
	Snapshot = textsource.Snapshot
	// SectionSnapshot is one section of a Snapshot.
	SectionSnapshot = textsource.SectionSnapshot
	// ElementSnapshot is one element of a Snapshot.
	ElementSnapshot = textsource.ElementSnapshot
	// TestingT is the subset of *testing.T used by Snapshot.MatchesFile.
	TestingT = textsource.TestingT
)

// CaptureSnapshot captures m. It does not materialize nodes.
func CaptureSnapshot(m *collection.ElementMap) *Snapshot {
	return textsource.Capture(m)
}

// CaptureSnapshot captures the visible snapshot.
func (t *ControllerTester) CaptureSnapshot() *Snapshot {
	return CaptureSnapshot(t.Visible())
}
