package textsource

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/datacontroller/pkg/collection"
)

// UpdateSnapshotsEnv, when set to 1, makes MatchesFile rewrite golden files.
const UpdateSnapshotsEnv = "DC_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the structure and measured sizes of an element map.
// Section ids and element identities are left out; they are covered by
// identity assertions, not golden files.
type Snapshot struct {
	Version  uint64            `yaml:"version"`
	Sections []SectionSnapshot `yaml:"sections"`
}

// SectionSnapshot is one section of a Snapshot.
type SectionSnapshot struct {
	Context       string                       `yaml:"context,omitempty"`
	Items         []ElementSnapshot            `yaml:"items,omitempty"`
	Supplementary map[string][]ElementSnapshot `yaml:"supplementary,omitempty"`
}

// ElementSnapshot is one element of a Snapshot.
type ElementSnapshot struct {
	Text        string     `yaml:"text,omitempty"`
	Size        [2]float64 `yaml:"size,flow"`
	Placeholder bool       `yaml:"placeholder,omitempty"`
	Unmeasured  bool       `yaml:"unmeasured,omitempty"`
}

// Capture records m. It does not materialize nodes.
func Capture(m *collection.ElementMap) *Snapshot {
	snap := &Snapshot{Version: m.Version()}
	for s, sec := range m.Sections() {
		ss := SectionSnapshot{}
		if sec.Context != nil {
			ss.Context = fmt.Sprint(sec.Context)
		}
		for i := range m.NumberOfItems(s) {
			e, _ := m.Element(collection.IndexPath{Section: s, Item: i})
			ss.Items = append(ss.Items, captureElement(e))
		}
		for _, kind := range m.SupplementaryKinds() {
			n := m.SupplementaryCount(kind, s)
			for i := range n {
				e, ok := m.SupplementaryElement(kind, collection.IndexPath{Section: s, Item: i})
				if !ok {
					continue
				}
				if ss.Supplementary == nil {
					ss.Supplementary = map[string][]ElementSnapshot{}
				}
				ss.Supplementary[kind] = append(ss.Supplementary[kind], captureElement(e))
			}
		}
		snap.Sections = append(snap.Sections, ss)
	}
	return snap
}

func captureElement(e *collection.Element) ElementSnapshot {
	out := ElementSnapshot{Placeholder: e.IsPlaceholder()}
	if n := e.NodeIfAllocated(); n != nil {
		out.Text = TextOf(e)
	}
	if size, ok := e.CachedSize(); ok {
		out.Size = [2]float64{round2(size.Width), round2(size.Height)}
	} else {
		out.Unmeasured = true
	}
	return out
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When DC_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Marshal encodes the snapshot as YAML.
func (s *Snapshot) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Diff returns a line diff between this snapshot and other. Returns
// empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := s.Marshal()
	b, _ := other.Marshal()
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot YAML: %w", err)
	}
	return &snap, nil
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

// unifiedDiff produces a simple line-oriented diff.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	for i := range max(len(expectedLines), len(actualLines)) {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e != a {
			if i < len(expectedLines) {
				fmt.Fprintf(&buf, "-%s\n", e)
			}
			if i < len(actualLines) {
				fmt.Fprintf(&buf, "+%s\n", a)
			}
		}
	}

	return buf.String()
}
