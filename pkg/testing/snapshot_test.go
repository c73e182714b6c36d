package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-drift/datacontroller/pkg/changeset"
	"github.com/go-drift/datacontroller/pkg/collection"
	"github.com/go-drift/datacontroller/pkg/datacontroller"
)

func TestCaptureSnapshot_Structure(t *testing.T) {
	tester := loaded(t,
		SectionData{Context: "ctx", Header: "Title", Items: []string{"one", "two"}},
		Section("three"),
	)

	snap := tester.CaptureSnapshot()
	if len(snap.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(snap.Sections))
	}
	first := snap.Sections[0]
	if first.Context != "ctx" {
		t.Errorf("expected context 'ctx', got %q", first.Context)
	}
	if len(first.Items) != 2 || first.Items[1].Text != "two" {
		t.Errorf("unexpected items %+v", first.Items)
	}
	if len(first.Supplementary[KindHeader]) != 1 {
		t.Errorf("expected one header, got %+v", first.Supplementary)
	}
	if first.Items[0].Unmeasured {
		t.Error("expected rows to be measured after drain")
	}
	// basicfont: 13pt line height.
	if first.Items[0].Size != [2]float64{DefaultWidth, 13} {
		t.Errorf("unexpected size %v", first.Items[0].Size)
	}
}

func TestSnapshot_Diff_Equal(t *testing.T) {
	tester := loaded(t, Section("a"))

	a := tester.CaptureSnapshot()
	b := tester.CaptureSnapshot()

	if diff := a.Diff(b); diff != "" {
		t.Errorf("expected no diff for identical snapshots, got:\n%s", diff)
	}
}

func TestSnapshot_Diff_Different(t *testing.T) {
	src := NewSource(Section("a"))
	tester := NewControllerTesterWithT(t, src, datacontroller.Options{})
	tester.SubmitAndDrain(changeset.Reload())
	a := tester.CaptureSnapshot()

	src.InsertItem(collection.IndexPath{Section: 0, Item: 1}, "b")
	tester.SubmitAndDrain(changeset.New().InsertItems(collection.IndexPath{Section: 0, Item: 1}))
	b := tester.CaptureSnapshot()

	diff := a.Diff(b)
	if diff == "" {
		t.Fatal("expected diff for different snapshots")
	}
	if !strings.Contains(diff, "text: b") {
		t.Errorf("expected diff to mention new row, got:\n%s", diff)
	}
}

func TestSnapshot_UpdateAndMatch(t *testing.T) {
	tester := loaded(t, Section("x", "y"))
	snap := tester.CaptureSnapshot()

	path := filepath.Join(t.TempDir(), "snapshots", "list.yaml")
	if err := snap.UpdateFile(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected snapshot file: %v", err)
	}

	snap.MatchesFile(t, path)
}

func TestSnapshot_MatchesFile_Missing(t *testing.T) {
	tester := loaded(t, Section("x"))
	snap := tester.CaptureSnapshot()

	ft := &fakeT{name: "TestMissing"}
	snap.MatchesFile(ft, filepath.Join(t.TempDir(), "absent.yaml"))
	if !ft.fatal || !strings.Contains(ft.msg, UpdateSnapshotsEnv) {
		t.Errorf("expected fatal with update instructions, got %q", ft.msg)
	}
}

func TestSnapshot_MatchesFile_Mismatch(t *testing.T) {
	tester := loaded(t, Section("x"))
	path := filepath.Join(t.TempDir(), "list.yaml")
	if err := tester.CaptureSnapshot().UpdateFile(path); err != nil {
		t.Fatal(err)
	}

	other := loaded(t, Section("x", "z")).CaptureSnapshot()
	ft := &fakeT{name: "TestMismatch"}
	other.MatchesFile(ft, path)
	if !ft.failed || !strings.Contains(ft.msg, "--- expected") {
		t.Errorf("expected diff failure, got %q", ft.msg)
	}
}

type fakeT struct {
	name   string
	msg    string
	fatal  bool
	failed bool
}

func (f *fakeT) Helper() {}
func (f *fakeT) Name() string { return f.name }
func (f *fakeT) Fatalf(format string, args ...any) {
	f.fatal = true
	f.msg = fmt.Sprintf(format, args...)
}
func (f *fakeT) Errorf(format string, args ...any) {
	f.failed = true
	f.msg = fmt.Sprintf(format, args...)
}
