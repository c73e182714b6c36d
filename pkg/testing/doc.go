// Package testing provides test doubles and a harness for the data controller.
//
// # Quick Start
//
// Create a source, a tester, submit change-sets and inspect the visible
// snapshot:
//
//	func TestFeed(t *testing.T) {
//	    src := dctest.NewSource(dctest.Section("a", "b"), dctest.Section("c"))
//	    tester := dctest.NewControllerTesterWithT(t, src, datacontroller.Options{})
//	    tester.SubmitAndDrain(changeset.Reload())
//
//	    if !tester.Find(dctest.ByText("b")).Exists() {
//	        t.Error("expected row b")
//	    }
//	}
//
// The tester owns a platform.RunLoop that stands in for the interactive
// thread; every controller call it makes is marshalled onto that loop.
//
// # Snapshots
//
// CaptureSnapshot records the structure and measured sizes of a snapshot as
// YAML. MatchesFile compares it with a golden file; run the tests with
// DC_UPDATE_SNAPSHOTS=1 to rewrite the files.
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import dctest "github.com/go-drift/datacontroller/pkg/testing"
package testing
