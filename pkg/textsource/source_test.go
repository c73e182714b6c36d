package textsource

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/datacontroller/pkg/collection"
	"github.com/go-drift/datacontroller/pkg/layout"
	"github.com/go-drift/datacontroller/pkg/rendering"
)

func ip(section, item int) collection.IndexPath {
	return collection.IndexPath{Section: section, Item: item}
}

func TestSourceMutations(t *testing.T) {
	src := New(SectionData{Header: "H", Items: []string{"a", "b"}}, Section("c"))

	src.InsertItem(ip(0, 1), "x")
	src.DeleteItem(ip(0, 0))
	src.InsertSection(1, Section("n"))
	src.DeleteSection(2)

	require.Equal(t, 2, src.NumberOfSections())
	assert.Equal(t, 2, src.NumberOfItems(0))
	assert.Equal(t, 1, src.NumberOfItems(1))
	assert.Equal(t, []string{KindHeader}, src.SupplementaryKinds([]int{0, 1}))
	assert.Empty(t, src.SupplementaryKinds([]int{1}))
	assert.Equal(t, 0, src.NumberOfSupplementaryElements(KindHeader, 1))
}

func TestSourceCopiesInput(t *testing.T) {
	items := []string{"a"}
	src := New(SectionData{Items: items})
	items[0] = "changed"

	e := collection.NewElement(src.NodeBlockForItem(ip(0, 0)), src.SizeRangeForItem(ip(0, 0)), collection.RowKind)
	assert.Equal(t, "a", TextOf(e))
}

func TestNodeBlockCapturesText(t *testing.T) {
	src := New(Section("before"))
	block := src.NodeBlockForItem(ip(0, 0))
	src.SetSections(Section("after"))

	n, ok := block().(*layout.TextNode)
	require.True(t, ok)
	assert.Equal(t, "before", n.Text)
	assert.Equal(t, int64(1), src.NodeBlockCalls())
}

func TestMissingContentYieldsNil(t *testing.T) {
	src := New(Section(MissingContent))
	assert.Nil(t, src.NodeBlockForItem(ip(0, 0))())
}

func TestSetWidth(t *testing.T) {
	src := New(Section("a"))
	assert.Equal(t, rendering.UnconstrainedHeight(DefaultWidth), src.SizeRangeForItem(ip(0, 0)))
	src.SetWidth(100)
	assert.Equal(t, rendering.UnconstrainedHeight(100), src.SizeRangeForItem(ip(0, 0)))
}

func TestCaptureUnmeasured(t *testing.T) {
	src := New(SectionData{Context: "ctx", Items: []string{"a"}})
	m := collection.NewMutableElementMap()
	m.InsertSection(collection.NewSection(0, src.ContextForSection(0)), 0)
	m.InsertEmptyItemSections([]int{0})
	m.InsertElement(collection.NewElement(src.NodeBlockForItem(ip(0, 0)), src.SizeRangeForItem(ip(0, 0)), collection.RowKind), ip(0, 0))
	frozen := m.Freeze(7)

	snap := Capture(frozen)
	assert.Equal(t, uint64(7), snap.Version)
	require.Len(t, snap.Sections, 1)
	assert.Equal(t, "ctx", snap.Sections[0].Context)
	require.Len(t, snap.Sections[0].Items, 1)
	assert.True(t, snap.Sections[0].Items[0].Unmeasured)
	assert.Empty(t, snap.Sections[0].Items[0].Text, "capture does not materialize nodes")
	assert.Equal(t, int64(0), src.NodeBlockCalls())

	data, err := snap.Marshal()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "unmeasured: true"), string(data))
}
