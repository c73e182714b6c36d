package changeset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/datacontroller/pkg/collection"
	"github.com/go-drift/datacontroller/pkg/errors"
)

func ip(section, item int) collection.IndexPath {
	return collection.IndexPath{Section: section, Item: item}
}

func TestValidateReload(t *testing.T) {
	d, err := Reload().Validate(nil, []int{2, 1})
	require.NoError(t, err)
	assert.True(t, d.Reload)
	assert.Equal(t, []int{2, 1}, d.NewCounts)

	_, err = Reload().InsertSections(0).Validate(nil, []int{1})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidUpdate(err))
}

func TestValidateItemChanges(t *testing.T) {
	cs := New().DeleteItems(ip(0, 1)).InsertItems(ip(0, 1))
	d, err := cs.Validate([]int{2, 1}, []int{2, 1})
	require.NoError(t, err)
	assert.Equal(t, []collection.IndexPath{ip(0, 1)}, d.DeletedItems)
	assert.Equal(t, []collection.IndexPath{ip(0, 1)}, d.InsertedItems)
	assert.False(t, d.IsEmpty())
}

func TestValidateInsertPastEnd(t *testing.T) {
	// Counts still have to add up; the index itself only has to be non-negative.
	d, err := New().DeleteItems(ip(0, 1)).InsertItems(ip(0, 2)).Validate([]int{2, 1}, []int{2, 1})
	require.NoError(t, err)
	assert.Equal(t, []collection.IndexPath{ip(0, 2)}, d.InsertedItems)
}

func TestValidateRejectsBadCounts(t *testing.T) {
	tests := []struct {
		name      string
		cs        *ChangeSet
		old, next []int
	}{
		{"delete missing item", New().DeleteItems(ip(0, 5)), []int{2}, []int{1}},
		{"insert into missing section", New().InsertItems(ip(1, 0)), []int{2}, []int{3}},
		{"item count mismatch", New().InsertItems(ip(0, 0)), []int{2}, []int{2}},
		{"section count mismatch", New().DeleteSections(0), []int{2, 1}, []int{2, 1}},
		{"delete missing section", New().DeleteSections(3), []int{2}, []int{}},
		{"insert section out of range", New().InsertSections(4), []int{2}, []int{2, 0}},
		{"negative index", New().DeleteItems(ip(0, -1)), []int{2}, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cs.Validate(tt.old, tt.next)
			require.Error(t, err)
			var invalid *errors.InvalidUpdateError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestValidateDropsItemsCoveredBySectionChanges(t *testing.T) {
	cs := New().
		DeleteSections(1).
		InsertSections(0).
		DeleteItems(ip(1, 0), ip(0, 0)).
		InsertItems(ip(0, 0), ip(1, 0))
	// before: [2, 1]; after: [3 (new), 2]
	d, err := cs.Validate([]int{2, 1}, []int{3, 2})
	require.NoError(t, err)
	assert.Equal(t, []collection.IndexPath{ip(0, 0)}, d.DeletedItems)
	assert.Equal(t, []collection.IndexPath{ip(1, 0)}, d.InsertedItems)
}

func TestSectionMapping(t *testing.T) {
	d := Delta{DeletedSections: []int{1, 3}, InsertedSections: []int{0, 3}}
	// old: a b c d e   -> mid: a c e -> new: X a c Y e
	tests := []struct {
		old, mid, next int
		survives       bool
	}{
		{0, 0, 1, true},
		{1, 0, 0, false},
		{2, 1, 2, true},
		{3, 0, 0, false},
		{4, 2, 4, true},
	}
	for _, tt := range tests {
		mid, ok := d.IntermediateSection(tt.old)
		assert.Equal(t, tt.survives, ok, "old %d", tt.old)
		if !ok {
			continue
		}
		assert.Equal(t, tt.mid, mid)
		n, _ := d.NewSection(tt.old)
		assert.Equal(t, tt.next, n)
		back, ok := d.OldSection(tt.next)
		require.True(t, ok)
		assert.Equal(t, tt.old, back)
	}
	_, ok := d.OldSection(0)
	assert.False(t, ok)
	_, ok = d.OldSection(3)
	assert.False(t, ok)
}

func TestCompleteRunsOnce(t *testing.T) {
	var calls []bool
	cs := New().OnComplete(func(finished bool) { calls = append(calls, finished) })
	cs.Complete(true)
	cs.Complete(false)
	assert.Equal(t, []bool{true}, calls)
	assert.Equal(t, "ChangeSet{}", cs.String())
	assert.Equal(t, "ChangeSet{deleteItems=1}", New().DeleteItems(ip(0, 0)).String())
	assert.Equal(t, "ChangeSet{reload}", Reload().String())
}
