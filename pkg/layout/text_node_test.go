package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-drift/datacontroller/pkg/rendering"
)

// basicfont.Face7x13 advances 7 points per glyph with 13 point lines.

func TestTextNodeSingleLine(t *testing.T) {
	n := NewTextNode("hello")
	size := n.Measure(rendering.LooseSizeRange(rendering.Size{Width: 200, Height: math.Inf(1)}))
	assert.Equal(t, rendering.Size{Width: 35, Height: 13}, size)
}

func TestTextNodeWraps(t *testing.T) {
	n := NewTextNode("one two three")
	r := rendering.LooseSizeRange(rendering.Size{Width: 60, Height: math.Inf(1)})

	assert.Equal(t, []string{"one two", "three"}, n.Lines(60))
	assert.Equal(t, rendering.Size{Width: 49, Height: 26}, n.Measure(r))
}

func TestTextNodeNewlinesAndPadding(t *testing.T) {
	n := &TextNode{Text: "a\n\nb", Padding: 2}
	size := n.Measure(rendering.UnconstrainedHeight(100))
	assert.Equal(t, rendering.Size{Width: 100, Height: 3*13 + 4}, size)
}

func TestTextNodeClampedToRange(t *testing.T) {
	n := NewTextNode("a b c d e f")
	size := n.Measure(rendering.LooseSizeRange(rendering.Size{Width: 10, Height: 20}))
	assert.Equal(t, rendering.Size{Width: 7, Height: 20}, size)
}

func TestEmptyAndFixedNodes(t *testing.T) {
	r := rendering.SizeRange{
		Min: rendering.Size{Width: 10, Height: 10},
		Max: rendering.Size{Width: 50, Height: 50},
	}
	assert.Equal(t, r.Min, EmptyNode{}.Measure(r))
	assert.Equal(t, rendering.Size{Width: 50, Height: 20}, FixedNode{Size: rendering.Size{Width: 80, Height: 20}}.Measure(r))
}
