package layout

import (
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/go-drift/datacontroller/pkg/rendering"
)

// DefaultFace is the face used by text nodes without one.
var DefaultFace font.Face = basicfont.Face7x13

// TextNode measures a run of text, wrapping on spaces to fit the maximum
// width of the size range.
type TextNode struct {
	// Text is the content. Newlines force line breaks.
	Text string
	// Face measures glyph advances. Nil uses DefaultFace.
	Face font.Face
	// Padding is added on every side.
	Padding float64

	// font.Face implementations are not safe for concurrent use.
	mu sync.Mutex
}

// NewTextNode returns a text node using DefaultFace.
func NewTextNode(text string) *TextNode {
	return &TextNode{Text: text}
}

// Measure lays the text out in lines no wider than r.Max.Width.
func (n *TextNode) Measure(r rendering.SizeRange) rendering.Size {
	n.mu.Lock()
	defer n.mu.Unlock()

	face := n.Face
	if face == nil {
		face = DefaultFace
	}
	maxWidth := r.Max.Width - 2*n.Padding
	lines := n.lines(face, maxWidth)

	var width float64
	for _, line := range lines {
		width = math.Max(width, toFloat(font.MeasureString(face, line)))
	}
	lineHeight := toFloat(face.Metrics().Height)
	size := rendering.Size{
		Width:  width + 2*n.Padding,
		Height: float64(len(lines))*lineHeight + 2*n.Padding,
	}
	return r.Constrain(size)
}

// Lines returns the wrapped lines for the given maximum width.
func (n *TextNode) Lines(maxWidth float64) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	face := n.Face
	if face == nil {
		face = DefaultFace
	}
	return n.lines(face, maxWidth-2*n.Padding)
}

func (n *TextNode) lines(face font.Face, maxWidth float64) []string {
	var out []string
	for _, para := range strings.Split(n.Text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			candidate := line + " " + word
			if math.IsInf(maxWidth, 1) || toFloat(font.MeasureString(face, candidate)) <= maxWidth {
				line = candidate
				continue
			}
			out = append(out, line)
			line = word
		}
		out = append(out, line)
	}
	return out
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
