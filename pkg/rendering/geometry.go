package rendering

import (
	"fmt"
	"math"
)

// epsilon is the tolerance for floating-point comparisons.
const epsilon = 0.0001

// Size represents width and height dimensions in points.
type Size struct {
	Width  float64
	Height float64
}

// SizeZero is the empty size.
var SizeZero = Size{}

// IsEmpty returns true if the size has zero or negative area.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Equal reports whether two sizes are approximately equal.
func (s Size) Equal(other Size) bool {
	return floatEqual(s.Width, other.Width) && floatEqual(s.Height, other.Height)
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// SizeRange bounds the size a measured node may take.
//
// Max components may be math.Inf(1) to leave an axis unconstrained.
type SizeRange struct {
	Min Size
	Max Size
}

// TightSizeRange returns a range that only admits size.
func TightSizeRange(size Size) SizeRange {
	return SizeRange{Min: size, Max: size}
}

// LooseSizeRange returns a range from zero up to max.
func LooseSizeRange(max Size) SizeRange {
	return SizeRange{Max: max}
}

// UnconstrainedHeight returns a range with a fixed width and unbounded height,
// the usual constraint for rows in a vertical list.
func UnconstrainedHeight(width float64) SizeRange {
	return SizeRange{
		Min: Size{Width: width},
		Max: Size{Width: width, Height: math.Inf(1)},
	}
}

// HasSignificantArea reports whether the range can produce a size with
// positive area. Ranges without area are skipped by layout.
func (r SizeRange) HasSignificantArea() bool {
	return r.Max.Width > epsilon && r.Max.Height > epsilon
}

// Constrain clamps size into the range.
func (r SizeRange) Constrain(size Size) Size {
	return Size{
		Width:  clamp(size.Width, r.Min.Width, r.Max.Width),
		Height: clamp(size.Height, r.Min.Height, r.Max.Height),
	}
}

// Equal reports whether two ranges are approximately equal.
func (r SizeRange) Equal(other SizeRange) bool {
	return r.Min.Equal(other.Min) && r.Max.Equal(other.Max)
}

func (r SizeRange) String() string {
	return fmt.Sprintf("[%s, %s]", r.Min, r.Max)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(v, hi))
}

// floatEqual returns true if two float64 values are approximately equal.
// Infinite values compare equal to themselves.
func floatEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= epsilon
}
