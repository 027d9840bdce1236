package systems

// MinViewportSize is the fallback for degenerate surface dimensions.
const MinViewportSize = 1

// Viewport is the visible simulation area in surface units.
type Viewport struct {
	Width, Height float32
}

// NewViewport clamps both dimensions to MinViewportSize so that spawn ranges
// and the threshold line never degenerate.
func NewViewport(width, height float32) Viewport {
	if !(width >= MinViewportSize) {
		width = MinViewportSize
	}
	if !(height >= MinViewportSize) {
		height = MinViewportSize
	}
	return Viewport{Width: width, Height: height}
}

// ThresholdLine returns the settle line for the given height ratio.
func (v Viewport) ThresholdLine(ratio float32) float32 {
	return v.Height * ratio
}

// Outside reports whether (x, y) left the viewport inflated by margin on every side.
func (v Viewport) Outside(x, y, margin float32) bool {
	return x < -margin || x > v.Width+margin || y < -margin || y > v.Height+margin
}
