// Package renderer draws the swarm onto a 2D line surface.
package renderer

import (
	"errors"
	"image/color"
)

// ErrSurfaceUnavailable is returned when no drawing context can be created.
var ErrSurfaceUnavailable = errors.New("renderer: surface unavailable")

// Surface is a 2D drawing target with sub-pixel coordinates. Each DrawLine
// call carries its own color and width; no stroke state is retained.
type Surface interface {
	Clear(c color.RGBA)
	DrawLine(x0, y0, x1, y1 float32, c color.RGBA, width float32)
}
