package renderer

import "image/color"

// Line is one recorded DrawLine call.
type Line struct {
	X0, Y0, X1, Y1 float32
	Color          color.RGBA
	Width          float32
}

// Recorder is an offscreen Surface. It counts calls and, when Keep is set,
// records the lines of the current frame.
type Recorder struct {
	Keep bool

	Background color.RGBA
	Lines      []Line
	Clears     int
	Draws      int
}

// Clear implements Surface. Recorded lines are dropped.
func (r *Recorder) Clear(c color.RGBA) {
	r.Background = c
	r.Lines = r.Lines[:0]
	r.Clears++
}

// DrawLine implements Surface.
func (r *Recorder) DrawLine(x0, y0, x1, y1 float32, c color.RGBA, width float32) {
	r.Draws++
	if r.Keep {
		r.Lines = append(r.Lines, Line{X0: x0, Y0: y0, X1: x1, Y1: y1, Color: c, Width: width})
	}
}
