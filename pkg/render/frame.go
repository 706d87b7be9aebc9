package render

import "math"

// Marker is one drawn point in canvas coordinates.
type Marker struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Frame is one redraw of a scene.
type Frame struct {
	Title      string
	Width      int
	Height     int
	OriginX    float64
	OriginY    float64
	Radius     float64
	Background string
	Foreground string

	// Values are the materialized coordinates, one per marker.
	Values  []float64
	Markers []Marker
}

// Visible returns the markers whose centres fall inside the canvas.
func (f Frame) Visible() []Marker {
	out := make([]Marker, 0, len(f.Markers))
	for _, m := range f.Markers {
		if m.X >= 0 && m.X <= float64(f.Width) && m.Y >= 0 && m.Y <= float64(f.Height) {
			out = append(out, m)
		}
	}
	return out
}

// Bounds returns the bounding box of all finite markers. ok is false when
// there are none.
func (f Frame) Bounds() (minX, minY, maxX, maxY float64, ok bool) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, m := range f.Markers {
		if math.IsNaN(m.X) || math.IsNaN(m.Y) || math.IsInf(m.X, 0) || math.IsInf(m.Y, 0) {
			continue
		}
		minX, maxX = math.Min(minX, m.X), math.Max(maxX, m.X)
		minY, maxY = math.Min(minY, m.Y), math.Max(maxY, m.Y)
		ok = true
	}
	return minX, minY, maxX, maxY, ok
}
