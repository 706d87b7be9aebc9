package sink

import (
	"encoding/json"

	"github.com/matzehuels/fieldviz/pkg/render"
)

type jsonOutput struct {
	Title   string       `json:"title,omitempty"`
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	OriginX float64      `json:"origin_x"`
	OriginY float64      `json:"origin_y"`
	Values  []*float64   `json:"values"`
	Markers []jsonMarker `json:"markers"`
}

type jsonMarker struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// RenderJSON exports the frame's values and marker positions as a
// pretty-printed JSON document. Non-finite numbers become null because JSON
// cannot represent them.
func RenderJSON(f render.Frame) ([]byte, error) {
	out := jsonOutput{
		Title:   f.Title,
		Width:   f.Width,
		Height:  f.Height,
		OriginX: f.OriginX,
		OriginY: f.OriginY,
		Values:  make([]*float64, len(f.Values)),
		Markers: make([]jsonMarker, len(f.Markers)),
	}
	for i, v := range f.Values {
		out.Values[i] = number(v)
	}
	for i, m := range f.Markers {
		out.Markers[i] = jsonMarker{X: number(m.X), Y: number(m.Y)}
	}
	return json.MarshalIndent(out, "", "  ")
}

func number(v float64) *float64 {
	if !finite(v) {
		return nil
	}
	return &v
}
