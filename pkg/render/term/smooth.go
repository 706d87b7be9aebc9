package term

import (
	"github.com/charmbracelet/harmonica"

	"github.com/matzehuels/fieldviz/pkg/render"
)

// Smoother eases marker positions towards each new frame with damped
// springs, so animated scenes glide instead of jumping between redraws.
type Smoother struct {
	spring harmonica.Spring
	pos    []render.Marker
	vel    []render.Marker
}

// NewSmoother returns a smoother stepping at fps. frequency is the spring's
// angular frequency and damping its damping ratio (1 is critically damped).
func NewSmoother(fps int, frequency, damping float64) *Smoother {
	return &Smoother{spring: harmonica.NewSpring(harmonica.FPS(max(fps, 1)), frequency, damping)}
}

// Step moves every marker one tick towards f's markers and returns a copy of
// f with the eased positions. When the marker count changes the smoother
// snaps to the new frame. Non-finite targets are passed through unchanged.
func (s *Smoother) Step(f render.Frame) render.Frame {
	if len(s.pos) != len(f.Markers) {
		s.pos = append([]render.Marker(nil), f.Markers...)
		s.vel = make([]render.Marker, len(f.Markers))
		return f
	}

	out := f
	out.Markers = make([]render.Marker, len(f.Markers))
	for i, target := range f.Markers {
		if !finite(target.X) || !finite(target.Y) {
			s.pos[i], s.vel[i] = target, render.Marker{}
			out.Markers[i] = target
			continue
		}
		p, v := s.pos[i], s.vel[i]
		if !finite(p.X) || !finite(p.Y) {
			p, v = target, render.Marker{}
		}
		p.X, v.X = s.spring.Update(p.X, v.X, target.X)
		p.Y, v.Y = s.spring.Update(p.Y, v.Y, target.Y)
		s.pos[i], s.vel[i] = p, v
		out.Markers[i] = p
	}
	return out
}

// Reset forgets all positions; the next Step snaps.
func (s *Smoother) Reset() {
	s.pos, s.vel = nil, nil
}
