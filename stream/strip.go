package stream

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/keyframe/util"
)

// A Strip is a lit segment of an LED strip driven by a timeline. Position x
// is the centre pixel and scale x is the length in pixels; the other axes
// are ignored.
type Strip struct {
	centre      float64
	length      float64
	colour      colorful.Color
	alpha       float64
	opacity     float64
	orientation [3]float64
	edge        func(float64) float64
}

// NewStrip creates a one pixel white Strip at pixel 0. When edge is not nil
// the segment fades in and out along its length through that curve.
func NewStrip(edge func(float64) float64) *Strip {
	s := new(Strip)
	s.length = 1
	s.colour = colorful.Color{R: 1, G: 1, B: 1}
	s.alpha = 1
	s.opacity = 1
	s.edge = edge
	return s
}

func (s *Strip) SetPosition(p [3]float64) {
	s.centre = p[0]
}

func (s *Strip) SetScale(sc [3]float64) {
	s.length = sc[0]
}

func (s *Strip) SetColor(c color.NRGBA) {
	s.colour = colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
	s.alpha = float64(c.A) / 255
}

func (s *Strip) SetOpacity(o float64) {
	s.opacity = o
}

// SetOrientation stores the rotation. A strip has no facing, so it does not
// affect rendering.
func (s *Strip) SetOrientation(euler [3]float64) {
	s.orientation = euler
}

func (s *Strip) Centre() float64         { return s.centre }
func (s *Strip) Length() float64         { return s.length }
func (s *Strip) Colour() colorful.Color  { return s.colour }
func (s *Strip) Opacity() float64        { return s.opacity }
func (s *Strip) Orientation() [3]float64 { return s.orientation }

// Span returns the first and last pixel indices covered by the strip. last
// is below first when nothing is lit.
func (s *Strip) Span() (first, last int) {
	half := math.Abs(s.length) / 2
	first = int(math.Ceil(s.centre - half))
	last = int(math.Floor(s.centre + half))
	return first, last
}

// Render blends the strip into f.
func (s *Strip) Render(f *Frame) {
	weight := s.opacity * s.alpha
	if weight <= 0 {
		return
	}
	first, last := s.Span()
	n := last - first + 1
	if n <= 0 {
		return
	}

	var lut []float64
	if s.edge != nil {
		lut = util.GenerateLut(n, s.edge)
	}
	for i := 0; i < n; i++ {
		w := weight
		if lut != nil {
			w *= lut[i]
		}
		f.Blend(first+i, s.colour, w)
	}
}
