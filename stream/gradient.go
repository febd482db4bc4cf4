package stream

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/keyframe/keyframe"
)

// GradientTable stores a look-up table of colours interpolated by hue.
type GradientTable []struct {
	Hue float64 `yaml:"hue"`
	Pos float64 `yaml:"pos"`
}

// GetColor gets a colour at the specified point on the look-up table.
func (g GradientTable) GetColor(t, c, l float64) colorful.Color {
	if len(g) == 0 {
		return colorful.Hcl(0, 0, l)
	}
	if t <= g[0].Pos {
		return colorful.Hcl(g[0].Hue, c, l)
	}
	for i := 0; i < len(g)-1; i++ {
		c1 := g[i]
		c2 := g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			if c2.Pos == c1.Pos {
				return colorful.Hcl(c2.Hue, c, l)
			}
			// We are in between c1 and c2. Go blend them!
			h := (((t - c1.Pos) / (c2.Pos - c1.Pos)) * (c2.Hue - c1.Hue)) + c1.Hue
			return colorful.Hcl(h, c, l)
		}
	}

	// Nothing found? Means we're at (or past) the last gradient keypoint.
	return colorful.Hcl(g[len(g)-1].Hue, c, l)
}

// Keyframes samples the table at steps+1 evenly spaced points and returns
// them as RGB keyframes spread over duration seconds.
func (g GradientTable) Keyframes(duration float64, steps int, c, l float64) []keyframe.Keyframe {
	if steps < 1 {
		steps = 1
	}
	out := make([]keyframe.Keyframe, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		col := g.GetColor(t, c, l).Clamped()
		out = append(out, keyframe.Keyframe{
			Timestamp: t * duration,
			Value:     keyframe.Vector{col.R, col.G, col.B},
		})
	}
	return out
}
