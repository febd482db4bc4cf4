package interp

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Space is a perceptual colour space that RGB keyframes are blended in.
type Space int

const (
	SpaceHSV Space = iota + 1
	SpaceLAB
	SpaceXYZ
	SpaceHCL
)

func (s Space) String() string {
	switch s {
	case SpaceHSV:
		return "hsv"
	case SpaceLAB:
		return "lab"
	case SpaceXYZ:
		return "xyz"
	case SpaceHCL:
		return "hcl"
	}
	return fmt.Sprintf("space(%d)", int(s))
}

// ParseSpace maps a configuration name to a Space.
func ParseSpace(name string) (Space, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hsv":
		return SpaceHSV, nil
	case "lab", "cielab":
		return SpaceLAB, nil
	case "xyz", "ciexyz":
		return SpaceXYZ, nil
	case "hcl":
		return SpaceHCL, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSpace, name)
}

func (s Space) valid() bool {
	return s >= SpaceHSV && s <= SpaceHCL
}

// FromRGB converts an RGB triple in [0,1] into s.
func (s Space) FromRGB(r, g, b float64) [3]float64 {
	c := colorful.Color{R: r, G: g, B: b}
	var x, y, z float64
	switch s {
	case SpaceHSV:
		x, y, z = c.Hsv()
	case SpaceLAB:
		x, y, z = c.Lab()
	case SpaceXYZ:
		x, y, z = c.Xyz()
	case SpaceHCL:
		x, y, z = labToHcl(c.Lab())
	default:
		x, y, z = r, g, b
	}
	return [3]float64{x, y, z}
}

// ToRGB converts a triple in s back to RGB. The result is not clamped.
func (s Space) ToRGB(v [3]float64) (r, g, b float64) {
	var c colorful.Color
	switch s {
	case SpaceHSV:
		c = colorful.Hsv(v[0], v[1], v[2])
	case SpaceLAB:
		c = colorful.Lab(v[0], v[1], v[2])
	case SpaceXYZ:
		c = colorful.Xyz(v[0], v[1], v[2])
	case SpaceHCL:
		c = colorful.Lab(hclToLab(v))
	default:
		return v[0], v[1], v[2]
	}
	return c.R, c.G, c.B
}

// labToHcl converts Lab to (h, c, l) with h in degrees. Unlike
// colorful.LabToHcl it keeps the hue that atan2 reports for near-neutral
// colours, so the pair with hclToLab is an exact inverse.
func labToHcl(l, a, b float64) (h, c, lum float64) {
	h = math.Mod(math.Atan2(b, a)*180/math.Pi+360, 360)
	return h, math.Hypot(a, b), l
}

func hclToLab(v [3]float64) (l, a, b float64) {
	hr := v[0] * math.Pi / 180
	return v[2], v[1] * math.Cos(hr), v[1] * math.Sin(hr)
}
