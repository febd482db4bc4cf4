package timeline

import (
	"image/color"
)

// Renderable receives the interpolated values of a timeline's channels.
// Timelines reference renderables but never own them.
type Renderable interface {
	SetPosition(p [3]float64)
	SetScale(s [3]float64)
	SetColor(c color.NRGBA)
	SetOpacity(o float64)
	SetOrientation(euler [3]float64)
}

// Camera receives the camera channels of a timeline.
type Camera interface {
	SetCameraPosition(p [3]float64)
	SetCameraFocal(p [3]float64)
	SetCameraViewUp(v [3]float64)
}

// TimeUniform is the uniform a UniformSink exposes as its evaluation clock.
const TimeUniform = "time"

// UniformSink is a handle on a renderable whose shader evaluates keyframe
// pairs itself. OnDraw registers a callback that the sink invokes once per
// program bind.
type UniformSink interface {
	Uniformf(name string) (float64, bool)
	SetUniformf(name string, v float64)
	SetUniform3f(name string, v [3]float64)
	SetUniformi(name string, v int)
	OnDraw(fn func())
}
