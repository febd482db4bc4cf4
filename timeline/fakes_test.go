package timeline

import (
	"image/color"
)

type fakeRenderable struct {
	position    [3]float64
	scale       [3]float64
	color       color.NRGBA
	opacity     float64
	orientation [3]float64
	writes      int
}

func (f *fakeRenderable) SetPosition(p [3]float64)    { f.position = p; f.writes++ }
func (f *fakeRenderable) SetScale(s [3]float64)       { f.scale = s; f.writes++ }
func (f *fakeRenderable) SetColor(c color.NRGBA)      { f.color = c; f.writes++ }
func (f *fakeRenderable) SetOpacity(o float64)        { f.opacity = o; f.writes++ }
func (f *fakeRenderable) SetOrientation(e [3]float64) { f.orientation = e; f.writes++ }

type fakeCamera struct {
	position, focal, viewUp [3]float64
}

func (f *fakeCamera) SetCameraPosition(p [3]float64) { f.position = p }
func (f *fakeCamera) SetCameraFocal(p [3]float64)    { f.focal = p }
func (f *fakeCamera) SetCameraViewUp(v [3]float64)   { f.viewUp = v }

type fakeSink struct {
	floats  map[string]float64
	vecs    map[string][3]float64
	ints    map[string]int
	hooks   []func()
	uploads int
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		floats: make(map[string]float64),
		vecs:   make(map[string][3]float64),
		ints:   make(map[string]int),
	}
}

func (f *fakeSink) Uniformf(name string) (float64, bool) {
	v, ok := f.floats[name]
	return v, ok
}

func (f *fakeSink) SetUniformf(name string, v float64) {
	if name != TimeUniform {
		f.uploads++
	}
	f.floats[name] = v
}

func (f *fakeSink) SetUniform3f(name string, v [3]float64) { f.vecs[name] = v }
func (f *fakeSink) SetUniformi(name string, v int)         { f.ints[name] = v }
func (f *fakeSink) OnDraw(fn func())                       { f.hooks = append(f.hooks, fn) }

func (f *fakeSink) draw() {
	for _, fn := range f.hooks {
		fn()
	}
}
