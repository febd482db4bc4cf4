// Package timeline plays keyframe channels against a wall clock and writes
// the interpolated values into renderables once per frame.
//
// A Timeline owns the channels of one logical entity. A Composite groups
// Timelines (and other Composites) under one clock. Neither type is safe for
// concurrent use: callers serialise Update and the playback controls, usually
// by driving everything from a single render loop.
package timeline

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/keyframe/interp"
	"github.com/matt-g-everett/keyframe/keyframe"
)

var (
	// ErrUnknownChannel is returned when an interpolator is assigned to a
	// channel that has no keyframes yet.
	ErrUnknownChannel = errors.New("unknown channel")
	// ErrInvalidTarget is returned when a Composite is given a child it
	// cannot drive.
	ErrInvalidTarget = errors.New("invalid timeline target")
	// ErrInvalidSpeed is returned for playback speeds that are not positive
	// and finite.
	ErrInvalidSpeed = errors.New("invalid playback speed")
	// ErrInvalidSeek is returned when seeking to NaN or an infinity.
	ErrInvalidSeek = errors.New("invalid seek target")
)

// Timeline animates a set of channels for one actor or camera.
type Timeline struct {
	playback

	channels    map[string]*Channel
	order       []string
	renderables []Renderable
	camera      Camera
	sinks       []UniformSink
	bridge      *Bridge
	parent      *Composite
}

// New creates an empty Timeline.
func New(opts ...Option) *Timeline {
	o := applyOptions(opts)

	tl := new(Timeline)
	tl.playback = newPlayback(&o)
	tl.channels = make(map[string]*Channel)
	tl.renderables = o.renderables
	tl.camera = o.camera
	return tl
}

// EnsureChannel returns the channel called name, creating it if needed.
func (tl *Timeline) EnsureChannel(name string) *Channel {
	if ch, ok := tl.channels[name]; ok {
		return ch
	}
	ch := newChannel(name)
	tl.channels[name] = ch
	tl.order = append(tl.order, name)
	return ch
}

// Channel returns the channel called name.
func (tl *Timeline) Channel(name string) (*Channel, bool) {
	ch, ok := tl.channels[name]
	return ch, ok
}

// Channels returns every channel in creation order.
func (tl *Timeline) Channels() []*Channel {
	out := make([]*Channel, 0, len(tl.order))
	for _, name := range tl.order {
		out = append(out, tl.channels[name])
	}
	return out
}

// SetKeyframe stores value at timestamp on the named channel.
func (tl *Timeline) SetKeyframe(name string, timestamp float64, value keyframe.Vector) error {
	return tl.SetBezierKeyframe(name, timestamp, value, nil, nil)
}

// SetBezierKeyframe stores value with its incoming and outgoing control
// points. Either control point may be nil.
func (tl *Timeline) SetBezierKeyframe(name string, timestamp float64, value, pre, post keyframe.Vector) error {
	ch := tl.EnsureChannel(name)
	err := ch.store.Set(keyframe.Keyframe{
		Timestamp: timestamp,
		Value:     value,
		PreCP:     pre,
		PostCP:    post,
	})
	if err != nil {
		return fmt.Errorf("channel %q: %w", name, err)
	}
	return nil
}

// SetKeyframes stores one keyframe per channel at the same timestamp.
// Every value is checked first, so on error no channel is changed. New
// channels are created in name order.
func (tl *Timeline) SetKeyframes(timestamp float64, values map[string]keyframe.Vector) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := tl.checkKeyframe(name, keyframe.Keyframe{Timestamp: timestamp, Value: values[name]}); err != nil {
			return err
		}
	}
	for _, name := range names {
		if err := tl.SetKeyframe(name, timestamp, values[name]); err != nil {
			return err
		}
	}
	return nil
}

func (tl *Timeline) checkKeyframe(name string, k keyframe.Keyframe) error {
	store := keyframe.NewStore()
	if ch, ok := tl.channels[name]; ok {
		store = ch.store
	}
	if err := store.Check(k); err != nil {
		return fmt.Errorf("channel %q: %w", name, err)
	}
	return nil
}

// RemoveKeyframe deletes the keyframe at timestamp from the named channel.
func (tl *Timeline) RemoveKeyframe(name string, timestamp float64) bool {
	ch, ok := tl.channels[name]
	if !ok {
		return false
	}
	return ch.store.Remove(timestamp)
}

func (tl *Timeline) Translate(timestamp float64, p [3]float64) error {
	return tl.SetKeyframe(ChannelPosition, timestamp, p[:])
}

func (tl *Timeline) Scale(timestamp float64, s [3]float64) error {
	return tl.SetKeyframe(ChannelScale, timestamp, s[:])
}

// Rotate stores Euler angles in degrees.
func (tl *Timeline) Rotate(timestamp float64, euler [3]float64) error {
	return tl.SetKeyframe(ChannelRotation, timestamp, euler[:])
}

// SetColor stores an RGB colour with components in [0,1].
func (tl *Timeline) SetColor(timestamp float64, rgb [3]float64) error {
	return tl.SetKeyframe(ChannelColor, timestamp, rgb[:])
}

func (tl *Timeline) SetOpacity(timestamp float64, opacity float64) error {
	return tl.SetKeyframe(ChannelOpacity, timestamp, keyframe.Vector{opacity})
}

func (tl *Timeline) SetCameraPosition(timestamp float64, p [3]float64) error {
	return tl.SetKeyframe(ChannelCameraPosition, timestamp, p[:])
}

func (tl *Timeline) SetCameraFocal(timestamp float64, p [3]float64) error {
	return tl.SetKeyframe(ChannelCameraFocal, timestamp, p[:])
}

func (tl *Timeline) SetCameraViewUp(timestamp float64, v [3]float64) error {
	return tl.SetKeyframe(ChannelCameraViewUp, timestamp, v[:])
}

// SetInterpolator replaces the interpolation method of an existing channel.
// Spline methods fail here when the channel has too few keyframes.
func (tl *Timeline) SetInterpolator(name string, m interp.Method) error {
	ch, ok := tl.channels[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownChannel, name)
	}
	if err := ch.setMethod(m); err != nil {
		return fmt.Errorf("channel %q: %w", name, err)
	}
	return nil
}

// Value evaluates the named channel at t without writing to any sink. ok is
// false for unknown or empty channels.
func (tl *Timeline) Value(name string, t float64) (v keyframe.Vector, ok bool) {
	ch, found := tl.channels[name]
	if !found || !ch.Interpolatable() {
		return nil, false
	}
	v, err := ch.interp.Evaluate(t)
	if err != nil {
		return nil, false
	}
	return v, true
}

// FinalTimestamp returns the latest keyframe timestamp over all channels.
func (tl *Timeline) FinalTimestamp() float64 {
	final := 0.0
	for _, ch := range tl.channels {
		if last, err := ch.store.Last(); err == nil {
			final = math.Max(final, last)
		}
	}
	return final
}

// Add binds more renderables to the timeline.
func (tl *Timeline) Add(r ...Renderable) {
	tl.renderables = append(tl.renderables, r...)
}

// Remove unbinds a renderable.
func (tl *Timeline) Remove(r Renderable) bool {
	for i, existing := range tl.renderables {
		if existing == r {
			tl.renderables = append(tl.renderables[:i], tl.renderables[i+1:]...)
			return true
		}
	}
	return false
}

// Renderables returns the bound renderables.
func (tl *Timeline) Renderables() []Renderable {
	out := make([]Renderable, len(tl.renderables))
	copy(out, tl.renderables)
	return out
}

// SetCamera binds the camera driven by the camera channels.
func (tl *Timeline) SetCamera(c Camera) {
	tl.camera = c
}

// AttachUniformSink hands a sink to the timeline's uniform bridge. Every
// update then publishes the resolved time as TimeUniform on the sink, and the
// sink's draw hook uploads keyframe pairs as they change.
func (tl *Timeline) AttachUniformSink(s UniformSink) {
	if tl.bridge == nil {
		tl.bridge = NewBridge(tl)
	}
	tl.sinks = append(tl.sinks, s)
	tl.bridge.Attach(s)
}

func (tl *Timeline) Play() {
	tl.playback.play()
}

func (tl *Timeline) Pause() {
	tl.playback.pause()
}

// Stop rewinds to zero and immediately writes the t=0 values.
func (tl *Timeline) Stop() {
	tl.playback.stop()
	tl.UpdateAt(0)
}

// Restart rewinds to zero and plays.
func (tl *Timeline) Restart() {
	tl.playback.restart()
	tl.UpdateAt(0)
}

// Seek moves the cursor to t. When not playing, the new values are written
// immediately. A non-finite t leaves the cursor untouched.
func (tl *Timeline) Seek(t float64) error {
	if err := tl.playback.seek(t); err != nil {
		return err
	}
	if tl.state != Playing {
		tl.UpdateAt(t)
	}
	return nil
}

// SetSpeed changes the playback rate without moving the cursor.
func (tl *Timeline) SetSpeed(speed float64) error {
	return tl.playback.setSpeed(speed)
}

func (tl *Timeline) SetLoop(loop bool) {
	tl.loop = loop
}

// Update evaluates every channel at the timeline's own cursor.
func (tl *Timeline) Update() {
	tl.UpdateAt(tl.resolve(tl.FinalTimestamp()))
}

// UpdateAt evaluates every channel at t and writes the results to the bound
// sinks. Channels that cannot be evaluated are skipped.
func (tl *Timeline) UpdateAt(t float64) {
	for _, name := range tl.order {
		ch := tl.channels[name]
		if !ch.Interpolatable() {
			continue
		}
		v, err := ch.evaluate(t)
		if err != nil {
			Logger().Debug("timeline: skipping channel", "channel", name, "t", t, "err", err)
			continue
		}
		tl.write(ch.property, v)
	}

	for _, s := range tl.sinks {
		s.SetUniformf(TimeUniform, t)
	}
}

func (tl *Timeline) write(p Property, v keyframe.Vector) {
	switch p {
	case PropertyPosition:
		pos := vec3(v, false)
		for _, r := range tl.renderables {
			r.SetPosition(pos)
		}
	case PropertyScale:
		s := vec3(v, true)
		for _, r := range tl.renderables {
			r.SetScale(s)
		}
	case PropertyColor:
		c := toNRGBA(v)
		for _, r := range tl.renderables {
			r.SetColor(c)
		}
	case PropertyOpacity:
		o := clamp01(v[0])
		for _, r := range tl.renderables {
			r.SetOpacity(o)
		}
	case PropertyOrientation:
		e := vec3(v, false)
		for _, r := range tl.renderables {
			r.SetOrientation(e)
		}
	case PropertyCameraPosition:
		if tl.camera != nil {
			tl.camera.SetCameraPosition(vec3(v, false))
		}
	case PropertyCameraFocal:
		if tl.camera != nil {
			tl.camera.SetCameraFocal(vec3(v, false))
		}
	case PropertyCameraViewUp:
		if tl.camera != nil {
			tl.camera.SetCameraViewUp(vec3(v, false))
		}
	}
}

func (tl *Timeline) attach(parent *Composite) error {
	if tl.parent != nil {
		return fmt.Errorf("%w: timeline already belongs to a composite", ErrInvalidTarget)
	}
	tl.parent = parent
	return nil
}

func (tl *Timeline) detach() {
	tl.parent = nil
}

func (tl *Timeline) attached() bool {
	return tl.parent != nil
}

func (tl *Timeline) contains(*Composite) bool {
	return false
}

func (tl *Timeline) playbacks(fn func(*playback)) {
	fn(&tl.playback)
}

// vec3 widens v to three components. Scalars are broadcast when broadcast is
// set and otherwise fill only x.
func vec3(v keyframe.Vector, broadcast bool) [3]float64 {
	var out [3]float64
	if len(v) == 1 && broadcast {
		return [3]float64{v[0], v[0], v[0]}
	}
	copy(out[:], v)
	return out
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// toNRGBA clamps an RGB(A) vector to [0,1] and scales it to 0..255. A single
// component is treated as grey.
func toNRGBA(v keyframe.Vector) color.NRGBA {
	c := colorful.Color{R: v[0], G: v[0], B: v[0]}
	if len(v) >= 3 {
		c.G, c.B = v[1], v[2]
	}
	r, g, b := c.Clamped().RGB255()
	a := uint8(255)
	if len(v) >= 4 {
		a = uint8(clamp01(v[3])*255 + 0.5)
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}
}
