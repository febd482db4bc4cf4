package timeline

import (
	"github.com/benbjohnson/clock"
)

// Option configures a Timeline or Composite during creation.
//
// Example:
//
//	tl := timeline.New(
//		timeline.WithRenderables(strip),
//		timeline.WithLoop(true),
//	)
type Option func(*options)

type options struct {
	clock       clock.Clock
	loop        bool
	speed       float64
	renderables []Renderable
	camera      Camera
}

func defaultOptions() options {
	return options{
		clock: clock.New(),
		speed: 1,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !validSpeed(o.speed) {
		o.speed = 1
	}
	return o
}

// WithClock sets the wall clock playback is measured against.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithLoop enables restarting from zero after the final keyframe.
func WithLoop(loop bool) Option {
	return func(o *options) {
		o.loop = loop
	}
}

// WithSpeed sets the initial playback rate. Values that are not positive
// and finite are ignored.
func WithSpeed(speed float64) Option {
	return func(o *options) {
		o.speed = speed
	}
}

// WithRenderables binds renderables to a Timeline. Ignored by Composite.
func WithRenderables(r ...Renderable) Option {
	return func(o *options) {
		o.renderables = append(o.renderables, r...)
	}
}

// WithCamera binds the camera channels of a Timeline. Ignored by Composite.
func WithCamera(c Camera) Option {
	return func(o *options) {
		o.camera = c
	}
}
