package stream

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/keyframe/interp"
	"github.com/matt-g-everett/keyframe/timeline"
	"github.com/matt-g-everett/keyframe/util"
)

var errUnnamedChannel = errors.New("channel without a name")

// A Scene is a set of timelines, each driving one Strip, synchronised under
// a single Composite.
type Scene struct {
	Root       *timeline.Composite
	Background colorful.Color

	names     []string
	timelines map[string]*timeline.Timeline
	strips    []*Strip
}

// BuildScene creates the timelines described by cfg. opts configure the
// root composite and override the loop and speed settings in cfg.
func BuildScene(cfg SceneConfig, opts ...timeline.Option) (*Scene, error) {
	sc := new(Scene)
	sc.timelines = make(map[string]*timeline.Timeline)

	background, err := colorful.Hex(cfg.Background)
	if err != nil {
		return nil, fmt.Errorf("scene background %q: %w", cfg.Background, err)
	}
	sc.Background = background

	rootOpts := []timeline.Option{timeline.WithLoop(cfg.Loop), timeline.WithSpeed(cfg.Speed)}
	sc.Root = timeline.NewComposite(append(rootOpts, opts...)...)

	for i, tc := range cfg.Timelines {
		name := tc.Name
		if name == "" {
			name = fmt.Sprintf("timeline%d", i)
		}
		if _, dup := sc.timelines[name]; dup {
			return nil, fmt.Errorf("timeline %q defined twice", name)
		}

		tl, strip, err := buildTimeline(tc)
		if err != nil {
			return nil, fmt.Errorf("timeline %q: %w", name, err)
		}
		if err := sc.Root.Add(tl); err != nil {
			return nil, err
		}
		sc.names = append(sc.names, name)
		sc.timelines[name] = tl
		sc.strips = append(sc.strips, strip)
	}
	return sc, nil
}

func buildTimeline(tc TimelineConfig) (*timeline.Timeline, *Strip, error) {
	edge, err := util.Ease(tc.Edge)
	if err != nil {
		return nil, nil, fmt.Errorf("edge: %w", err)
	}
	strip := NewStrip(edge)
	tl := timeline.New(timeline.WithRenderables(strip))

	if g := tc.Gradient; g != nil {
		for _, k := range g.Table.Keyframes(g.Duration, g.Steps, g.Chroma, g.Luminance) {
			if err := tl.SetKeyframe(timeline.ChannelColor, k.Timestamp, k.Value); err != nil {
				return nil, nil, err
			}
		}
		if err := tl.SetInterpolator(timeline.ChannelColor, interp.HCL); err != nil {
			return nil, nil, err
		}
	}

	for _, cc := range tc.Channels {
		if cc.Name == "" {
			return nil, nil, errUnnamedChannel
		}
		for _, k := range cc.Keyframes {
			if err := tl.SetBezierKeyframe(cc.Name, k.T, k.Value, k.Pre, k.Post); err != nil {
				return nil, nil, err
			}
		}
		if err := applyMethod(tl, cc); err != nil {
			return nil, nil, fmt.Errorf("channel %q: %w", cc.Name, err)
		}
	}
	return tl, strip, nil
}

// applyMethod sets the configured method and easing on a channel. With no
// method named the channel keeps its default and only the easing changes.
func applyMethod(tl *timeline.Timeline, cc ChannelConfig) error {
	if cc.Method == "" && cc.Ease == "" {
		return nil
	}
	ch := tl.EnsureChannel(cc.Name)
	m := ch.Method()
	if cc.Method != "" {
		var err error
		m, err = interp.ParseMethod(cc.Method, cc.Degree)
		if err != nil {
			return err
		}
	}
	fn, err := util.Ease(cc.Ease)
	if err != nil {
		return err
	}
	if fn != nil {
		m = m.WithEase(fn)
	}
	return tl.SetInterpolator(cc.Name, m)
}

// Names returns the timeline names in configuration order.
func (sc *Scene) Names() []string {
	out := make([]string, len(sc.names))
	copy(out, sc.names)
	return out
}

// Timeline returns the named timeline.
func (sc *Scene) Timeline(name string) (*timeline.Timeline, bool) {
	tl, ok := sc.timelines[name]
	return tl, ok
}

// Strips returns the strips in configuration order.
func (sc *Scene) Strips() []*Strip {
	out := make([]*Strip, len(sc.strips))
	copy(out, sc.strips)
	return out
}

// Render paints the background and every strip into f.
func (sc *Scene) Render(f *Frame) {
	f.Fill(sc.Background)
	for _, s := range sc.strips {
		s.Render(f)
	}
}
