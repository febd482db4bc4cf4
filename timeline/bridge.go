package timeline

import (
	"fmt"

	"github.com/matt-g-everett/keyframe/interp"
)

// uploadKey identifies what a sink currently holds for one channel. A new
// upload is needed when the bracketing keyframes, the store contents or the
// method change.
type uploadKey struct {
	lower, upper float64
	version      uint64
	code         int
}

// Bridge moves keyframe evaluation onto sinks that interpolate per vertex.
// Instead of pushing a value every frame, it uploads the keyframe pair
// around the sink's clock whenever that pair changes, and the sink runs the
// matching formula itself.
type Bridge struct {
	timeline *Timeline
	uploaded map[UniformSink]map[string]uploadKey
	warned   map[string]bool
}

// NewBridge creates a Bridge reading tl's channels.
func NewBridge(tl *Timeline) *Bridge {
	b := new(Bridge)
	b.timeline = tl
	b.uploaded = make(map[UniformSink]map[string]uploadKey)
	b.warned = make(map[string]bool)
	return b
}

// Attach registers the bridge on the sink's per-draw hook.
func (b *Bridge) Attach(s UniformSink) {
	b.uploaded[s] = make(map[string]uploadKey)
	s.OnDraw(func() { b.Draw(s) })
}

// Draw reads the sink's clock and refreshes any channel whose keyframe pair
// has changed since the last upload. Channels without a GPU method code are
// left untouched.
func (b *Bridge) Draw(s UniformSink) {
	t, ok := s.Uniformf(TimeUniform)
	if !ok {
		return
	}
	last, ok := b.uploaded[s]
	if !ok {
		last = make(map[string]uploadKey)
		b.uploaded[s] = last
	}

	for _, ch := range b.timeline.Channels() {
		if !ch.Interpolatable() {
			continue
		}
		code, ok := ch.Method().Code()
		if !ok {
			if !b.warned[ch.name] {
				Logger().Warn("timeline: no gpu method for channel", "channel", ch.name, "method", ch.Method().String())
				b.warned[ch.name] = true
			}
			continue
		}

		seg, err := ch.interp.Segment(t)
		if err != nil {
			continue
		}
		key := uploadKey{
			lower:   seg.Start.T,
			upper:   seg.End.T,
			version: ch.store.Version(),
			code:    code,
		}
		if prev, ok := last[ch.name]; ok && prev == key {
			continue
		}

		prefix := UniformPrefix(ch.name)
		s.SetUniformi(prefix+".method", code)
		uploadSample(s, prefix+".start", seg.Start)
		uploadSample(s, prefix+".end", seg.End)
		last[ch.name] = key
	}
}

// UniformPrefix returns the uniform struct name for a channel.
func UniformPrefix(channel string) string {
	return fmt.Sprintf("%s_k", channel)
}

// uploadSample writes one keyframe of a pair. RGBA colours carry their alpha
// in a separate ".alpha" float since ".data" holds three components.
func uploadSample(s UniformSink, prefix string, smp interp.Sample) {
	s.SetUniformf(prefix+".t", smp.T)
	s.SetUniform3f(prefix+".data", vec3(smp.Data, len(smp.Data) == 1))
	s.SetUniform3f(prefix+".cp", vec3(smp.CP, len(smp.CP) == 1))
	if len(smp.Data) == 4 {
		s.SetUniformf(prefix+".alpha", smp.Data[3])
	}
}
