package timeline

import (
	"fmt"
	"math"
	"time"

	"github.com/benbjohnson/clock"
)

// State is the playback state of a Timeline or Composite.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// playback maps wall-clock time onto an animation cursor measured in
// seconds. While playing, the cursor is (now - lastStartedAt) * speed;
// otherwise it is lastTimestamp.
type playback struct {
	clock         clock.Clock
	state         State
	loop          bool
	speed         float64
	lastStartedAt time.Time
	lastTimestamp float64
}

func newPlayback(o *options) playback {
	return playback{
		clock: o.clock,
		state: Stopped,
		loop:  o.loop,
		speed: o.speed,
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// anchor moves lastStartedAt so the cursor currently reads ts.
func (p *playback) anchor(ts float64) {
	p.lastStartedAt = p.clock.Now().Add(-seconds(ts / p.speed))
}

func (p *playback) play() {
	if p.state == Playing {
		return
	}
	p.anchor(p.lastTimestamp)
	p.state = Playing
}

func (p *playback) pause() {
	if p.state != Playing {
		return
	}
	p.lastTimestamp = p.current()
	p.state = Paused
}

func (p *playback) stop() {
	p.lastTimestamp = 0
	p.state = Stopped
}

func (p *playback) restart() {
	p.lastTimestamp = 0
	p.anchor(0)
	p.state = Playing
}

// seek re-anchors a playing cursor, or parks a stopped/paused one at ts.
// A stopped cursor that is moved becomes paused.
func (p *playback) seek(ts float64) error {
	if math.IsNaN(ts) || math.IsInf(ts, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSeek, ts)
	}
	if p.state == Playing {
		p.anchor(ts)
		return nil
	}
	p.lastTimestamp = ts
	p.state = Paused
	return nil
}

func validSpeed(s float64) bool {
	return s > 0 && !math.IsInf(s, 1)
}

func (p *playback) setSpeed(s float64) error {
	if !validSpeed(s) {
		return fmt.Errorf("%w: %v", ErrInvalidSpeed, s)
	}
	if p.state == Playing {
		ts := p.current()
		p.speed = s
		p.anchor(ts)
		return nil
	}
	p.speed = s
	return nil
}

func (p *playback) current() float64 {
	if p.state == Playing {
		return p.clock.Since(p.lastStartedAt).Seconds() * p.speed
	}
	return p.lastTimestamp
}

// resolve returns the cursor for an update, restarting from zero when a
// looping cursor has run past final.
func (p *playback) resolve(final float64) float64 {
	t := p.current()
	if p.state == Playing && p.loop && t > final {
		p.lastStartedAt = p.clock.Now()
		t = 0
	}
	return t
}

// mirror copies the clock and cursor of src, leaving the loop flag alone.
func (p *playback) mirror(src *playback) {
	p.clock = src.clock
	p.state = src.state
	p.speed = src.speed
	p.lastStartedAt = src.lastStartedAt
	p.lastTimestamp = src.lastTimestamp
}

// CurrentTimestamp returns the playback cursor in seconds.
func (p *playback) CurrentTimestamp() float64 {
	return p.current()
}

// State returns the current playback state.
func (p *playback) State() State {
	return p.state
}

func (p *playback) IsPlaying() bool { return p.state == Playing }
func (p *playback) IsPaused() bool  { return p.state == Paused }
func (p *playback) IsStopped() bool { return p.state == Stopped }

// Speed returns the playback rate multiplier.
func (p *playback) Speed() float64 {
	return p.speed
}

// Loop reports whether playback restarts after the final timestamp.
func (p *playback) Loop() bool {
	return p.loop
}
