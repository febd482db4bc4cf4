package timeline

import (
	"fmt"
	"math"
	"reflect"
)

// Child is anything a Composite can drive: a *Timeline or a nested
// *Composite.
type Child interface {
	UpdateAt(t float64)
	FinalTimestamp() float64
	CurrentTimestamp() float64
	State() State

	attach(parent *Composite) error
	detach()
	attached() bool
	contains(c *Composite) bool
	playbacks(fn func(*playback))
}

// Composite synchronises child timelines to one clock. Playback commands
// are mirrored onto every descendant, and Update pushes the composite's
// cursor into each child so children never read their own clocks.
type Composite struct {
	playback

	children []Child
	parent   *Composite
}

// NewComposite creates an empty Composite. Renderable and camera options
// are ignored.
func NewComposite(opts ...Option) *Composite {
	o := applyOptions(opts)

	c := new(Composite)
	c.playback = newPlayback(&o)
	return c
}

// Add appends children. A child may belong to at most one composite, and a
// composite cannot contain itself. Either every child is added or none is.
func (c *Composite) Add(children ...Child) error {
	seen := make(map[Child]bool, len(children))
	for _, child := range children {
		if child == nil || reflect.ValueOf(child).IsNil() {
			return fmt.Errorf("%w: nil child", ErrInvalidTarget)
		}
		if child.contains(c) {
			return fmt.Errorf("%w: composite cannot contain itself", ErrInvalidTarget)
		}
		if seen[child] || child.attached() {
			return fmt.Errorf("%w: child already belongs to a composite", ErrInvalidTarget)
		}
		seen[child] = true
	}

	for _, child := range children {
		if err := child.attach(c); err != nil {
			return err
		}
		child.playbacks(func(p *playback) { p.mirror(&c.playback) })
		c.children = append(c.children, child)
	}
	return nil
}

// Remove detaches child and reports whether it was present.
func (c *Composite) Remove(child Child) bool {
	for i, existing := range c.children {
		if existing == child {
			c.children = append(c.children[:i], c.children[i+1:]...)
			child.detach()
			return true
		}
	}
	return false
}

// Clear detaches every child.
func (c *Composite) Clear() {
	for _, child := range c.children {
		child.detach()
	}
	c.children = nil
}

// Children returns the direct children in insertion order.
func (c *Composite) Children() []Child {
	out := make([]Child, len(c.children))
	copy(out, c.children)
	return out
}

// FinalTimestamp returns the largest final timestamp among the children.
func (c *Composite) FinalTimestamp() float64 {
	final := 0.0
	for _, child := range c.children {
		final = math.Max(final, child.FinalTimestamp())
	}
	return final
}

func (c *Composite) sync() {
	for _, child := range c.children {
		child.playbacks(func(p *playback) { p.mirror(&c.playback) })
	}
}

func (c *Composite) Play() {
	c.playback.play()
	c.sync()
}

// Pause freezes the cursor and pushes the paused values to every child.
func (c *Composite) Pause() {
	c.playback.pause()
	c.sync()
	c.UpdateAt(c.lastTimestamp)
}

// Stop rewinds to zero and pushes the t=0 values to every child.
func (c *Composite) Stop() {
	c.playback.stop()
	c.sync()
	c.UpdateAt(0)
}

// Restart rewinds to zero and plays.
func (c *Composite) Restart() {
	c.playback.restart()
	c.sync()
	c.UpdateAt(0)
}

// Seek moves the cursor to t, updating children at once unless playing.
func (c *Composite) Seek(t float64) error {
	if err := c.playback.seek(t); err != nil {
		return err
	}
	c.sync()
	if c.state != Playing {
		c.UpdateAt(t)
	}
	return nil
}

// SetSpeed changes the playback rate without moving the cursor.
func (c *Composite) SetSpeed(speed float64) error {
	if err := c.playback.setSpeed(speed); err != nil {
		return err
	}
	c.sync()
	return nil
}

func (c *Composite) SetLoop(loop bool) {
	c.loop = loop
}

// Update resolves the composite cursor and drives every child with it.
func (c *Composite) Update() {
	before := c.lastStartedAt
	t := c.resolve(c.FinalTimestamp())
	if !c.lastStartedAt.Equal(before) {
		c.sync()
	}
	c.UpdateAt(t)
}

// UpdateAt drives every child with t.
func (c *Composite) UpdateAt(t float64) {
	for _, child := range c.children {
		child.UpdateAt(t)
	}
}

func (c *Composite) attach(parent *Composite) error {
	if c.parent != nil {
		return fmt.Errorf("%w: composite already belongs to a composite", ErrInvalidTarget)
	}
	c.parent = parent
	return nil
}

func (c *Composite) detach() {
	c.parent = nil
}

func (c *Composite) attached() bool {
	return c.parent != nil
}

func (c *Composite) contains(target *Composite) bool {
	if c == target {
		return true
	}
	for _, child := range c.children {
		if child.contains(target) {
			return true
		}
	}
	return false
}

func (c *Composite) playbacks(fn func(*playback)) {
	fn(&c.playback)
	for _, child := range c.children {
		child.playbacks(fn)
	}
}
