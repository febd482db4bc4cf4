package timeline

import (
	"github.com/matt-g-everett/keyframe/interp"
	"github.com/matt-g-everett/keyframe/keyframe"
)

// Well-known channel names. Any other name is a custom channel whose values
// are evaluated but only readable through Timeline.Value.
const (
	ChannelPosition       = "position"
	ChannelScale          = "scale"
	ChannelColor          = "color"
	ChannelOpacity        = "opacity"
	ChannelRotation       = "rotation"
	ChannelCameraPosition = "camera_position"
	ChannelCameraFocal    = "camera_focal"
	ChannelCameraViewUp   = "camera_view_up"
)

// Property is the sink attribute a channel writes to.
type Property int

const (
	PropertyCustom Property = iota
	PropertyPosition
	PropertyScale
	PropertyColor
	PropertyOpacity
	PropertyOrientation
	PropertyCameraPosition
	PropertyCameraFocal
	PropertyCameraViewUp
)

func propertyFor(name string) Property {
	switch name {
	case ChannelPosition:
		return PropertyPosition
	case ChannelScale:
		return PropertyScale
	case ChannelColor:
		return PropertyColor
	case ChannelOpacity:
		return PropertyOpacity
	case ChannelRotation:
		return PropertyOrientation
	case ChannelCameraPosition:
		return PropertyCameraPosition
	case ChannelCameraFocal:
		return PropertyCameraFocal
	case ChannelCameraViewUp:
		return PropertyCameraViewUp
	}
	return PropertyCustom
}

func defaultMethod(p Property) interp.Method {
	if p == PropertyOrientation {
		return interp.Slerp
	}
	return interp.Linear
}

// Channel is one animated attribute of a Timeline: its keyframes, the
// interpolator reading them and the last value written out.
type Channel struct {
	name     string
	property Property
	store    *keyframe.Store
	interp   *interp.Interpolator

	out   keyframe.Vector
	valid bool
}

func newChannel(name string) *Channel {
	ch := new(Channel)
	ch.name = name
	ch.property = propertyFor(name)
	ch.store = keyframe.NewStore()
	// Linear and Slerp accept an empty store, so this cannot fail.
	ch.interp, _ = interp.New(ch.store, defaultMethod(ch.property))
	return ch
}

// Name returns the channel name.
func (ch *Channel) Name() string { return ch.name }

// Property returns the sink attribute the channel drives.
func (ch *Channel) Property() Property { return ch.property }

// Store returns the channel's keyframes.
func (ch *Channel) Store() *keyframe.Store { return ch.store }

// Method returns the interpolation method in use.
func (ch *Channel) Method() interp.Method { return ch.interp.Method() }

// Interpolatable reports whether the channel has any keyframes.
func (ch *Channel) Interpolatable() bool {
	return ch.store.Len() > 0
}

// Output returns the value computed by the most recent update.
func (ch *Channel) Output() (keyframe.Vector, bool) {
	return ch.out, ch.valid
}

func (ch *Channel) setMethod(m interp.Method) error {
	ip, err := interp.New(ch.store, m)
	if err != nil {
		return err
	}
	ch.interp = ip
	return nil
}

// evaluate refreshes the output buffer at t.
func (ch *Channel) evaluate(t float64) (keyframe.Vector, error) {
	v, err := ch.interp.Evaluate(t)
	if err != nil {
		ch.valid = false
		return nil, err
	}
	if len(ch.out) != len(v) {
		ch.out = make(keyframe.Vector, len(v))
	}
	copy(ch.out, v)
	ch.valid = true
	return ch.out, nil
}
