// Package keyframe stores sparse, timestamped samples of an animated attribute.
package keyframe

import (
	"errors"
)

var (
	// ErrEmptyStore is returned when a store with no keyframes is queried.
	ErrEmptyStore = errors.New("keyframe store is empty")
	// ErrArityMismatch is returned when a value's length differs from the
	// values already held by the store.
	ErrArityMismatch = errors.New("keyframe value arity mismatch")
	// ErrInvalidTimestamp is returned for NaN or infinite timestamps.
	ErrInvalidTimestamp = errors.New("invalid keyframe timestamp")
)

// Vector is a fixed-arity sample: 1 component for scalars, 3 for
// position/scale/euler angles, 3 or 4 for RGB(A) colours.
type Vector []float64

// Clone returns a copy of v that shares no memory with it.
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Equal reports whether v and o hold the same components.
func (v Vector) Equal(o Vector) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

// Lerp blends v towards o by fraction f and writes the result into out,
// which must have the same length as v.
func (v Vector) Lerp(o Vector, f float64, out Vector) Vector {
	for i := range v {
		out[i] = v[i] + (o[i]-v[i])*f
	}
	return out
}

// Keyframe is a single sample. PreCP and PostCP are the optional Bézier
// control points entering and leaving the keyframe; nil means unset.
type Keyframe struct {
	Timestamp float64
	Value     Vector
	PreCP     Vector
	PostCP    Vector
}

// InControl returns the control point used when a segment ends at k.
func (k Keyframe) InControl() Vector {
	if k.PreCP != nil {
		return k.PreCP
	}
	return k.Value
}

// OutControl returns the control point used when a segment starts at k.
func (k Keyframe) OutControl() Vector {
	if k.PostCP != nil {
		return k.PostCP
	}
	return k.Value
}
