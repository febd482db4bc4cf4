package keyframe

import (
	"fmt"
	"math"
	"sort"
)

// Store maps timestamps to keyframes for a single channel. It keeps a sorted
// copy of the timestamps that is rebuilt on every mutation, and a version
// counter that interpolators use to invalidate cached state.
type Store struct {
	frames     map[float64]Keyframe
	timestamps []float64
	arity      int
	version    uint64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	s := new(Store)
	s.frames = make(map[float64]Keyframe)
	return s
}

// Set inserts k, overwriting any keyframe already at k.Timestamp.
// All values and control points held by one store share the same arity.
func (s *Store) Set(k Keyframe) error {
	arity, err := s.check(k)
	if err != nil {
		return err
	}

	_, existed := s.frames[k.Timestamp]
	s.arity = arity
	s.frames[k.Timestamp] = Keyframe{
		Timestamp: k.Timestamp,
		Value:     k.Value.Clone(),
		PreCP:     k.PreCP.Clone(),
		PostCP:    k.PostCP.Clone(),
	}
	if !existed {
		s.rebuild()
	}
	s.version++
	return nil
}

// Check reports the error Set would return for k without changing the
// store.
func (s *Store) Check(k Keyframe) error {
	_, err := s.check(k)
	return err
}

func (s *Store) check(k Keyframe) (int, error) {
	if math.IsNaN(k.Timestamp) || math.IsInf(k.Timestamp, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTimestamp, k.Timestamp)
	}
	if len(k.Value) == 0 {
		return 0, fmt.Errorf("%w: empty value at t=%v", ErrArityMismatch, k.Timestamp)
	}

	arity := s.arity
	if len(s.frames) == 0 || (len(s.frames) == 1 && s.has(k.Timestamp)) {
		arity = len(k.Value)
	}
	if len(k.Value) != arity {
		return 0, fmt.Errorf("%w: got %d components, store holds %d", ErrArityMismatch, len(k.Value), arity)
	}
	for _, cp := range []Vector{k.PreCP, k.PostCP} {
		if cp != nil && len(cp) != arity {
			return 0, fmt.Errorf("%w: control point has %d components, want %d", ErrArityMismatch, len(cp), arity)
		}
	}
	return arity, nil
}

// SetValue is shorthand for Set with no control points.
func (s *Store) SetValue(timestamp float64, value Vector) error {
	return s.Set(Keyframe{Timestamp: timestamp, Value: value})
}

// Remove deletes the keyframe at timestamp and reports whether one existed.
func (s *Store) Remove(timestamp float64) bool {
	if !s.has(timestamp) {
		return false
	}
	delete(s.frames, timestamp)
	s.rebuild()
	if len(s.frames) == 0 {
		s.arity = 0
	}
	s.version++
	return true
}

func (s *Store) has(timestamp float64) bool {
	_, ok := s.frames[timestamp]
	return ok
}

func (s *Store) rebuild() {
	ts := make([]float64, 0, len(s.frames))
	for t := range s.frames {
		ts = append(ts, t)
	}
	sort.Float64s(ts)
	s.timestamps = ts
}

// Len returns the number of keyframes.
func (s *Store) Len() int {
	return len(s.timestamps)
}

// Arity returns the component count of the stored values, or 0 when empty.
func (s *Store) Arity() int {
	return s.arity
}

// Version changes every time the store is mutated.
func (s *Store) Version() uint64 {
	return s.version
}

// Timestamps returns a sorted copy of the keyframe timestamps.
func (s *Store) Timestamps() []float64 {
	out := make([]float64, len(s.timestamps))
	copy(out, s.timestamps)
	return out
}

// Get returns the keyframe stored at exactly timestamp.
func (s *Store) Get(timestamp float64) (Keyframe, bool) {
	k, ok := s.frames[timestamp]
	return k, ok
}

// At returns the i-th keyframe in timestamp order.
func (s *Store) At(i int) Keyframe {
	return s.frames[s.timestamps[i]]
}

// First returns the earliest timestamp.
func (s *Store) First() (float64, error) {
	if len(s.timestamps) == 0 {
		return 0, ErrEmptyStore
	}
	return s.timestamps[0], nil
}

// Last returns the latest timestamp.
func (s *Store) Last() (float64, error) {
	if len(s.timestamps) == 0 {
		return 0, ErrEmptyStore
	}
	return s.timestamps[len(s.timestamps)-1], nil
}

// Segment returns the indices of the keyframes bracketing t. lower is the
// greatest timestamp <= t (or the first one when t is below range) and upper
// is the least timestamp > t (or the last one when t is above range).
// lower == upper when t is out of range or the store holds one keyframe.
func (s *Store) Segment(t float64) (lower, upper int, err error) {
	n := len(s.timestamps)
	if n == 0 {
		return 0, 0, ErrEmptyStore
	}

	idx := sort.Search(n, func(i int) bool { return s.timestamps[i] > t })
	lower = idx - 1
	if lower < 0 {
		lower = 0
	}
	upper = idx
	if upper > n-1 {
		upper = n - 1
	}
	return lower, upper, nil
}

// Neighbors returns the timestamps bracketing t, see Segment.
func (s *Store) Neighbors(t float64) (tLower, tUpper float64, err error) {
	lower, upper, err := s.Segment(t)
	if err != nil {
		return 0, 0, err
	}
	return s.timestamps[lower], s.timestamps[upper], nil
}
