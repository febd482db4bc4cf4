package keyframe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	s := NewStore()
	require.NoError(t, s.SetValue(2, Vector{11, 2, 0}))
	require.NoError(t, s.SetValue(1, Vector{1, 2, 3}))
	require.NoError(t, s.SetValue(3, Vector{0, 0, 0}))
	return s
}

func TestStoreKeepsTimestampsSorted(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, []float64{1, 2, 3}, s.Timestamps())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 3, s.Arity())

	assert.True(t, s.Remove(2))
	assert.False(t, s.Remove(2))
	assert.Equal(t, []float64{1, 3}, s.Timestamps())
}

func TestStoreOverwrite(t *testing.T) {
	s := newTestStore(t)
	v := s.Version()
	require.NoError(t, s.SetValue(2, Vector{5, 5, 5}))

	assert.Equal(t, 3, s.Len())
	assert.Greater(t, s.Version(), v)
	k, ok := s.Get(2)
	require.True(t, ok)
	assert.Equal(t, Vector{5, 5, 5}, k.Value)
}

func TestStoreCopiesValues(t *testing.T) {
	s := NewStore()
	v := Vector{1, 2, 3}
	require.NoError(t, s.SetValue(0, v))
	v[0] = 100

	k, _ := s.Get(0)
	assert.Equal(t, Vector{1, 2, 3}, k.Value)
}

func TestStoreRejectsBadInput(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.SetValue(4, Vector{1}), ErrArityMismatch)
	assert.ErrorIs(t, s.SetValue(math.NaN(), Vector{1, 2, 3}), ErrInvalidTimestamp)
	assert.ErrorIs(t, s.SetValue(math.Inf(1), Vector{1, 2, 3}), ErrInvalidTimestamp)
	assert.ErrorIs(t, s.Set(Keyframe{Timestamp: 5, Value: Vector{1, 2, 3}, PreCP: Vector{1}}), ErrArityMismatch)

	single := NewStore()
	require.NoError(t, single.SetValue(0, Vector{1}))
	assert.NoError(t, single.SetValue(0, Vector{1, 2, 3}), "overwriting the only keyframe may change arity")
}

func TestStoreCheckLeavesStoreUnchanged(t *testing.T) {
	s := newTestStore(t)
	version := s.Version()

	assert.NoError(t, s.Check(Keyframe{Timestamp: 9, Value: Vector{1, 1, 1}}))
	assert.ErrorIs(t, s.Check(Keyframe{Timestamp: 9, Value: Vector{1}}), ErrArityMismatch)
	assert.ErrorIs(t, s.Check(Keyframe{Timestamp: math.NaN(), Value: Vector{1, 1, 1}}), ErrInvalidTimestamp)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, version, s.Version())

	assert.NoError(t, NewStore().Check(Keyframe{Timestamp: 0, Value: Vector{1}}))
}

func TestStoreNeighbors(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name         string
		t            float64
		lower, upper float64
	}{
		{"below range", -5, 1, 1},
		{"at first", 1, 1, 2},
		{"inside", 1.5, 1, 2},
		{"at middle", 2, 2, 3},
		{"at last", 3, 3, 3},
		{"above range", 99, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi, err := s.Neighbors(tt.t)
			require.NoError(t, err)
			assert.Equal(t, tt.lower, lo)
			assert.Equal(t, tt.upper, hi)
		})
	}
}

func TestStoreSingleKeyframeNeighbors(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.SetValue(4, Vector{1}))
	for _, q := range []float64{-100, 0, 4, 1e9} {
		lo, hi, err := s.Neighbors(q)
		require.NoError(t, err)
		assert.Equal(t, lo, hi)
	}
}

func TestStoreEmpty(t *testing.T) {
	s := NewStore()
	_, _, err := s.Neighbors(0)
	assert.ErrorIs(t, err, ErrEmptyStore)
	_, err = s.Last()
	assert.ErrorIs(t, err, ErrEmptyStore)
}

func TestKeyframeControlDefaults(t *testing.T) {
	k := Keyframe{Timestamp: 0, Value: Vector{1, 1, 1}}
	assert.Equal(t, k.Value, k.InControl())
	assert.Equal(t, k.Value, k.OutControl())

	k.PostCP = Vector{2, 2, 2}
	assert.Equal(t, Vector{2, 2, 2}, k.OutControl())
}
