package timeline

import (
	"testing"

	"github.com/matt-g-everett/keyframe/interp"
	"github.com/matt-g-everett/keyframe/keyframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridgeUploadsOnPairChange(t *testing.T) {
	tl := New()
	require.NoError(t, tl.Translate(0, [3]float64{0, 0, 0}))
	require.NoError(t, tl.Translate(10, [3]float64{10, 0, 0}))
	require.NoError(t, tl.Translate(20, [3]float64{20, 5, 0}))

	s := newFakeSink()
	tl.AttachUniformSink(s)
	require.Len(t, s.hooks, 1)

	tl.UpdateAt(2)
	s.draw()
	prefix := UniformPrefix(ChannelPosition)
	assert.Equal(t, "position_k", prefix)
	assert.Equal(t, interp.CodeLinear, s.ints[prefix+".method"])
	assert.Equal(t, 0.0, s.floats[prefix+".start.t"])
	assert.Equal(t, 10.0, s.floats[prefix+".end.t"])
	assert.Equal(t, [3]float64{10, 0, 0}, s.vecs[prefix+".end.data"])
	uploads := s.uploads

	tl.UpdateAt(7)
	s.draw()
	assert.Equal(t, uploads, s.uploads, "same pair, no upload")

	tl.UpdateAt(12)
	s.draw()
	assert.Greater(t, s.uploads, uploads)
	assert.Equal(t, 10.0, s.floats[prefix+".start.t"])
	assert.Equal(t, [3]float64{20, 5, 0}, s.vecs[prefix+".end.data"])
	uploads = s.uploads

	require.NoError(t, tl.Translate(20, [3]float64{30, 5, 0}))
	s.draw()
	assert.Greater(t, s.uploads, uploads, "store mutation invalidates the upload")
	assert.Equal(t, [3]float64{30, 5, 0}, s.vecs[prefix+".end.data"])
	uploads = s.uploads

	require.NoError(t, tl.SetInterpolator(ChannelPosition, interp.Step))
	s.draw()
	assert.Greater(t, s.uploads, uploads, "method change invalidates the upload")
	assert.Equal(t, interp.CodeStep, s.ints[prefix+".method"])
}

func TestBridgeSkipsMethodsWithoutCode(t *testing.T) {
	tl := New()
	require.NoError(t, tl.Rotate(0, [3]float64{0, 0, 0}))
	require.NoError(t, tl.Rotate(1, [3]float64{0, 0, 90}))

	s := newFakeSink()
	tl.AttachUniformSink(s)
	tl.UpdateAt(0.5)
	s.draw()

	assert.Equal(t, 0, s.uploads)
	assert.Empty(t, s.ints)
	assert.Empty(t, s.vecs)
	assert.Equal(t, 0.5, s.floats[TimeUniform])
}

func TestBridgeScalarAndColourChannels(t *testing.T) {
	tl := New()
	require.NoError(t, tl.SetOpacity(0, 0.5))
	require.NoError(t, tl.SetOpacity(1, 1))
	require.NoError(t, tl.SetColor(0, [3]float64{1, 0, 0}))
	require.NoError(t, tl.SetColor(1, [3]float64{0, 0, 1}))
	require.NoError(t, tl.SetInterpolator(ChannelColor, interp.HSV))

	s := newFakeSink()
	tl.AttachUniformSink(s)
	tl.UpdateAt(0.25)
	s.draw()

	op := UniformPrefix(ChannelOpacity)
	assert.Equal(t, [3]float64{0.5, 0.5, 0.5}, s.vecs[op+".start.data"])

	col := UniformPrefix(ChannelColor)
	assert.Equal(t, interp.CodeHSV, s.ints[col+".method"])
	assert.InDelta(t, 240.0, s.vecs[col+".end.data"][0], 1e-9, "colour methods upload space values")
}

func TestBridgeWithoutTimeUniform(t *testing.T) {
	tl := New()
	require.NoError(t, tl.SetKeyframe("custom", 0, keyframe.Vector{1}))
	s := newFakeSink()
	b := NewBridge(tl)
	b.Draw(s)
	assert.Empty(t, s.ints)
}

func TestBridgeTracksSinksSeparately(t *testing.T) {
	tl := New()
	require.NoError(t, tl.SetOpacity(0, 0))
	require.NoError(t, tl.SetOpacity(1, 1))

	s1, s2 := newFakeSink(), newFakeSink()
	tl.AttachUniformSink(s1)
	tl.UpdateAt(0.5)
	s1.draw()
	tl.AttachUniformSink(s2)
	tl.UpdateAt(0.5)
	s2.draw()

	assert.Positive(t, s1.uploads)
	assert.Positive(t, s2.uploads)
}

func TestBridgeUploadsColourAlpha(t *testing.T) {
	tl := New()
	require.NoError(t, tl.SetKeyframe(ChannelColor, 0, keyframe.Vector{1, 0, 0, 0.25}))
	require.NoError(t, tl.SetKeyframe(ChannelColor, 1, keyframe.Vector{0, 0, 1, 0.75}))
	require.NoError(t, tl.SetOpacity(0, 1))

	s := newFakeSink()
	tl.AttachUniformSink(s)
	tl.UpdateAt(0.5)
	s.draw()

	col := UniformPrefix(ChannelColor)
	assert.Equal(t, [3]float64{1, 0, 0}, s.vecs[col+".start.data"])
	assert.Equal(t, 0.25, s.floats[col+".start.alpha"])
	assert.Equal(t, 0.75, s.floats[col+".end.alpha"])

	require.NoError(t, tl.SetInterpolator(ChannelColor, interp.HSV))
	s.draw()
	assert.InDelta(t, 240.0, s.vecs[col+".end.data"][0], 1e-9)
	assert.Equal(t, 0.25, s.floats[col+".start.alpha"], "alpha survives the space conversion")
	assert.Equal(t, 0.75, s.floats[col+".end.alpha"])

	_, ok := s.floats[UniformPrefix(ChannelOpacity)+".start.alpha"]
	assert.False(t, ok, "scalars have no alpha")
}
