package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/matt-g-everett/keyframe/stream"
	"github.com/matt-g-everett/keyframe/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeControls struct {
	calls []string
	st    stream.Status
}

func (f *fakeControls) Play()    { f.calls = append(f.calls, "play"); f.st.State = "playing" }
func (f *fakeControls) Pause()   { f.calls = append(f.calls, "pause"); f.st.State = "paused" }
func (f *fakeControls) Stop()    { f.calls = append(f.calls, "stop"); f.st.State = "stopped" }
func (f *fakeControls) Restart() { f.calls = append(f.calls, "restart"); f.st.State = "playing" }

func (f *fakeControls) Seek(t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return timeline.ErrInvalidSeek
	}
	f.calls = append(f.calls, "seek")
	f.st.Timestamp = t
	return nil
}

func (f *fakeControls) SetSpeed(v float64) error {
	if v <= 0 || math.IsInf(v, 1) || math.IsNaN(v) {
		return timeline.ErrInvalidSpeed
	}
	f.calls = append(f.calls, "speed")
	f.st.Speed = v
	return nil
}

func (f *fakeControls) SetLoop(loop bool) {
	f.calls = append(f.calls, "loop")
	f.st.Loop = loop
}

func (f *fakeControls) Status() stream.Status { return f.st }

func do(t *testing.T, h http.Handler, method, target string) (*httptest.ResponseRecorder, stream.Status) {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var st stream.Status
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	}
	return rec, st
}

func TestCommands(t *testing.T) {
	fc := &fakeControls{st: stream.Status{State: "stopped", Speed: 1}}
	h := NewApi(fc, ":0", "").Handler()

	rec, st := do(t, h, http.MethodPost, "/api/play")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "playing", st.State)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	_, st = do(t, h, http.MethodPost, "/api/seek?t=2.5")
	assert.Equal(t, 2.5, st.Timestamp)

	_, st = do(t, h, http.MethodPost, "/api/speed?v=3")
	assert.Equal(t, 3.0, st.Speed)

	_, st = do(t, h, http.MethodPost, "/api/loop?on=true")
	assert.True(t, st.Loop)

	_, st = do(t, h, http.MethodPost, "/api/pause")
	assert.Equal(t, "paused", st.State)
	do(t, h, http.MethodPost, "/api/restart")
	_, st = do(t, h, http.MethodPost, "/api/stop")
	assert.Equal(t, "stopped", st.State)

	assert.Equal(t, []string{"play", "seek", "speed", "loop", "pause", "restart", "stop"}, fc.calls)
}

func TestStatus(t *testing.T) {
	fc := &fakeControls{st: stream.Status{State: "paused", Timestamp: 4, Final: 10, Speed: 1}}
	h := NewApi(fc, ":0", "").Handler()

	rec, st := do(t, h, http.MethodGet, "/api/status")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fc.st, st)

	rec, _ = do(t, h, http.MethodPost, "/api/status")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestBadRequests(t *testing.T) {
	fc := &fakeControls{}
	h := NewApi(fc, ":0", "").Handler()

	for _, target := range []string{
		"/api/seek", "/api/seek?t=abc", "/api/seek?t=NaN", "/api/seek?t=-Inf",
		"/api/speed?v=0", "/api/speed?v=Inf", "/api/speed?v=NaN", "/api/loop?on=maybe",
	} {
		rec, _ := do(t, h, http.MethodPost, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}

	rec, _ := do(t, h, http.MethodGet, "/api/play")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Empty(t, fc.calls)

	rec, _ = do(t, h, http.MethodGet, "/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNonFiniteValuesKeepControllerStatus(t *testing.T) {
	scene, err := stream.BuildScene(stream.SceneConfig{
		Background: "#000000",
		Speed:      1,
		Timelines: []stream.TimelineConfig{{
			Name: "dot",
			Channels: []stream.ChannelConfig{{
				Name: "position",
				Keyframes: []stream.KeyframeConfig{
					{T: 0, Value: []float64{0}},
					{T: 10, Value: []float64{9}},
				},
			}},
		}},
	}, timeline.WithClock(clock.NewMock()))
	require.NoError(t, err)
	controller := stream.NewController(scene, 10, 30, clock.NewMock())
	h := NewApi(controller, ":0", "").Handler()

	rec, st := do(t, h, http.MethodPost, "/api/seek?t=4")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4.0, st.Timestamp)

	for _, target := range []string{"/api/seek?t=NaN", "/api/seek?t=Inf", "/api/speed?v=NaN", "/api/speed?v=Inf"} {
		rec, _ = do(t, h, http.MethodPost, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}

	rec, st = do(t, h, http.MethodGet, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4.0, st.Timestamp)
	assert.Equal(t, 1.0, st.Speed)
	assert.Equal(t, 10.0, st.Final)
}
