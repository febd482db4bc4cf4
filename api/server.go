package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/matt-g-everett/keyframe/stream"
)

// Controls is the playback surface the Api drives.
type Controls interface {
	Play()
	Pause()
	Stop()
	Restart()
	Seek(t float64) error
	SetSpeed(speed float64) error
	SetLoop(loop bool)
	Status() stream.Status
}

type Api struct {
	controls Controls
	listen   string
	mux      *http.ServeMux
}

// NewApi creates the HTTP control surface. When static is set, files under
// that directory are served from the root path.
func NewApi(controls Controls, listen, static string) *Api {
	a := new(Api)
	a.controls = controls
	a.listen = listen
	a.mux = http.NewServeMux()

	a.mux.HandleFunc("/api/status", a.handleStatus)
	a.mux.HandleFunc("/api/play", a.command(func(*http.Request) error { controls.Play(); return nil }))
	a.mux.HandleFunc("/api/pause", a.command(func(*http.Request) error { controls.Pause(); return nil }))
	a.mux.HandleFunc("/api/stop", a.command(func(*http.Request) error { controls.Stop(); return nil }))
	a.mux.HandleFunc("/api/restart", a.command(func(*http.Request) error { controls.Restart(); return nil }))
	a.mux.HandleFunc("/api/seek", a.command(func(r *http.Request) error {
		t, err := floatParam(r, "t")
		if err != nil {
			return err
		}
		return controls.Seek(t)
	}))
	a.mux.HandleFunc("/api/speed", a.command(func(r *http.Request) error {
		v, err := floatParam(r, "v")
		if err != nil {
			return err
		}
		return controls.SetSpeed(v)
	}))
	a.mux.HandleFunc("/api/loop", a.command(func(r *http.Request) error {
		loop, err := strconv.ParseBool(r.URL.Query().Get("on"))
		if err != nil {
			return err
		}
		controls.SetLoop(loop)
		return nil
	}))

	if static != "" {
		a.mux.Handle("/", http.FileServer(http.Dir(static)))
	}
	return a
}

// Handler returns the routed handler.
func (a *Api) Handler() http.Handler {
	return a.mux
}

// Serve listens until the server fails.
func (a *Api) Serve() error {
	log.Printf("Listening on %s...", a.listen)
	return http.ListenAndServe(a.listen, a.mux)
}

func (a *Api) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeStatus(w, a.controls.Status())
}

// command wraps a playback action: POST only, 400 on a bad request, and
// the new status as the response.
func (a *Api) command(fn func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := fn(r); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeStatus(w, a.controls.Status())
	}
}

func floatParam(r *http.Request, name string) (float64, error) {
	return strconv.ParseFloat(r.URL.Query().Get(name), 64)
}

func writeStatus(w http.ResponseWriter, st stream.Status) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(st); err != nil {
		log.Printf("Failed to write status: %v", err)
	}
}
