package stream

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ErrUnknownCommand is returned for control messages that cannot be parsed.
var ErrUnknownCommand = errors.New("unknown command")

// Status is a snapshot of the scene's playback.
type Status struct {
	State     string  `json:"state"`
	Timestamp float64 `json:"timestamp"`
	Final     float64 `json:"final"`
	Speed     float64 `json:"speed"`
	Loop      bool    `json:"loop"`
}

// Controller drives a Scene at a fixed frame rate and publishes the result
// as frames, uniforms or both. Its methods are safe to call from the HTTP
// and MQTT handlers while Run is ticking.
type Controller struct {
	mu       sync.Mutex
	scene    *Scene
	frame    *Frame
	streamer *Streamer
	uniforms []*UniformPublisher
	clock    clock.Clock
	interval time.Duration
}

// NewController creates an instance of a Controller.
func NewController(scene *Scene, numPixels int, frameRate float64, clk clock.Clock) *Controller {
	c := new(Controller)
	c.scene = scene
	c.frame = NewFrame(numPixels)
	c.clock = clk
	if c.clock == nil {
		c.clock = clock.New()
	}
	if frameRate <= 0 {
		frameRate = 30
	}
	c.interval = time.Duration(float64(time.Second) / frameRate)
	return c
}

// SetStreamer enables frame output.
func (c *Controller) SetStreamer(s *Streamer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.streamer = s
}

// AttachUniforms gives every timeline in the scene its own uniform
// publisher on topic/<timeline name>.
func (c *Controller) AttachUniforms(client mqtt.Client, topic string, qos byte) []*UniformPublisher {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range c.scene.Names() {
		tl, _ := c.scene.Timeline(name)
		u := NewUniformPublisher(client, fmt.Sprintf("%s/%s", topic, name), qos)
		tl.AttachUniformSink(u)
		c.uniforms = append(c.uniforms, u)
	}
	out := make([]*UniformPublisher, len(c.uniforms))
	copy(out, c.uniforms)
	return out
}

// Frame returns the most recently rendered frame.
func (c *Controller) Frame() *Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Tick advances the scene by one frame and publishes it.
func (c *Controller) Tick() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.scene.Root.Update()

	var errs []error
	if c.streamer != nil {
		c.scene.Render(c.frame)
		if err := c.streamer.SendFrame(c.frame); err != nil {
			errs = append(errs, fmt.Errorf("send frame: %w", err))
		}
	}
	for _, u := range c.uniforms {
		if err := u.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("publish uniforms to %s: %w", u.Topic(), err))
		}
	}
	return errors.Join(errs...)
}

// Run ticks until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	publishTimer := c.clock.Ticker(c.interval)
	defer publishTimer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-publishTimer.C:
			if err := c.Tick(); err != nil {
				log.Printf("Tick failed: %v", err)
			}
		}
	}
}

func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scene.Root.Play()
}

func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scene.Root.Pause()
}

func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scene.Root.Stop()
}

func (c *Controller) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scene.Root.Restart()
}

func (c *Controller) Seek(t float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scene.Root.Seek(t)
}

func (c *Controller) SetSpeed(speed float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scene.Root.SetSpeed(speed)
}

func (c *Controller) SetLoop(loop bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scene.Root.SetLoop(loop)
}

// Status reports the current playback state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	root := c.scene.Root
	return Status{
		State:     root.State().String(),
		Timestamp: root.CurrentTimestamp(),
		Final:     root.FinalTimestamp(),
		Speed:     root.Speed(),
		Loop:      root.Loop(),
	}
}

// HandleCommand applies a text command such as "play", "seek 4.5",
// "speed 2" or "loop on".
func (c *Controller) HandleCommand(cmd string) error {
	fields := strings.Fields(strings.ToLower(cmd))
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty", ErrUnknownCommand)
	}

	switch fields[0] {
	case "play":
		c.Play()
	case "pause":
		c.Pause()
	case "stop":
		c.Stop()
	case "restart":
		c.Restart()
	case "seek", "speed":
		if len(fields) != 2 {
			return fmt.Errorf("%w: %s needs one argument", ErrUnknownCommand, fields[0])
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("%w: %s %q", ErrUnknownCommand, fields[0], fields[1])
		}
		if fields[0] == "seek" {
			return c.Seek(v)
		}
		return c.SetSpeed(v)
	case "loop":
		if len(fields) != 2 {
			return fmt.Errorf("%w: loop needs on or off", ErrUnknownCommand)
		}
		switch fields[1] {
		case "on", "true", "1":
			c.SetLoop(true)
		case "off", "false", "0":
			c.SetLoop(false)
		default:
			return fmt.Errorf("%w: loop %q", ErrUnknownCommand, fields[1])
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}
	return nil
}

// Subscribe listens for text commands on topic.
func (c *Controller) Subscribe(client mqtt.Client, topic string, qos byte) error {
	token := client.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		if err := c.HandleCommand(string(msg.Payload())); err != nil {
			log.Printf("Control message on %s rejected: %v", msg.Topic(), err)
		}
	})
	token.Wait()
	return token.Error()
}
