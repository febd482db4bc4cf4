package stream

import (
	"encoding/json"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/keyframe/timeline"
)

// UniformPayload is the JSON document a UniformPublisher sends. It always
// carries the full uniform state so a receiver that joins late can start
// interpolating from the next message.
type UniformPayload struct {
	Floats map[string]float64    `json:"f"`
	Vec3   map[string][3]float64 `json:"v3"`
	Ints   map[string]int        `json:"i"`
}

// A UniformPublisher is a uniform sink backed by an MQTT topic. A receiver
// subscribed to the topic holds the current keyframe pair per channel and
// evaluates it against the published time, in the same way a shader would.
type UniformPublisher struct {
	client mqtt.Client
	topic  string
	qos    byte

	state UniformPayload
	dirty bool
	hooks []func()
}

var _ timeline.UniformSink = (*UniformPublisher)(nil)

// NewUniformPublisher creates a publisher writing to topic.
func NewUniformPublisher(client mqtt.Client, topic string, qos byte) *UniformPublisher {
	u := new(UniformPublisher)
	u.client = client
	u.topic = topic
	u.qos = qos
	u.state = UniformPayload{
		Floats: make(map[string]float64),
		Vec3:   make(map[string][3]float64),
		Ints:   make(map[string]int),
	}
	return u
}

// Topic returns the topic the publisher writes to.
func (u *UniformPublisher) Topic() string {
	return u.topic
}

func (u *UniformPublisher) Uniformf(name string) (float64, bool) {
	v, ok := u.state.Floats[name]
	return v, ok
}

func (u *UniformPublisher) SetUniformf(name string, v float64) {
	u.state.Floats[name] = v
	u.dirty = true
}

func (u *UniformPublisher) SetUniform3f(name string, v [3]float64) {
	u.state.Vec3[name] = v
	u.dirty = true
}

func (u *UniformPublisher) SetUniformi(name string, v int) {
	u.state.Ints[name] = v
	u.dirty = true
}

func (u *UniformPublisher) OnDraw(fn func()) {
	u.hooks = append(u.hooks, fn)
}

// Flush runs the draw hooks and publishes the uniform state if anything
// changed since the last flush.
func (u *UniformPublisher) Flush() error {
	for _, fn := range u.hooks {
		fn()
	}
	if !u.dirty {
		return nil
	}

	b, err := json.Marshal(u.state)
	if err != nil {
		return err
	}
	token := u.client.Publish(u.topic, u.qos, false, b)
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}
	u.dirty = false
	return nil
}
