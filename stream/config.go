package stream

// Output modes for the Controller.
const (
	ModeFrames   = "frames"
	ModeUniforms = "uniforms"
	ModeBoth     = "both"
)

type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientId"`
		Qos      byte   `yaml:"qos"`
		Topics   struct {
			Stream   string `yaml:"stream"`
			Uniforms string `yaml:"uniforms"`
			Control  string `yaml:"control"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Stream struct {
		Pixels    int     `yaml:"pixels"`
		FrameRate float64 `yaml:"frameRate"`
		Mode      string  `yaml:"mode"`
	} `yaml:"stream"`
	Api struct {
		Listen string `yaml:"listen"`
		Static string `yaml:"static"`
	} `yaml:"api"`
	Scene SceneConfig `yaml:"scene"`
}

// SceneConfig describes the timelines played by the Controller. All
// timelines share one clock.
type SceneConfig struct {
	Loop       bool             `yaml:"loop"`
	Speed      float64          `yaml:"speed"`
	Background string           `yaml:"background"`
	Timelines  []TimelineConfig `yaml:"timelines"`
}

// TimelineConfig is one lit segment of the strip and its channels.
type TimelineConfig struct {
	Name     string          `yaml:"name"`
	Edge     string          `yaml:"edge"`
	Channels []ChannelConfig `yaml:"channels"`
	Gradient *GradientConfig `yaml:"gradient"`
}

type ChannelConfig struct {
	Name      string           `yaml:"name"`
	Method    string           `yaml:"method"`
	Degree    int              `yaml:"degree"`
	Ease      string           `yaml:"ease"`
	Keyframes []KeyframeConfig `yaml:"keyframes"`
}

type KeyframeConfig struct {
	T     float64   `yaml:"t"`
	Value []float64 `yaml:"value"`
	Pre   []float64 `yaml:"pre"`
	Post  []float64 `yaml:"post"`
}

// GradientConfig expands a hue table into colour keyframes spread over
// Duration seconds.
type GradientConfig struct {
	Duration  float64       `yaml:"duration"`
	Steps     int           `yaml:"steps"`
	Chroma    float64       `yaml:"chroma"`
	Luminance float64       `yaml:"luminance"`
	Table     GradientTable `yaml:"table"`
}

// SetDefaults fills in anything the YAML left out.
func (c *Config) SetDefaults() {
	if c.Mqtt.ClientID == "" {
		c.Mqtt.ClientID = "keyframe"
	}
	if c.Mqtt.Topics.Stream == "" {
		c.Mqtt.Topics.Stream = "home/xmastree/stream"
	}
	if c.Mqtt.Topics.Uniforms == "" {
		c.Mqtt.Topics.Uniforms = "home/xmastree/uniforms"
	}
	if c.Mqtt.Topics.Control == "" {
		c.Mqtt.Topics.Control = "home/xmastree/control"
	}
	if c.Stream.Pixels <= 0 {
		c.Stream.Pixels = 500
	}
	if c.Stream.Pixels > MaxPixels {
		c.Stream.Pixels = MaxPixels
	}
	if c.Stream.FrameRate <= 0 {
		c.Stream.FrameRate = 30
	}
	if c.Stream.Mode == "" {
		c.Stream.Mode = ModeFrames
	}
	if c.Api.Listen == "" {
		c.Api.Listen = ":3000"
	}
	if c.Scene.Speed <= 0 {
		c.Scene.Speed = 1
	}
	if c.Scene.Background == "" {
		c.Scene.Background = "#000005"
	}
	for i := range c.Scene.Timelines {
		g := c.Scene.Timelines[i].Gradient
		if g == nil {
			continue
		}
		if g.Steps <= 0 {
			g.Steps = 32
		}
		if g.Chroma <= 0 {
			g.Chroma = 1
		}
		if g.Luminance <= 0 {
			g.Luminance = 0.05
		}
	}
}
