package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/keyframe/api"
	"github.com/matt-g-everett/keyframe/stream"
	"github.com/matt-g-everett/keyframe/timeline"
	"gopkg.in/yaml.v2"
)

type app struct {
	Config     stream.Config
	Client     mqtt.Client
	Controller *stream.Controller
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
	if err := a.Controller.Subscribe(client, a.Config.Mqtt.Topics.Control, a.Config.Mqtt.Qos); err != nil {
		log.Printf("Failed to subscribe to %s: %v", a.Config.Mqtt.Topics.Control, err)
	}
}

func (a *app) run(ctx context.Context) {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		panic(token.Error())
	}
	defer a.Client.Disconnect(250)

	if err := a.Controller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Controller stopped: %v", err)
	}
}

func (a *app) readConfig(configPath string) {
	f, err := os.Open(configPath)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(&a.Config)
	if err != nil {
		panic(err)
	}
	a.Config.SetDefaults()
}

func main() {
	// mqtt.DEBUG = log.New(os.Stdout, "", 0)
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	verbose := flag.Bool("v", false, "Log skipped channels and other playback detail.")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	timeline.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Read the config
	a := newApp()
	a.readConfig(*configPath)
	log.Printf("Config: stream=%+v scene timelines=%d", a.Config.Stream, len(a.Config.Scene.Timelines))

	scene, err := stream.BuildScene(a.Config.Scene)
	if err != nil {
		log.Fatalf("Invalid scene: %v", err)
	}
	a.Controller = stream.NewController(scene, a.Config.Stream.Pixels, a.Config.Stream.FrameRate, clock.New())

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID(a.Config.Mqtt.ClientID).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)

	switch a.Config.Stream.Mode {
	case stream.ModeFrames:
		a.Controller.SetStreamer(stream.NewStreamer(a.Client, a.Config.Mqtt.Topics.Stream, a.Config.Mqtt.Qos))
	case stream.ModeUniforms:
		a.Controller.AttachUniforms(a.Client, a.Config.Mqtt.Topics.Uniforms, a.Config.Mqtt.Qos)
	case stream.ModeBoth:
		a.Controller.SetStreamer(stream.NewStreamer(a.Client, a.Config.Mqtt.Topics.Stream, a.Config.Mqtt.Qos))
		a.Controller.AttachUniforms(a.Client, a.Config.Mqtt.Topics.Uniforms, a.Config.Mqtt.Qos)
	default:
		log.Fatalf("Unknown stream mode %q", a.Config.Stream.Mode)
	}

	server := api.NewApi(a.Controller, a.Config.Api.Listen, a.Config.Api.Static)
	go func() {
		if err := server.Serve(); err != nil {
			log.Printf("Api stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Controller.Play()
	a.run(ctx)
}
