package main

import (
	"flag"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v2"

	"github.com/matt-g-everett/animtx/anim"
	"github.com/matt-g-everett/animtx/stream"
)

type app struct {
	Config   stream.Config
	Client   mqtt.Client
	Streamer *stream.Streamer
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
}

func (a *app) run(controller *stream.Controller) {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		panic(token.Error())
	}

	go controller.Run(time.Duration(a.Config.Playback.AnimationSecs * float64(time.Second)))
	a.Streamer.Run()
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
}

// loadAnimations reads object animation documents from config, falling back
// to a built-in colour cycle when none are configured.
func (a *app) loadAnimations() []*anim.ObjectAnimation {
	animations := make([]*anim.ObjectAnimation, 0, len(a.Config.Playback.Documents))
	for _, path := range a.Config.Playback.Documents {
		f, err := os.Open(path)
		if err != nil {
			log.Printf("skipping animation %s: %v", path, err)
			continue
		}

		animation := anim.NewObjectAnimation()
		err = animation.Load(f)
		f.Close()
		if err != nil {
			log.Printf("skipping animation %s: %v", path, err)
			continue
		}

		animations = append(animations, animation)
	}

	if len(animations) == 0 {
		animations = append(animations, defaultAnimation())
	}

	return animations
}

// defaultAnimation builds a looping colour cycle with a spline-eased
// brightness swell and a beat event at every colour change.
func defaultAnimation() *anim.ObjectAnimation {
	objectAnimation := anim.NewObjectAnimation()

	red, _ := colorful.Hex("#802020")
	green, _ := colorful.Hex("#208020")
	blue, _ := colorful.Hex("#202080")

	colour := anim.NewAttributeAnimation()
	colour.SetKeyFrame(0.0, anim.ColorValue(red))
	colour.SetKeyFrame(5.0, anim.ColorValue(green))
	colour.SetKeyFrame(10.0, anim.ColorValue(blue))
	colour.SetKeyFrame(15.0, anim.ColorValue(red))

	beat := anim.NewStringHash("beat")
	step := anim.NewStringHash("step")
	for i, t := range []float64{0.0, 5.0, 10.0} {
		colour.SetEventFrame(t, beat, anim.ValueMap{step: anim.IntValue(i)})
	}

	brightness := anim.NewAttributeAnimation()
	brightness.SetKeyFrame(0.0, anim.FloatValue(0.4))
	brightness.SetKeyFrame(7.5, anim.FloatValue(1.0))
	brightness.SetKeyFrame(15.0, anim.FloatValue(0.4))
	brightness.SetInterpolationMethod(anim.InterpolationSpline)

	offset := anim.NewAttributeAnimation()
	offset.SetKeyFrame(0.0, anim.FloatValue(0.0))
	offset.SetKeyFrame(15.0, anim.FloatValue(3.0))

	objectAnimation.AddAttributeAnimation(stream.AttrColor, colour)
	objectAnimation.AddAttributeAnimation(stream.AttrBrightness, brightness)
	objectAnimation.AddAttributeAnimation(stream.AttrOffset, offset)

	return objectAnimation
}

func main() {
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	// Read the config
	a := newApp()
	a.readConfig(*configPath)
	log.Printf("Config: %+v", a.Config)

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID("animtx").
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	client := mqtt.NewClient(options)

	a.Client = client
	a.Streamer = stream.NewStreamer(a.Config, client)

	players := make([]stream.Animation, 0)
	for _, animation := range a.loadAnimations() {
		players = append(players,
			stream.NewPlayer(a.Config.Strip.NumPixels, animation, a.Streamer.RuntimeMs(), a.Streamer.PublishEvent))
	}

	controller := stream.NewController(players, a.Config.Strip.FrameRate, a.Config.Playback.TransitionSecs)
	a.Streamer.Play(controller)

	a.run(controller)
}
