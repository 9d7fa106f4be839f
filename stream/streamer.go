package stream

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/matt-g-everett/animtx/anim"
)

// Streamer that streams RGB data frames to an ledrx device and publishes
// animation events.
type Streamer struct {
	client    mqtt.Client
	config    Config
	animation Animation
	epoch     time.Time
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(config Config, client mqtt.Client) *Streamer {
	s := new(Streamer)
	s.config = config
	s.client = client
	s.epoch = time.Now()

	return s
}

// Play sets the animation the streamer renders.
func (s *Streamer) Play(animation Animation) {
	s.animation = animation
}

// RuntimeMs returns milliseconds since the streamer was created.
func (s *Streamer) RuntimeMs() int64 {
	return time.Since(s.epoch).Milliseconds()
}

// SendFrame sends a frame as binary over MQTT to an ledrx device.
func (s *Streamer) SendFrame() {
	if s.animation == nil {
		return
	}

	f := s.animation.CalculateFrame(s.RuntimeMs())
	b, _ := f.MarshalBinary()
	token := s.client.Publish(s.config.Mqtt.Topics.Stream, 2, false, b)
	token.Wait()
}

// PublishEvent publishes a crossed event frame as JSON. It satisfies the
// Player's EventSink.
func (s *Streamer) PublishEvent(eventType anim.StringHash, eventData anim.ValueMap) {
	payload := make(map[string]string, len(eventData))
	for hash, value := range eventData {
		payload[strconv.FormatUint(uint64(hash), 10)] = value.String()
	}

	b, err := json.Marshal(map[string]interface{}{
		"event": uint32(eventType),
		"data":  payload,
	})
	if err != nil {
		log.Printf("event marshal failed: %v", err)
		return
	}

	s.client.Publish(s.config.Mqtt.Topics.Events, 0, false, b)
}

// Run causes the Streamer to send Frames continuously.
func (s *Streamer) Run() {
	interval := time.Duration(float64(time.Second) / s.config.Strip.FrameRate)
	publishTimer := time.NewTicker(interval)
	for range publishTimer.C {
		s.SendFrame()
	}
}
