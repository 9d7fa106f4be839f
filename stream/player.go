package stream

import (
	"math"

	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/animtx/anim"
)

// Attribute names a Player animates on its strip.
const (
	AttrColor      = "color"
	AttrBrightness = "brightness"
	AttrOffset     = "offset"
)

// EventSink receives event frames as playback crosses them.
type EventSink func(eventType anim.StringHash, eventData anim.ValueMap)

// A Player is an Animation driven by keyframed attribute animations instead
// of hand-coded pattern logic. It animates the strip's colour, brightness
// and trail offset, looping over the longest timeline, and forwards crossed
// event frames to its sink.
type Player struct {
	numPixels  int
	animations *anim.ObjectAnimation
	events     EventSink

	colour     colorful.Color
	brightness float64
	offset     float64

	startMs  int64
	lastTime float64
	duration float64
}

// NewPlayer creates a Player over an object animation.
func NewPlayer(numPixels int, animations *anim.ObjectAnimation, runtimeMs int64, events EventSink) *Player {
	p := new(Player)
	p.numPixels = numPixels
	p.animations = animations
	p.events = events

	p.colour, _ = colorful.Hex("#404040")
	p.brightness = 1.0
	p.offset = 0.0
	p.startMs = runtimeMs

	for _, a := range animations.AttributeAnimations() {
		if end := a.EndTime(); !math.IsInf(end, 0) && end > p.duration {
			p.duration = end
		}
	}

	return p
}

// SetAnimatedAttribute applies a sampled value to the named strip attribute.
func (p *Player) SetAnimatedAttribute(info anim.AttributeInfo, value anim.Value) {
	switch info.Name {
	case AttrColor:
		p.colour = value.Color()
	case AttrBrightness:
		p.brightness = value.Float()
	case AttrOffset:
		p.offset = value.Float()
	}
}

// CalculateFrame samples every attribute animation at the looped playback
// time, fires crossed event frames and renders the strip.
func (p *Player) CalculateFrame(runtimeMs int64) *Frame {
	t := float64(runtimeMs-p.startMs) / 1000.0
	if p.duration > 0 {
		t = math.Mod(t, p.duration)
	}

	for name, a := range p.animations.AttributeAnimations() {
		if !a.IsValid() {
			continue
		}
		a.UpdateAttributeValue(p, anim.AttributeInfo{Name: name, Kind: a.ValueType()}, t)
		p.fireEvents(a, p.lastTime, t)
	}
	p.lastTime = t

	f := NewFrame(p.numPixels)
	for i := 0; i < p.numPixels; i++ {
		phase := math.Mod(float64(i)/float64(p.numPixels)+p.offset, 1.0)
		if phase < 0 {
			phase += 1.0
		}
		gain := p.brightness * ease.InOutQuad(1.0-math.Abs(2.0*phase-1.0))
		c := colorful.Color{R: p.colour.R * gain, G: p.colour.G * gain, B: p.colour.B * gain}
		f.pixels[i] = c.Clamped()
	}

	return f
}

func (p *Player) fireEvents(a *anim.AttributeAnimation, from, to float64) {
	if p.events == nil || !a.HasEventFrames() {
		return
	}

	var frames []*anim.EventFrame
	if to >= from {
		frames = a.EventFrames(from, to, nil)
	} else {
		// Playback wrapped around the loop point.
		frames = a.EventFrames(from, math.Inf(1), nil)
		frames = a.EventFrames(0, to, frames)
	}

	for _, eventFrame := range frames {
		p.events(eventFrame.EventType, eventFrame.EventData)
	}
}
