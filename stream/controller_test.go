package stream

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/require"
)

type solidAnimation struct {
	colour colorful.Color
}

func (s *solidAnimation) CalculateFrame(runtimeMs int64) *Frame {
	f := NewFrame(2)
	for i := range f.pixels {
		f.pixels[i] = s.colour
	}
	return f
}

func TestControllerHoldsCurrentAnimation(t *testing.T) {
	red := &solidAnimation{colour: colorful.Color{R: 1}}
	blue := &solidAnimation{colour: colorful.Color{B: 1}}

	c := NewController([]Animation{red, blue}, 30, 1.0)

	f := c.CalculateFrame(0)
	require.InDelta(t, 1.0, f.pixels[0].R, 1e-6)
	f = c.CalculateFrame(33)
	require.InDelta(t, 1.0, f.pixels[0].R, 1e-6)
}

func TestControllerCrossfadesOnCycle(t *testing.T) {
	red := &solidAnimation{colour: colorful.Color{R: 1}}
	blue := &solidAnimation{colour: colorful.Color{B: 1}}

	// One frame per second of transition, so a single frame completes the
	// crossfade.
	c := NewController([]Animation{red, blue}, 1, 1.0)
	c.cycleAnimation()

	c.CalculateFrame(0)
	f := c.CalculateFrame(1000)
	require.InDelta(t, 1.0, f.pixels[0].B, 1e-6)
	require.Nil(t, c.nextAnimation)

	// Cycling wraps back to the first animation.
	c.cycleAnimation()
	require.Same(t, Animation(red), c.nextAnimation)
}

func TestControllerSingleAnimationNeverCycles(t *testing.T) {
	red := &solidAnimation{colour: colorful.Color{R: 1}}
	c := NewController([]Animation{red}, 30, 1.0)
	c.cycleAnimation()
	require.Nil(t, c.nextAnimation)
}
