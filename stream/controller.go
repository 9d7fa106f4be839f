package stream

import (
	"time"

	"github.com/fogleman/ease"
)

// Controller that manages animations, crossfading between them on a cycle.
type Controller struct {
	players             []Animation
	index               int
	animation           Animation
	nextAnimation       Animation
	transition          float64
	transitionIncrement float64
}

// NewController creates an instance of a Controller.
func NewController(players []Animation, frameRate float64, transitionTimeSecs float64) *Controller {
	c := new(Controller)
	c.players = players
	c.animation = players[0]
	c.nextAnimation = nil
	c.transition = 0.0
	c.transitionIncrement = 1.0 / (frameRate * transitionTimeSecs)

	return c
}

func (c *Controller) CalculateFrame(runtimeMs int64) *Frame {
	var f *Frame
	if c.nextAnimation != nil {
		f1 := c.animation.CalculateFrame(runtimeMs)
		f2 := c.nextAnimation.CalculateFrame(runtimeMs)
		f = f1.Blend(f2, ease.InOutQuad(c.transition))
		c.transition += c.transitionIncrement

		if c.transition >= 1.0 {
			c.animation = c.nextAnimation
			c.nextAnimation = nil
			c.transition = 0.0
		}
	} else {
		f = c.animation.CalculateFrame(runtimeMs)
	}

	return f
}

func (c *Controller) cycleAnimation() {
	if len(c.players) < 2 || c.nextAnimation != nil {
		return
	}

	c.index = (c.index + 1) % len(c.players)
	c.nextAnimation = c.players[c.index]
}

// Run causes the Controller to cycle through animations.
func (c *Controller) Run(animationTime time.Duration) {
	publishTimer := time.NewTicker(animationTime)
	for range publishTimer.C {
		c.cycleAnimation()
	}
}
