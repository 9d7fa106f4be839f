package anim

// AttributeInfo names the attribute an animation drives on its target.
type AttributeInfo struct {
	Name string
	Kind Kind
}

// Animatable is a target that can receive computed attribute values. The
// sampler calls SetAnimatedAttribute once per sample.
type Animatable interface {
	SetAnimatedAttribute(info AttributeInfo, value Value)
}
