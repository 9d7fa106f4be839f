package anim

import (
	"errors"
	"image"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// InterpolationMethod selects how values between keyframes are computed.
type InterpolationMethod uint8

const (
	InterpolationLinear InterpolationMethod = iota
	InterpolationSpline
)

// ErrTypeMismatch is returned when a keyframe value's kind differs from the
// animation's locked value type.
var ErrTypeMismatch = errors.New("anim: keyframe value type does not match animation value type")

// KeyFrame is a single (time, value) sample on the timeline.
type KeyFrame struct {
	Time  float64
	Value Value
}

// EventFrame is a discrete event marker fired as playback crosses its time.
type EventFrame struct {
	Time      float64
	EventType StringHash
	EventData ValueMap
}

// AttributeAnimation animates a single named attribute from a sorted list of
// keyframes. The value type locks on the first keyframe inserted; later
// inserts of a different kind are rejected. Not safe for concurrent use, and
// sampling in spline mode may mutate the tangent cache.
type AttributeAnimation struct {
	objectAnimation *ObjectAnimation

	valueType           Kind
	interpolationMethod InterpolationMethod
	isInterpolatable    bool
	splineTension       float64

	keyFrames   []KeyFrame
	eventFrames []EventFrame
	beginTime   float64
	endTime     float64

	splineTangents      []Value
	splineTangentsDirty bool
}

// NewAttributeAnimation creates an empty animation with linear interpolation
// and the default spline tension.
func NewAttributeAnimation() *AttributeAnimation {
	return &AttributeAnimation{
		valueType:           KindNone,
		interpolationMethod: InterpolationLinear,
		splineTension:       0.5,
		beginTime:           math.Inf(1),
		endTime:             math.Inf(-1),
	}
}

// SetValueType locks the animation to a value kind, clearing any existing
// keyframes. Interpolatability derives from the kind; IntRect and IntVector2
// interpolate but only linearly.
func (a *AttributeAnimation) SetValueType(valueType Kind) {
	if valueType == a.valueType {
		return
	}

	a.valueType = valueType
	a.isInterpolatable = valueType == KindFloat || valueType == KindVector2 || valueType == KindVector3 ||
		valueType == KindVector4 || valueType == KindQuaternion || valueType == KindColor

	if valueType == KindIntRect || valueType == KindIntVector2 {
		a.isInterpolatable = true
		// Integer kinds only support linear interpolation.
		a.interpolationMethod = InterpolationLinear
	}

	a.keyFrames = a.keyFrames[:0]
	a.beginTime = math.Inf(1)
	a.endTime = math.Inf(-1)
}

// ValueType returns the locked value kind, or KindNone before the first
// keyframe.
func (a *AttributeAnimation) ValueType() Kind {
	return a.valueType
}

// IsInterpolatable reports whether sampled values are interpolated rather
// than stepped.
func (a *AttributeAnimation) IsInterpolatable() bool {
	return a.isInterpolatable
}

// SetInterpolationMethod selects linear or spline interpolation. Integer
// kinds stay linear regardless of the requested method.
func (a *AttributeAnimation) SetInterpolationMethod(method InterpolationMethod) {
	if method == a.interpolationMethod {
		return
	}

	if a.valueType == KindIntRect || a.valueType == KindIntVector2 {
		method = InterpolationLinear
	}

	a.interpolationMethod = method
	a.splineTangentsDirty = true
}

// InterpolationMethod returns the effective interpolation method.
func (a *AttributeAnimation) InterpolationMethod() InterpolationMethod {
	return a.interpolationMethod
}

// SetSplineTension sets the tangent scale for spline interpolation. The
// value is not range checked; degenerate tensions give degenerate curves.
func (a *AttributeAnimation) SetSplineTension(tension float64) {
	a.splineTension = tension
	a.splineTangentsDirty = true
}

// SplineTension returns the current spline tension.
func (a *AttributeAnimation) SplineTension() float64 {
	return a.splineTension
}

// SetKeyFrame inserts a keyframe preserving time order. The first keyframe
// adopts the value's kind; later keyframes must match it or the insert fails
// with ErrTypeMismatch.
func (a *AttributeAnimation) SetKeyFrame(time float64, value Value) error {
	if a.valueType == KindNone {
		a.SetValueType(value.Kind())
	} else if value.Kind() != a.valueType {
		return ErrTypeMismatch
	}

	a.beginTime = math.Min(time, a.beginTime)
	a.endTime = math.Max(time, a.endTime)

	keyFrame := KeyFrame{Time: time, Value: value}

	if len(a.keyFrames) == 0 || time >= a.keyFrames[len(a.keyFrames)-1].Time {
		a.keyFrames = append(a.keyFrames, keyFrame)
	} else {
		for i := range a.keyFrames {
			if time < a.keyFrames[i].Time {
				a.keyFrames = append(a.keyFrames, KeyFrame{})
				copy(a.keyFrames[i+1:], a.keyFrames[i:])
				a.keyFrames[i] = keyFrame
				break
			}
		}
	}

	a.splineTangentsDirty = true

	return nil
}

// SetEventFrame inserts an event frame preserving time order. Event frames
// carry no type constraint. A nil payload is stored as an empty map so that
// stored and reloaded frames agree.
func (a *AttributeAnimation) SetEventFrame(time float64, eventType StringHash, eventData ValueMap) {
	if eventData == nil {
		eventData = ValueMap{}
	}
	eventFrame := EventFrame{Time: time, EventType: eventType, EventData: eventData}

	if len(a.eventFrames) == 0 || time >= a.eventFrames[len(a.eventFrames)-1].Time {
		a.eventFrames = append(a.eventFrames, eventFrame)
	} else {
		for i := range a.eventFrames {
			if time < a.eventFrames[i].Time {
				a.eventFrames = append(a.eventFrames, EventFrame{})
				copy(a.eventFrames[i+1:], a.eventFrames[i:])
				a.eventFrames[i] = eventFrame
				break
			}
		}
	}
}

// IsValid reports whether the animation has enough keyframes for its
// interpolation method. Sampling must be gated on this.
func (a *AttributeAnimation) IsValid() bool {
	return (a.interpolationMethod == InterpolationLinear && len(a.keyFrames) > 1) ||
		(a.interpolationMethod == InterpolationSpline && len(a.keyFrames) > 2)
}

// HasEventFrames reports whether any event frames exist.
func (a *AttributeAnimation) HasEventFrames() bool {
	return len(a.eventFrames) > 0
}

// BeginTime returns the earliest keyframe time, or +Inf when empty.
func (a *AttributeAnimation) BeginTime() float64 {
	return a.beginTime
}

// EndTime returns the latest keyframe time, or -Inf when empty.
func (a *AttributeAnimation) EndTime() float64 {
	return a.endTime
}

// KeyFrames returns the sorted keyframe list. The slice is owned by the
// animation and must not be mutated.
func (a *AttributeAnimation) KeyFrames() []KeyFrame {
	return a.keyFrames
}

// SetObjectAnimation records the owning aggregate. Called by ObjectAnimation.
func (a *AttributeAnimation) SetObjectAnimation(objectAnimation *ObjectAnimation) {
	a.objectAnimation = objectAnimation
}

// ObjectAnimation returns the owning aggregate, or nil.
func (a *AttributeAnimation) ObjectAnimation() *ObjectAnimation {
	return a.objectAnimation
}

// UpdateAttributeValue samples the animation at scaledTime and delivers the
// result to the target's attribute setter.
func (a *AttributeAnimation) UpdateAttributeValue(target Animatable, info AttributeInfo, scaledTime float64) {
	target.SetAnimatedAttribute(info, a.AnimatedValue(scaledTime))
}

// AnimatedValue samples the animation at scaledTime. Times at or past the
// last keyframe clamp to the last keyframe's value. The caller must ensure
// IsValid.
func (a *AttributeAnimation) AnimatedValue(scaledTime float64) Value {
	index := 1
	for ; index < len(a.keyFrames); index++ {
		if scaledTime < a.keyFrames[index].Time {
			break
		}
	}

	if index >= len(a.keyFrames) || !a.isInterpolatable {
		return a.keyFrames[index-1].Value
	}

	if a.interpolationMethod == InterpolationLinear {
		return a.linearInterpolation(index-1, index, scaledTime)
	}
	return a.splineInterpolation(index-1, index, scaledTime)
}

// EventFrames appends pointers to every event frame with time in
// [beginTime, endTime) to dst and returns it, in ascending time order. The
// pointers stay valid until the next mutating call on the animation.
func (a *AttributeAnimation) EventFrames(beginTime, endTime float64, dst []*EventFrame) []*EventFrame {
	for i := range a.eventFrames {
		eventFrame := &a.eventFrames[i]
		if eventFrame.Time >= endTime {
			break
		}
		if eventFrame.Time >= beginTime {
			dst = append(dst, eventFrame)
		}
	}
	return dst
}

func (a *AttributeAnimation) linearInterpolation(index1, index2 int, scaledTime float64) Value {
	keyFrame1 := &a.keyFrames[index1]
	keyFrame2 := &a.keyFrames[index2]

	t := (scaledTime - keyFrame1.Time) / (keyFrame2.Time - keyFrame1.Time)
	return a.lerp(keyFrame1.Value, keyFrame2.Value, t)
}

func (a *AttributeAnimation) lerp(value1, value2 Value, t float64) Value {
	switch a.valueType {
	case KindFloat:
		f1 := value1.Float()
		return FloatValue(f1 + (value2.Float()-f1)*t)

	case KindVector2:
		v1 := value1.Vector2()
		return Vector2Value(v1.Add(value2.Vector2().Sub(v1).Mul(t)))

	case KindVector3:
		v1 := value1.Vector3()
		return Vector3Value(v1.Add(value2.Vector3().Sub(v1).Mul(t)))

	case KindVector4:
		v1 := value1.Vector4()
		return Vector4Value(v1.Add(value2.Vector4().Sub(v1).Mul(t)))

	case KindQuaternion:
		return QuaternionValue(mgl64.QuatSlerp(value1.Quaternion(), value2.Quaternion(), t))

	case KindColor:
		c1 := value1.Color()
		c2 := value2.Color()
		return ColorValue(colorful.Color{
			R: c1.R + (c2.R-c1.R)*t,
			G: c1.G + (c2.G-c1.G)*t,
			B: c1.B + (c2.B-c1.B)*t,
		})

	case KindIntRect:
		s := 1.0 - t
		r1 := value1.IntRect()
		r2 := value2.IntRect()
		return IntRectValue(image.Rect(
			int(float64(r1.Min.X)*s+float64(r2.Min.X)*t),
			int(float64(r1.Min.Y)*s+float64(r2.Min.Y)*t),
			int(float64(r1.Max.X)*s+float64(r2.Max.X)*t),
			int(float64(r1.Max.Y)*s+float64(r2.Max.Y)*t)))

	case KindIntVector2:
		s := 1.0 - t
		p1 := value1.IntVector2()
		p2 := value2.IntVector2()
		return IntVector2Value(image.Pt(
			int(float64(p1.X)*s+float64(p2.X)*t),
			int(float64(p1.Y)*s+float64(p2.Y)*t)))
	}

	log.Printf("anim: invalid value type %s for linear interpolation", a.valueType)
	return Value{}
}

func (a *AttributeAnimation) splineInterpolation(index1, index2 int, scaledTime float64) Value {
	if a.splineTangentsDirty {
		a.updateSplineTangents()
	}

	keyFrame1 := &a.keyFrames[index1]
	keyFrame2 := &a.keyFrames[index2]

	t := (scaledTime - keyFrame1.Time) / (keyFrame2.Time - keyFrame1.Time)

	tt := t * t
	ttt := t * tt

	h1 := 2*ttt - 3*tt + 1
	h2 := -2*ttt + 3*tt
	h3 := ttt - 2*tt + t
	h4 := ttt - tt

	v1 := keyFrame1.Value
	v2 := keyFrame2.Value
	t1 := a.splineTangents[index1]
	t2 := a.splineTangents[index2]

	switch a.valueType {
	case KindFloat:
		return FloatValue(v1.Float()*h1 + v2.Float()*h2 + t1.Float()*h3 + t2.Float()*h4)

	case KindVector2:
		return Vector2Value(v1.Vector2().Mul(h1).
			Add(v2.Vector2().Mul(h2)).
			Add(t1.Vector2().Mul(h3)).
			Add(t2.Vector2().Mul(h4)))

	case KindVector3:
		return Vector3Value(v1.Vector3().Mul(h1).
			Add(v2.Vector3().Mul(h2)).
			Add(t1.Vector3().Mul(h3)).
			Add(t2.Vector3().Mul(h4)))

	case KindVector4:
		return Vector4Value(v1.Vector4().Mul(h1).
			Add(v2.Vector4().Mul(h2)).
			Add(t1.Vector4().Mul(h3)).
			Add(t2.Vector4().Mul(h4)))

	case KindQuaternion:
		// Component-wise Hermite blend, not a true rotational spline.
		return QuaternionValue(v1.Quaternion().Scale(h1).
			Add(v2.Quaternion().Scale(h2)).
			Add(t1.Quaternion().Scale(h3)).
			Add(t2.Quaternion().Scale(h4)))

	case KindColor:
		c1 := v1.Color()
		c2 := v2.Color()
		g1 := t1.Color()
		g2 := t2.Color()
		return ColorValue(colorful.Color{
			R: c1.R*h1 + c2.R*h2 + g1.R*h3 + g2.R*h4,
			G: c1.G*h1 + c2.G*h2 + g1.G*h3 + g2.G*h4,
			B: c1.B*h1 + c2.B*h2 + g1.B*h3 + g2.B*h4,
		})
	}

	log.Printf("anim: invalid value type %s for spline interpolation", a.valueType)
	return Value{}
}

// updateSplineTangents rebuilds the Catmull-Rom style tangent cache. End
// tangents are exactly zero, clamping the curve flat at both ends.
func (a *AttributeAnimation) updateSplineTangents() {
	a.splineTangents = a.splineTangents[:0]

	if !a.IsValid() {
		return
	}

	size := len(a.keyFrames)
	a.splineTangents = make([]Value, size)

	for i := 1; i < size-1; i++ {
		a.splineTangents[i] = a.subtractAndMultiply(a.keyFrames[i+1].Value, a.keyFrames[i-1].Value, a.splineTension)
	}

	zero := a.subtractAndMultiply(a.keyFrames[0].Value, a.keyFrames[0].Value, a.splineTension)
	a.splineTangents[0] = zero
	a.splineTangents[size-1] = zero

	a.splineTangentsDirty = false
}

func (a *AttributeAnimation) subtractAndMultiply(value1, value2 Value, t float64) Value {
	switch a.valueType {
	case KindFloat:
		return FloatValue((value1.Float() - value2.Float()) * t)

	case KindVector2:
		return Vector2Value(value1.Vector2().Sub(value2.Vector2()).Mul(t))

	case KindVector3:
		return Vector3Value(value1.Vector3().Sub(value2.Vector3()).Mul(t))

	case KindVector4:
		return Vector4Value(value1.Vector4().Sub(value2.Vector4()).Mul(t))

	case KindQuaternion:
		return QuaternionValue(value1.Quaternion().Sub(value2.Quaternion()).Scale(t))

	case KindColor:
		c1 := value1.Color()
		c2 := value2.Color()
		return ColorValue(colorful.Color{R: (c1.R - c2.R) * t, G: (c1.G - c2.G) * t, B: (c1.B - c2.B) * t})
	}

	log.Printf("anim: invalid value type %s for spline interpolation", a.valueType)
	return Value{}
}
