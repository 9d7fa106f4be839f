// Package anim implements a keyframe-based attribute animation engine. An
// AttributeAnimation holds time-stamped values of a single typed attribute
// and produces a continuous value at an arbitrary query time by linear or
// cubic-spline interpolation, plus discrete event frames fired as playback
// crosses them.
package anim

import (
	"fmt"
	"image"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Kind identifies the runtime type held by a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindFloat
	KindVector2
	KindVector3
	KindVector4
	KindQuaternion
	KindColor
	KindIntRect
	KindIntVector2
	KindInt
	KindBool
	KindString
)

var kindNames = map[Kind]string{
	KindNone:       "None",
	KindFloat:      "Float",
	KindVector2:    "Vector2",
	KindVector3:    "Vector3",
	KindVector4:    "Vector4",
	KindQuaternion: "Quaternion",
	KindColor:      "Color",
	KindIntRect:    "IntRect",
	KindIntVector2: "IntVector2",
	KindInt:        "Int",
	KindBool:       "Bool",
	KindString:     "String",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "None"
}

// KindFromName returns the Kind for a name produced by Kind.String.
func KindFromName(name string) Kind {
	for k, n := range kindNames {
		if n == name {
			return k
		}
	}
	return KindNone
}

// Value is a closed tagged union over the kinds an animation can hold.
// The zero Value has KindNone.
type Value struct {
	kind Kind
	data interface{}
}

// Kind returns the runtime type of the held value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNone reports whether the value is empty.
func (v Value) IsNone() bool {
	return v.kind == KindNone
}

func FloatValue(f float64) Value           { return Value{KindFloat, f} }
func Vector2Value(v mgl64.Vec2) Value      { return Value{KindVector2, v} }
func Vector3Value(v mgl64.Vec3) Value      { return Value{KindVector3, v} }
func Vector4Value(v mgl64.Vec4) Value      { return Value{KindVector4, v} }
func QuaternionValue(q mgl64.Quat) Value   { return Value{KindQuaternion, q} }
func ColorValue(c colorful.Color) Value    { return Value{KindColor, c} }
func IntRectValue(r image.Rectangle) Value { return Value{KindIntRect, r} }
func IntVector2Value(p image.Point) Value  { return Value{KindIntVector2, p} }
func IntValue(i int) Value                 { return Value{KindInt, i} }
func BoolValue(b bool) Value               { return Value{KindBool, b} }
func StringValue(s string) Value           { return Value{KindString, s} }

// Typed getters return the zero value of their type on a kind mismatch.

func (v Value) Float() float64 {
	f, _ := v.data.(float64)
	return f
}

func (v Value) Vector2() mgl64.Vec2 {
	x, _ := v.data.(mgl64.Vec2)
	return x
}

func (v Value) Vector3() mgl64.Vec3 {
	x, _ := v.data.(mgl64.Vec3)
	return x
}

func (v Value) Vector4() mgl64.Vec4 {
	x, _ := v.data.(mgl64.Vec4)
	return x
}

func (v Value) Quaternion() mgl64.Quat {
	q, _ := v.data.(mgl64.Quat)
	return q
}

func (v Value) Color() colorful.Color {
	c, _ := v.data.(colorful.Color)
	return c
}

func (v Value) IntRect() image.Rectangle {
	r, _ := v.data.(image.Rectangle)
	return r
}

func (v Value) IntVector2() image.Point {
	p, _ := v.data.(image.Point)
	return p
}

func (v Value) Int() int {
	i, _ := v.data.(int)
	return i
}

func (v Value) Bool() bool {
	b, _ := v.data.(bool)
	return b
}

func (v Value) Str() string {
	s, _ := v.data.(string)
	return s
}

// String encodes the held value as the persisted scalar form.
func (v Value) String() string {
	switch v.kind {
	case KindFloat:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case KindVector2:
		x := v.Vector2()
		return fmt.Sprintf("%g %g", x[0], x[1])
	case KindVector3:
		x := v.Vector3()
		return fmt.Sprintf("%g %g %g", x[0], x[1], x[2])
	case KindVector4:
		x := v.Vector4()
		return fmt.Sprintf("%g %g %g %g", x[0], x[1], x[2], x[3])
	case KindQuaternion:
		q := v.Quaternion()
		return fmt.Sprintf("%g %g %g %g", q.W, q.V[0], q.V[1], q.V[2])
	case KindColor:
		c := v.Color()
		return fmt.Sprintf("%g %g %g", c.R, c.G, c.B)
	case KindIntRect:
		r := v.IntRect()
		return fmt.Sprintf("%d %d %d %d", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
	case KindIntVector2:
		p := v.IntVector2()
		return fmt.Sprintf("%d %d", p.X, p.Y)
	case KindInt:
		return strconv.Itoa(v.Int())
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindString:
		return v.Str()
	}
	return ""
}

// ParseValue decodes the persisted scalar form of the given kind.
func ParseValue(kind Kind, s string) (Value, error) {
	switch kind {
	case KindNone:
		return Value{}, nil
	case KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, fmt.Errorf("parse float value %q: %w", s, err)
		}
		return FloatValue(f), nil
	case KindVector2:
		var x mgl64.Vec2
		if _, err := fmt.Sscan(s, &x[0], &x[1]); err != nil {
			return Value{}, fmt.Errorf("parse vector2 value %q: %w", s, err)
		}
		return Vector2Value(x), nil
	case KindVector3:
		var x mgl64.Vec3
		if _, err := fmt.Sscan(s, &x[0], &x[1], &x[2]); err != nil {
			return Value{}, fmt.Errorf("parse vector3 value %q: %w", s, err)
		}
		return Vector3Value(x), nil
	case KindVector4:
		var x mgl64.Vec4
		if _, err := fmt.Sscan(s, &x[0], &x[1], &x[2], &x[3]); err != nil {
			return Value{}, fmt.Errorf("parse vector4 value %q: %w", s, err)
		}
		return Vector4Value(x), nil
	case KindQuaternion:
		var q mgl64.Quat
		if _, err := fmt.Sscan(s, &q.W, &q.V[0], &q.V[1], &q.V[2]); err != nil {
			return Value{}, fmt.Errorf("parse quaternion value %q: %w", s, err)
		}
		return QuaternionValue(q), nil
	case KindColor:
		var c colorful.Color
		if _, err := fmt.Sscan(s, &c.R, &c.G, &c.B); err != nil {
			return Value{}, fmt.Errorf("parse color value %q: %w", s, err)
		}
		return ColorValue(c), nil
	case KindIntRect:
		var r image.Rectangle
		if _, err := fmt.Sscan(s, &r.Min.X, &r.Min.Y, &r.Max.X, &r.Max.Y); err != nil {
			return Value{}, fmt.Errorf("parse intrect value %q: %w", s, err)
		}
		return IntRectValue(r), nil
	case KindIntVector2:
		var p image.Point
		if _, err := fmt.Sscan(s, &p.X, &p.Y); err != nil {
			return Value{}, fmt.Errorf("parse intvector2 value %q: %w", s, err)
		}
		return IntVector2Value(p), nil
	case KindInt:
		i, err := strconv.Atoi(s)
		if err != nil {
			return Value{}, fmt.Errorf("parse int value %q: %w", s, err)
		}
		return IntValue(i), nil
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Value{}, fmt.Errorf("parse bool value %q: %w", s, err)
		}
		return BoolValue(b), nil
	case KindString:
		return StringValue(s), nil
	}
	return Value{}, fmt.Errorf("parse value: unknown kind %d", kind)
}

// StringHash is a 32-bit case-insensitive SDBM hash used to identify event
// types and event payload keys.
type StringHash uint32

// NewStringHash hashes a string, lowercasing ASCII letters first.
func NewStringHash(s string) StringHash {
	var h uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		h = uint32(c) + (h << 6) + (h << 16) - h
	}
	return StringHash(h)
}

// ValueMap is an event payload keyed by hashed identifiers.
type ValueMap map[StringHash]Value
