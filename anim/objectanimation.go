package anim

import (
	"io"
	"sort"

	"github.com/matt-g-everett/animtx/markup"
)

// ObjectAnimation groups attribute animations by attribute name. It owns the
// animations it holds; each animation keeps a non-owning back reference for
// lookup only.
type ObjectAnimation struct {
	attributeAnimations map[string]*AttributeAnimation
}

// NewObjectAnimation creates an empty aggregate.
func NewObjectAnimation() *ObjectAnimation {
	return &ObjectAnimation{
		attributeAnimations: make(map[string]*AttributeAnimation),
	}
}

// AddAttributeAnimation registers an animation under an attribute name. An
// animation already owned by another aggregate is left untouched.
func (o *ObjectAnimation) AddAttributeAnimation(name string, animation *AttributeAnimation) {
	if animation == nil {
		return
	}
	if other := animation.ObjectAnimation(); other != nil && other != o {
		return
	}

	animation.SetObjectAnimation(o)
	o.attributeAnimations[name] = animation
}

// RemoveAttributeAnimation drops the animation for an attribute name,
// clearing its back reference.
func (o *ObjectAnimation) RemoveAttributeAnimation(name string) {
	animation, ok := o.attributeAnimations[name]
	if !ok {
		return
	}

	animation.SetObjectAnimation(nil)
	delete(o.attributeAnimations, name)
}

// AttributeAnimation returns the animation for an attribute name, or nil.
func (o *ObjectAnimation) AttributeAnimation(name string) *AttributeAnimation {
	return o.attributeAnimations[name]
}

// AttributeAnimations returns the name to animation mapping. The map is
// owned by the aggregate and must not be mutated.
func (o *ObjectAnimation) AttributeAnimations() map[string]*AttributeAnimation {
	return o.attributeAnimations
}

// SaveMarkup writes one attributeanimation child per animation, in attribute
// name order.
func (o *ObjectAnimation) SaveMarkup(dest *markup.Node) error {
	names := make([]string, 0, len(o.attributeAnimations))
	for name := range o.attributeAnimations {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		elem := dest.CreateChild("attributeanimation")
		elem.SetString("name", name)
		if err := o.attributeAnimations[name].SaveMarkup(elem); err != nil {
			return err
		}
	}
	return nil
}

// LoadMarkup replaces the aggregate's contents from a markup node written by
// SaveMarkup.
func (o *ObjectAnimation) LoadMarkup(source *markup.Node) error {
	for name := range o.attributeAnimations {
		o.RemoveAttributeAnimation(name)
	}

	for elem := source.Child("attributeanimation"); elem != nil; elem = elem.Next("attributeanimation") {
		animation := NewAttributeAnimation()
		if err := animation.LoadMarkup(elem); err != nil {
			return err
		}
		o.AddAttributeAnimation(elem.String("name"), animation)
	}
	return nil
}

// Save writes the aggregate as a markup byte stream.
func (o *ObjectAnimation) Save(w io.Writer) error {
	doc := markup.NewDocument("objectanimation")
	if err := o.SaveMarkup(doc.Root()); err != nil {
		return err
	}
	return doc.Save(w)
}

// Load reads a markup byte stream written by Save.
func (o *ObjectAnimation) Load(r io.Reader) error {
	doc, err := markup.Load(r)
	if err != nil {
		return err
	}
	return o.LoadMarkup(doc.Root())
}
