package anim

import (
	"io"
	"sort"

	"github.com/matt-g-everett/animtx/markup"
)

// SaveMarkup writes one keyframe child per keyframe and one eventframe child
// per event frame, in current sorted order.
func (a *AttributeAnimation) SaveMarkup(dest *markup.Node) error {
	for i := range a.keyFrames {
		keyFrame := &a.keyFrames[i]
		elem := dest.CreateChild("keyframe")
		elem.SetFloat("time", keyFrame.Time)
		writeValue(elem, keyFrame.Value)
	}

	for i := range a.eventFrames {
		eventFrame := &a.eventFrames[i]
		elem := dest.CreateChild("eventframe")
		elem.SetFloat("time", eventFrame.Time)
		elem.SetUInt("eventtype", uint32(eventFrame.EventType))
		writeValueMap(elem.CreateChild("eventdata"), eventFrame.EventData)
	}

	return nil
}

// LoadMarkup resets the animation and replays keyframes and event frames in
// document order. Insertion re-sorts regardless of document order.
func (a *AttributeAnimation) LoadMarkup(source *markup.Node) error {
	a.SetValueType(KindNone)
	a.eventFrames = a.eventFrames[:0]

	for elem := source.Child("keyframe"); elem != nil; elem = elem.Next("keyframe") {
		value, err := readValue(elem)
		if err != nil {
			return err
		}
		if err := a.SetKeyFrame(elem.Float("time"), value); err != nil {
			return err
		}
	}

	for elem := source.Child("eventframe"); elem != nil; elem = elem.Next("eventframe") {
		eventData := ValueMap{}
		if dataElem := elem.Child("eventdata"); dataElem != nil {
			var err error
			if eventData, err = readValueMap(dataElem); err != nil {
				return err
			}
		}
		a.SetEventFrame(elem.Float("time"), StringHash(elem.UInt("eventtype")), eventData)
	}

	return nil
}

// Save writes the animation as a markup byte stream.
func (a *AttributeAnimation) Save(w io.Writer) error {
	doc := markup.NewDocument("attributeanimation")
	if err := a.SaveMarkup(doc.Root()); err != nil {
		return err
	}
	return doc.Save(w)
}

// Load reads a markup byte stream written by Save.
func (a *AttributeAnimation) Load(r io.Reader) error {
	doc, err := markup.Load(r)
	if err != nil {
		return err
	}
	return a.LoadMarkup(doc.Root())
}

func writeValue(dest *markup.Node, value Value) {
	dest.SetString("type", value.Kind().String())
	dest.SetString("value", value.String())
}

func readValue(source *markup.Node) (Value, error) {
	return ParseValue(KindFromName(source.String("type")), source.String("value"))
}

func writeValueMap(dest *markup.Node, values ValueMap) {
	hashes := make([]StringHash, 0, len(values))
	for hash := range values {
		hashes = append(hashes, hash)
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })

	for _, hash := range hashes {
		elem := dest.CreateChild("variant")
		elem.SetUInt("hash", uint32(hash))
		writeValue(elem, values[hash])
	}
}

func readValueMap(source *markup.Node) (ValueMap, error) {
	values := ValueMap{}
	for elem := source.Child("variant"); elem != nil; elem = elem.Next("variant") {
		value, err := readValue(elem)
		if err != nil {
			return nil, err
		}
		values[StringHash(elem.UInt("hash"))] = value
	}
	return values, nil
}
