package tileworld

import (
	"fmt"
	"strconv"
)

const (
	// Property types
	// see doc.mapeditor.org/en/stable/reference/tmx-map-format/#properties
	PropString = "string"
	PropInt    = "int"
	PropFloat  = "float"
	PropBool   = "bool"
)

// Properties is a more straight forward []*Property (used by the raw XML)
// that handles types a bit more gracefully. Types we don't use (color, file,
// object, class) are remembered only by their declared type.
type Properties struct {
	ints    map[string]int
	floats  map[string]float64
	strings map[string]string
	bools   map[string]bool
	types   map[string]string
}

// NewProperties returns an empty properties
func NewProperties() *Properties {
	return &Properties{
		ints:    map[string]int{},
		floats:  map[string]float64{},
		strings: map[string]string{},
		bools:   map[string]bool{},
		types:   map[string]string{},
	}
}

// Merge properties `o` into this properties
func (p *Properties) Merge(o *Properties) *Properties {
	if o == nil {
		return p
	}
	for k, v := range o.ints {
		p.SetInt(k, v)
	}
	for k, v := range o.floats {
		p.SetFloat(k, v)
	}
	for k, v := range o.strings {
		p.SetString(k, v)
	}
	for k, v := range o.bools {
		p.SetBool(k, v)
	}
	for k, t := range o.types {
		switch t {
		case PropInt, PropFloat, PropString, PropBool:
		default:
			p.clear(k)
			p.types[k] = t
		}
	}
	return p
}

// List mutates our nicer properties wrapper back into []*Property understood
// by the XML encoder
func (p *Properties) List() []*Property {
	ps := []*Property{}
	for k, v := range p.ints {
		ps = append(ps, &Property{Name: k, Value: strconv.Itoa(v), Type: PropInt})
	}
	for k, v := range p.floats {
		ps = append(ps, &Property{Name: k, Value: strconv.FormatFloat(v, 'f', -1, 64), Type: PropFloat})
	}
	for k, v := range p.bools {
		ps = append(ps, &Property{Name: k, Value: strconv.FormatBool(v), Type: PropBool})
	}
	for k, v := range p.strings {
		ps = append(ps, &Property{Name: k, Value: v, Type: PropString})
	}
	return ps
}

// newPropertiesFromList turns the XML []Property into our nicer properties
// wrapper struct. A value that doesn't parse as its declared type is an error,
// we never guess.
func newPropertiesFromList(in []*Property) (*Properties, error) {
	ps := NewProperties()

	for _, i := range in {
		switch i.Type {
		case PropInt:
			v, err := strconv.ParseInt(i.Value, 10, 64)
			if err != nil {
				return nil, &propertyError{name: i.Name, err: fmt.Errorf("%w: %q is not an int", ErrInvalidProperty, i.Value)}
			}
			ps.SetInt(i.Name, int(v))
		case PropFloat:
			v, err := strconv.ParseFloat(i.Value, 64)
			if err != nil {
				return nil, &propertyError{name: i.Name, err: fmt.Errorf("%w: %q is not a float", ErrInvalidProperty, i.Value)}
			}
			ps.SetFloat(i.Name, v)
		case PropBool:
			v, err := strconv.ParseBool(i.Value)
			if err != nil {
				return nil, &propertyError{name: i.Name, err: fmt.Errorf("%w: %q is not a bool", ErrInvalidProperty, i.Value)}
			}
			ps.SetBool(i.Name, v)
		case "", PropString:
			ps.SetString(i.Name, i.Value)
		default:
			ps.clear(i.Name)
			ps.types[i.Name] = i.Type
		}
	}

	return ps, nil
}

// Has returns if the property is set at all (regardless of type)
func (p *Properties) Has(key string) bool {
	_, ok := p.types[key]
	return ok
}

// TypeOf returns the declared type of a property, or ""
func (p *Properties) TypeOf(key string) string {
	return p.types[key]
}

// RequireString returns the string property `key` or an error if it is
// missing or not declared as a string.
func (p *Properties) RequireString(key string) (string, error) {
	if !p.Has(key) {
		return "", &propertyError{name: key, err: ErrMissingProperty}
	}
	v, ok := p.String(key)
	if !ok {
		return "", &propertyError{name: key, err: fmt.Errorf("%w: want %s, got %s", ErrInvalidProperty, PropString, p.TypeOf(key))}
	}
	return v, nil
}

// RequireInt returns the int property `key` or an error if it is missing or
// not declared as an int.
func (p *Properties) RequireInt(key string) (int, error) {
	if !p.Has(key) {
		return 0, &propertyError{name: key, err: ErrMissingProperty}
	}
	v, ok := p.Int(key)
	if !ok {
		return 0, &propertyError{name: key, err: fmt.Errorf("%w: want %s, got %s", ErrInvalidProperty, PropInt, p.TypeOf(key))}
	}
	return v, nil
}

func (p *Properties) String(key string) (string, bool) {
	v, ok := p.strings[key]
	return v, ok
}

func (p *Properties) SetString(key, value string) {
	p.clear(key)
	p.strings[key] = value
	p.types[key] = PropString
}

func (p *Properties) Int(key string) (int, bool) {
	v, ok := p.ints[key]
	return v, ok
}

func (p *Properties) SetInt(key string, value int) {
	p.clear(key)
	p.ints[key] = value
	p.types[key] = PropInt
}

func (p *Properties) Float(key string) (float64, bool) {
	v, ok := p.floats[key]
	return v, ok
}

func (p *Properties) SetFloat(key string, value float64) {
	p.clear(key)
	p.floats[key] = value
	p.types[key] = PropFloat
}

func (p *Properties) Bool(key string) (bool, bool) {
	v, ok := p.bools[key]
	return v, ok
}

func (p *Properties) SetBool(key string, value bool) {
	p.clear(key)
	p.bools[key] = value
	p.types[key] = PropBool
}

func (p *Properties) clear(key string) {
	delete(p.ints, key)
	delete(p.floats, key)
	delete(p.strings, key)
	delete(p.bools, key)
	delete(p.types, key)
}
