package graph

import (
	"fmt"
	"strconv"
	"sync"
)

// Codec converts the values of one primitive type to and from strings.
type Codec struct {
	Serialize   func(value any) (string, error)
	Deserialize func(s string) (any, error)
}

// PrimitiveSerialization holds the codecs used to write property values as
// text. It is safe for concurrent use.
type PrimitiveSerialization struct {
	mu     sync.RWMutex
	codecs map[string]Codec
}

// NewPrimitiveSerialization returns codecs for String, Integer, Boolean and Float.
func NewPrimitiveSerialization() *PrimitiveSerialization {
	ps := &PrimitiveSerialization{codecs: make(map[string]Codec)}

	ps.Register(String.Name, Codec{
		Serialize:   func(v any) (string, error) { return fmt.Sprint(v), nil },
		Deserialize: func(s string) (any, error) { return s, nil },
	})
	ps.Register(Integer.Name, Codec{
		Serialize: func(v any) (string, error) { return fmt.Sprint(v), nil },
		Deserialize: func(s string) (any, error) {
			i, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not an integer", ErrMalformedValue, s)
			}

			return i, nil
		},
	})
	ps.Register(Boolean.Name, Codec{
		Serialize: func(v any) (string, error) { return fmt.Sprint(v), nil },
		Deserialize: func(s string) (any, error) {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a boolean", ErrMalformedValue, s)
			}

			return b, nil
		},
	})
	ps.Register(Float.Name, Codec{
		Serialize: func(v any) (string, error) { return fmt.Sprint(v), nil },
		Deserialize: func(s string) (any, error) {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a float", ErrMalformedValue, s)
			}

			return f, nil
		},
	})

	return ps
}

// Register installs the codec for the primitive named typeName, replacing any previous one.
func (ps *PrimitiveSerialization) Register(typeName string, c Codec) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.codecs == nil {
		ps.codecs = make(map[string]Codec)
	}

	ps.codecs[typeName] = c
}

// Has reports whether a codec is registered for typeName.
func (ps *PrimitiveSerialization) Has(typeName string) bool {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	_, ok := ps.codecs[typeName]

	return ok
}

// Serialize writes value as text. A nil value serializes to the empty string.
func (ps *PrimitiveSerialization) Serialize(typeName string, value any) (string, error) {
	if value == nil {
		return "", nil
	}

	if ev, ok := value.(EnumerationValue); ok {
		return ev.Literal, nil
	}

	c, err := ps.codec(typeName)
	if err != nil {
		return "", err
	}

	return c.Serialize(value)
}

// Deserialize reads a value of the named primitive from text.
func (ps *PrimitiveSerialization) Deserialize(typeName, s string) (any, error) {
	c, err := ps.codec(typeName)
	if err != nil {
		return nil, err
	}

	return c.Deserialize(s)
}

func (ps *PrimitiveSerialization) codec(typeName string) (Codec, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	c, ok := ps.codecs[typeName]
	if !ok {
		return Codec{}, fmt.Errorf("%w: %s", ErrNoCodec, typeName)
	}

	return c, nil
}

// SerializeProperty writes the value of the named property of n as text,
// using the enumeration literal for enumeration-typed properties.
func (ps *PrimitiveSerialization) SerializeProperty(n *DynamicNode, name string) (string, error) {
	f, err := n.feature(name, Property)
	if err != nil {
		return "", err
	}

	v := n.PropertyValue(name)
	if v == nil {
		return "", nil
	}

	if _, ok := f.Type.(*Enumeration); ok {
		ev, isEnum := v.(EnumerationValue)
		if !isEnum {
			return "", fmt.Errorf("%w: %s.%s holds %T", ErrMalformedValue, n.concept.Name, name, v)
		}

		return ev.Literal, nil
	}

	return ps.Serialize(f.Type.DataTypeName(), v)
}

// DeserializeProperty reads text into the named property of n.
func (ps *PrimitiveSerialization) DeserializeProperty(n *DynamicNode, name, s string) error {
	f, err := n.feature(name, Property)
	if err != nil {
		return err
	}

	if e, ok := f.Type.(*Enumeration); ok {
		if !e.HasLiteral(s) {
			return fmt.Errorf("%w: %q is not a literal of %s", ErrMalformedValue, s, e.Name)
		}

		return n.SetPropertyValue(name, EnumerationValue{Enumeration: e, Literal: s})
	}

	v, err := ps.Deserialize(f.Type.DataTypeName(), s)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", n.concept.Name, name, err)
	}

	return n.SetPropertyValue(name, v)
}
