package models

// Property is a key/value pair stored as strings and coerced on read.
type Property struct {
	Key   string `json:"key" yaml:"key"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Value string `json:"value" yaml:"value"`
}

// NewProperty builds a property from a typed value, recording its tag.
func NewProperty(key string, v Value) Property {
	return Property{Key: key, Type: string(v.Kind()), Value: v.String()}
}

// Typed coerces the stored value. An empty stored value is absent.
func (p Property) Typed() (Value, bool) {
	if p.Value == "" {
		return Value{}, false
	}

	return Coerce(p.Type, p.Value)
}

// Properties is an element's property collection. Keys are unique.
type Properties []Property

// Get returns the property with the given key.
func (ps Properties) Get(key string) (Property, bool) {
	for _, p := range ps {
		if p.Key == key {
			return p, true
		}
	}

	return Property{}, false
}

// Value returns the coerced value of the property with the given key.
func (ps Properties) Value(key string) (Value, bool) {
	p, ok := ps.Get(key)
	if !ok {
		return Value{}, false
	}

	return p.Typed()
}

// Set upserts p, replacing any existing property with the same key in place.
func (ps Properties) Set(p Property) Properties {
	for i := range ps {
		if ps[i].Key == p.Key {
			ps[i] = p
			return ps
		}
	}

	return append(ps, p)
}

// Remove drops the property with the given key.
func (ps Properties) Remove(key string) Properties {
	for i := range ps {
		if ps[i].Key == key {
			return append(ps[:i], ps[i+1:]...)
		}
	}

	return ps
}

// Keys returns property keys in collection order.
func (ps Properties) Keys() []string {
	keys := make([]string, len(ps))
	for i, p := range ps {
		keys[i] = p.Key
	}

	return keys
}

// normalized collapses duplicate keys, keeping the last value at the first position.
func (ps Properties) normalized() Properties {
	out := make(Properties, 0, len(ps))
	for _, p := range ps {
		out = out.Set(p)
	}

	return out
}
