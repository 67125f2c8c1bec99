package convention

import "sort"

// Mapping is an insertion-ordered set of uniquely named fields.
// The zero value is an empty mapping ready to use.
type Mapping struct {
	fields []Field
	index  map[string]int
}

func NewMapping(fields ...Field) *Mapping {
	m := &Mapping{}
	for _, f := range fields {
		m.Set(f.Name, f.Value)
	}
	return m
}

// MappingFromMap builds a mapping from a Go map, ordered by key.
func MappingFromMap(values map[string]any) *Mapping {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m := &Mapping{}
	for _, k := range keys {
		m.Set(k, values[k])
	}
	return m
}

// Set adds name, or replaces its value in place when it is already present.
func (m *Mapping) Set(name string, value any) *Mapping {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[name]; ok {
		m.fields[i].Value = value
		return m
	}
	m.index[name] = len(m.fields)
	m.fields = append(m.fields, Field{Name: name, Value: value})
	return m
}

func (m *Mapping) Get(name string) (any, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.fields[i].Value, true
}

func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.fields)
}

// Fields returns a copy of the fields in insertion order.
func (m *Mapping) Fields() []Field {
	if m == nil {
		return nil
	}
	out := make([]Field, len(m.fields))
	copy(out, m.fields)
	return out
}

// LogFields makes a nested mapping render like any other composite.
func (m *Mapping) LogFields() []Field {
	return m.Fields()
}
