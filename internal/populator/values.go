package populator

import (
	"bytes"
	"encoding"
	"encoding/json"
	"reflect"

	"gopkg.in/yaml.v3"
)

// Record is a populated composite that has no Go constructor. Fields keep
// declaration order.
type Record struct {
	Type   string
	Fields []RecordField
}

type RecordField struct {
	Name  string
	Value interface{}
}

func (r *Record) Get(name string) (interface{}, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONPair(&buf, f.Name, f.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range r.Fields {
		val := new(yaml.Node)
		if err := val.Encode(f.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: f.Name}, val)
	}
	return node, nil
}

// OrderedMap keeps entries in insertion order. Setting an existing key
// replaces its value in place.
type OrderedMap struct {
	keys   []interface{}
	values []interface{}
	index  map[interface{}]int
}

func NewOrderedMap() *OrderedMap {
	return &OrderedMap{index: make(map[interface{}]int)}
}

func (m *OrderedMap) Set(key, value interface{}) {
	if i, ok := m.find(key); ok {
		m.values[i] = value
		return
	}
	if hashable(key) {
		m.index[key] = len(m.keys)
	}
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
}

func (m *OrderedMap) Get(key interface{}) (interface{}, bool) {
	i, ok := m.find(key)
	if !ok {
		return nil, false
	}
	return m.values[i], true
}

func (m *OrderedMap) Len() int { return len(m.keys) }

func (m *OrderedMap) Keys() []interface{} {
	return append([]interface{}(nil), m.keys...)
}

func (m *OrderedMap) Values() []interface{} {
	return append([]interface{}(nil), m.values...)
}

// find falls back to a deep comparison for keys such as lists that cannot be
// used as Go map keys.
func (m *OrderedMap) find(key interface{}) (int, bool) {
	if hashable(key) {
		i, ok := m.index[key]
		return i, ok
	}
	for i, k := range m.keys {
		if !hashable(k) && reflect.DeepEqual(k, key) {
			return i, true
		}
	}
	return 0, false
}

func hashable(v interface{}) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).Comparable()
}

// MarshalJSON writes an object when every key is a scalar. Keys that are not
// strings are rendered with their text or JSON encoding. A map with composite
// or list keys is written as an array of {"key","value"} pairs instead, since
// distinct keys may share an encoding.
func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	if !m.scalarKeys() {
		return json.Marshal(m.entries())
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := jsonKey(k)
		if err != nil {
			return nil, err
		}
		if err := writeJSONPair(&buf, name, m.values[i]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *OrderedMap) MarshalYAML() (interface{}, error) {
	if !m.scalarKeys() {
		return m.entries(), nil
	}
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, k := range m.keys {
		key := new(yaml.Node)
		if err := key.Encode(k); err != nil {
			return nil, err
		}
		val := new(yaml.Node)
		if err := val.Encode(m.values[i]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

// MapEntry is one pair of a map serialized as a list.
type MapEntry struct {
	Key   interface{} `json:"key" yaml:"key"`
	Value interface{} `json:"value" yaml:"value"`
}

func (m *OrderedMap) entries() []MapEntry {
	out := make([]MapEntry, len(m.keys))
	for i, k := range m.keys {
		out[i] = MapEntry{Key: k, Value: m.values[i]}
	}
	return out
}

func (m *OrderedMap) scalarKeys() bool {
	for _, k := range m.keys {
		if !isScalarKey(k) {
			return false
		}
	}
	return true
}

func isScalarKey(k interface{}) bool {
	if k == nil {
		return true
	}
	if _, ok := k.(encoding.TextMarshaler); ok {
		return true
	}
	switch reflect.ValueOf(k).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func jsonKey(k interface{}) (string, error) {
	switch key := k.(type) {
	case string:
		return key, nil
	case encoding.TextMarshaler:
		b, err := key.MarshalText()
		return string(b), err
	}
	b, err := json.Marshal(k)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func writeJSONPair(buf *bytes.Buffer, name string, value interface{}) error {
	kb, err := json.Marshal(name)
	if err != nil {
		return err
	}
	vb, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(kb)
	buf.WriteByte(':')
	buf.Write(vb)
	return nil
}
