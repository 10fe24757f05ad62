package predql

import "strings"

// Kind is the closed set of value kinds the binder understands.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
	KindObject
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindObject:
		return "object"
	case KindNull:
		return "null"
	}
	return "unknown"
}

// Getter extracts a field value from a record. A nil result means the
// value is absent.
type Getter func(rec any) any

// Field describes one queryable member of a schema. Object fields carry a
// nested schema for further dotted access.
type Field struct {
	Name   string
	Kind   Kind
	Get    Getter
	Schema *Schema
}

// Schema is an explicit registry of the fields a record type exposes to
// filter expressions; nothing outside it is reachable from an expression.
// Member lookup is case-insensitive. Build a Schema fully before sharing
// it between goroutines; the compiler never mutates it.
type Schema struct {
	TypeName string
	fields   map[string]*Field
}

func NewSchema(typeName string) *Schema {
	return &Schema{TypeName: typeName, fields: make(map[string]*Field)}
}

func (s *Schema) add(name string, kind Kind, get Getter, nested *Schema) *Schema {
	s.fields[strings.ToLower(name)] = &Field{Name: name, Kind: kind, Get: get, Schema: nested}
	return s
}

// AddString registers a string-kind field. The builder methods return the
// schema so registrations chain.
func (s *Schema) AddString(name string, get Getter) *Schema {
	return s.add(name, KindString, get, nil)
}

// AddInt registers an integer-kind field. The getter should return an
// int-family value; it is normalized to int64 during evaluation.
func (s *Schema) AddInt(name string, get Getter) *Schema {
	return s.add(name, KindInt, get, nil)
}

func (s *Schema) AddFloat(name string, get Getter) *Schema {
	return s.add(name, KindFloat, get, nil)
}

func (s *Schema) AddBool(name string, get Getter) *Schema {
	return s.add(name, KindBool, get, nil)
}

func (s *Schema) AddTime(name string, get Getter) *Schema {
	return s.add(name, KindTime, get, nil)
}

// AddObject registers a nested record field whose members resolve through
// the given schema.
func (s *Schema) AddObject(name string, nested *Schema, get Getter) *Schema {
	return s.add(name, KindObject, get, nested)
}

// Field resolves a member name case-insensitively.
func (s *Schema) Field(name string) (*Field, bool) {
	f, ok := s.fields[strings.ToLower(name)]
	return f, ok
}
