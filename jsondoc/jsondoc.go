// Package jsondoc adapts JSON documents to predql schemas, so a compiled
// predicate can filter raw record bytes without a struct type.
package jsondoc

import (
	"fmt"

	"github.com/araddon/dateparse"
	"github.com/valyala/fastjson"

	"github.com/predql/predql"
)

// Field describes one JSON member exposed to filter expressions. Object
// kinds carry nested fields.
type Field struct {
	Name   string  `yaml:"name"`
	Kind   string  `yaml:"kind"` // string, int, float, bool, time, object
	Fields []Field `yaml:"fields,omitempty"`
}

// Schema builds a predql schema whose getters read from parsed JSON
// values. Records handed to the resulting predicate must be
// *fastjson.Value; missing members surface as absent values.
func Schema(typeName string, fields []Field) (*predql.Schema, error) {
	s := predql.NewSchema(typeName)
	for _, f := range fields {
		if err := addField(s, typeName, f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func addField(s *predql.Schema, typeName string, f Field) error {
	name := f.Name
	switch f.Kind {
	case "string":
		s.AddString(name, func(rec any) any {
			v := member(rec, name)
			if v == nil {
				return nil
			}
			b, err := v.StringBytes()
			if err != nil {
				return nil
			}
			return string(b)
		})
	case "int":
		s.AddInt(name, func(rec any) any {
			v := member(rec, name)
			if v == nil {
				return nil
			}
			i, err := v.Int64()
			if err != nil {
				return nil
			}
			return i
		})
	case "float":
		s.AddFloat(name, func(rec any) any {
			v := member(rec, name)
			if v == nil {
				return nil
			}
			fv, err := v.Float64()
			if err != nil {
				return nil
			}
			return fv
		})
	case "bool":
		s.AddBool(name, func(rec any) any {
			v := member(rec, name)
			if v == nil {
				return nil
			}
			b, err := v.Bool()
			if err != nil {
				return nil
			}
			return b
		})
	case "time":
		s.AddTime(name, func(rec any) any {
			v := member(rec, name)
			if v == nil {
				return nil
			}
			b, err := v.StringBytes()
			if err != nil {
				return nil
			}
			t, err := dateparse.ParseAny(string(b))
			if err != nil {
				return nil
			}
			return t
		})
	case "object":
		nested, err := Schema(typeName+"."+name, f.Fields)
		if err != nil {
			return err
		}
		s.AddObject(name, nested, func(rec any) any {
			v := member(rec, name)
			if v == nil {
				return nil
			}
			return v
		})
	default:
		return fmt.Errorf("unknown field kind %q for %s.%s", f.Kind, typeName, name)
	}
	return nil
}

func member(rec any, name string) *fastjson.Value {
	v, ok := rec.(*fastjson.Value)
	if !ok || !v.Exists(name) {
		return nil
	}
	return v.Get(name)
}

// FilterFunc evaluates a compiled filter over one JSON document.
type FilterFunc func(doc []byte) (bool, error)

var parsers fastjson.ParserPool

// NewFilter wraps an already compiled predicate so it applies to raw
// JSON documents. The predicate must have been compiled against a schema
// built by this package.
func NewFilter(pred *predql.Predicate) FilterFunc {
	return func(doc []byte) (bool, error) {
		p := parsers.Get()
		defer parsers.Put(p)
		v, err := p.ParseBytes(doc)
		if err != nil {
			return false, fmt.Errorf("invalid JSON document: %v", err)
		}
		return pred.Eval(v)
	}
}

// Filter compiles expr against the schema and returns a function that
// applies it to raw JSON documents.
func Filter(schema *predql.Schema, expr string) (FilterFunc, error) {
	pred, err := predql.Deserialize(schema, expr)
	if err != nil {
		return nil, err
	}
	return NewFilter(pred), nil
}
