package predql

import (
	"strings"
	"time"
)

// builtinMethod is one entry in the explicit method table. Only methods
// listed here are callable from filter expressions; there is no
// open-ended member lookup on record types, so an untrusted string can
// never reach arbitrary code.
type builtinMethod struct {
	Name   string
	Recv   Kind
	Params []Kind
	Result Kind
	Invoke func(recv any, args []any) any
}

var builtinMethods = []*builtinMethod{
	{Name: "StartsWith", Recv: KindString, Params: []Kind{KindString}, Result: KindBool,
		Invoke: func(recv any, args []any) any { return strings.HasPrefix(recv.(string), args[0].(string)) }},
	{Name: "EndsWith", Recv: KindString, Params: []Kind{KindString}, Result: KindBool,
		Invoke: func(recv any, args []any) any { return strings.HasSuffix(recv.(string), args[0].(string)) }},
	{Name: "Contains", Recv: KindString, Params: []Kind{KindString}, Result: KindBool,
		Invoke: func(recv any, args []any) any { return strings.Contains(recv.(string), args[0].(string)) }},
	{Name: "ToLower", Recv: KindString, Params: nil, Result: KindString,
		Invoke: func(recv any, args []any) any { return strings.ToLower(recv.(string)) }},
	{Name: "ToUpper", Recv: KindString, Params: nil, Result: KindString,
		Invoke: func(recv any, args []any) any { return strings.ToUpper(recv.(string)) }},
	{Name: "Trim", Recv: KindString, Params: nil, Result: KindString,
		Invoke: func(recv any, args []any) any { return strings.TrimSpace(recv.(string)) }},
	{Name: "Length", Recv: KindString, Params: nil, Result: KindInt,
		Invoke: func(recv any, args []any) any { return int64(len(recv.(string))) }},
	{Name: "After", Recv: KindTime, Params: []Kind{KindTime}, Result: KindBool,
		Invoke: func(recv any, args []any) any { return recv.(time.Time).After(args[0].(time.Time)) }},
	{Name: "Before", Recv: KindTime, Params: []Kind{KindTime}, Result: KindBool,
		Invoke: func(recv any, args []any) any { return recv.(time.Time).Before(args[0].(time.Time)) }},
	{Name: "Year", Recv: KindTime, Params: nil, Result: KindInt,
		Invoke: func(recv any, args []any) any { return int64(recv.(time.Time).Year()) }},
}

// lookupMethod resolves a name and argument kinds against the method
// table. An exact parameter match wins; otherwise the first same-name,
// same-arity candidate whose parameters every argument can implicitly
// convert to is used.
func lookupMethod(recv Kind, name string, argKinds []Kind) *builtinMethod {
	var fallback *builtinMethod
	for _, m := range builtinMethods {
		if m.Recv != recv || !strings.EqualFold(m.Name, name) || len(m.Params) != len(argKinds) {
			continue
		}
		exact := true
		convertible := true
		for i, k := range argKinds {
			if k != m.Params[i] {
				exact = false
				if !implicitlyConvertible(k, m.Params[i]) {
					convertible = false
				}
			}
		}
		if exact {
			return m
		}
		if convertible && fallback == nil {
			fallback = m
		}
	}
	return fallback
}

// implicitlyConvertible reports whether an argument of kind from can be
// converted to a parameter of kind to without losing meaning.
func implicitlyConvertible(from, to Kind) bool {
	switch {
	case from == KindInt && to == KindFloat:
		return true
	case from == KindString && to == KindTime:
		return true
	}
	return false
}
