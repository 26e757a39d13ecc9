package routes

import (
	"fmt"
	"strconv"
)

// Convert turns a raw string value into a typed argument value. An error
// marks the input invalid; the binder reports invalid input as ErrNotFound,
// never as an application error.
type Convert func(raw string) (any, error)

type paramKind int

const (
	paramPositional paramKind = iota
	paramKeywordOnly
	paramVarPositional
	paramVarKeyword
	paramInjected
)

// Param describes one declared parameter of a handler: its name, how it may
// be filled (positionally from path segments or by name from the value bag),
// whether it has a default, and an optional coercion function.
//
// Params are value types; the chaining modifiers return updated copies:
//
//	routes.Int("offset").Default(0).KeywordOnly()
type Param struct {
	name       string
	kind       paramKind
	hasDefault bool
	defValue   any
	typeName   string
	convert    Convert
	inject     func(*Context) (any, error)
}

// String declares a plain string parameter.
func String(name string) Param {
	return Param{name: name, typeName: "string"}
}

// Int declares an integer parameter. Values that do not parse as a decimal
// integer make the binding fail with ErrNotFound.
func Int(name string) Param {
	return Param{name: name, typeName: "int", convert: func(raw string) (any, error) {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("routes: parameter %q: %w", name, err)
		}
		return v, nil
	}}
}

// Bool declares a boolean parameter accepting the forms understood by
// strconv.ParseBool.
func Bool(name string) Param {
	return Param{name: name, typeName: "bool", convert: func(raw string) (any, error) {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("routes: parameter %q: %w", name, err)
		}
		return v, nil
	}}
}

// Custom declares a parameter with an application-supplied coercion
// function. An error from convert is treated as invalid input (ErrNotFound).
func Custom(name string, convert Convert) Param {
	return Param{name: name, typeName: "string", convert: convert}
}

// Rest declares a variadic positional parameter collecting every remaining
// path segment as a []string. At most one Rest parameter is allowed and no
// positional parameter may follow it.
func Rest(name string) Param {
	return Param{name: name, kind: paramVarPositional, typeName: "[]string"}
}

// RestNamed declares a variadic keyword parameter collecting every named
// value not consumed by another parameter as a map[string]string. It must be
// the last parameter of a handler.
func RestNamed(name string) Param {
	return Param{name: name, kind: paramVarKeyword, typeName: "map[string]string"}
}

// Injected declares a parameter whose value is produced from the resolution
// context instead of request input, e.g. the transport request object. An
// error from provide propagates as an application error.
func Injected(name string, provide func(rc *Context) (any, error)) Param {
	return Param{name: name, kind: paramInjected, typeName: "injected", inject: provide}
}

// Default makes the parameter optional with the given fallback value.
func (p Param) Default(v any) Param {
	p.hasDefault = true
	p.defValue = v
	return p
}

// KeywordOnly restricts the parameter to named values; it is never filled
// from path segments.
func (p Param) KeywordOnly() Param {
	if p.kind == paramPositional {
		p.kind = paramKeywordOnly
	}
	return p
}

// Name returns the parameter name.
func (p Param) Name() string { return p.name }

// Type returns a short description of the parameter type ("string", "int",
// "bool", "[]string", "map[string]string" or "injected").
func (p Param) Type() string { return p.typeName }

// Required reports whether the parameter must be filled from request input.
func (p Param) Required() bool {
	return (p.kind == paramPositional || p.kind == paramKeywordOnly) && !p.hasDefault
}

// IsKeywordOnly reports whether the parameter is filled from named values
// only.
func (p Param) IsKeywordOnly() bool { return p.kind == paramKeywordOnly }

// IsVariadic reports whether the parameter collects remaining segments or
// named values.
func (p Param) IsVariadic() bool {
	return p.kind == paramVarPositional || p.kind == paramVarKeyword
}

// IsInjected reports whether the parameter is produced from the resolution
// context rather than request input.
func (p Param) IsInjected() bool { return p.kind == paramInjected }

// value coerces a raw string through the parameter's conversion function.
func (p Param) value(raw string) (any, error) {
	if p.convert == nil {
		return raw, nil
	}
	return p.convert(raw)
}

// Args is the bound argument set handed to a handler body. Values are keyed
// by parameter name.
type Args struct {
	values map[string]any
}

// Has reports whether a value is bound under name.
func (a Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Value returns the bound value for name, or nil.
func (a Args) Value(name string) any { return a.values[name] }

// String returns the bound string value for name, or "".
func (a Args) String(name string) string {
	v, _ := a.values[name].(string)
	return v
}

// Int returns the bound int value for name, or 0.
func (a Args) Int(name string) int {
	v, _ := a.values[name].(int)
	return v
}

// Bool returns the bound bool value for name, or false.
func (a Args) Bool(name string) bool {
	v, _ := a.values[name].(bool)
	return v
}

// Strings returns the segments collected by a Rest parameter, or nil.
func (a Args) Strings(name string) []string {
	v, _ := a.values[name].([]string)
	return v
}

// Named returns the values collected by a RestNamed parameter, or nil.
func (a Args) Named(name string) map[string]string {
	v, _ := a.values[name].(map[string]string)
	return v
}
