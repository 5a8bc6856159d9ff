// Package jsontype infers TypeScript-style type signatures from JSON-like values.
//
// Infer accepts any Go value: maps, slices, structs, pointers and primitives
// are described by their JSON shape.
//
//	s, _ := jsontype.Infer(map[string]any{"name": "John", "age": 30})
//	// s == "{ age: number; name: string }"
//
// Go maps have no key order, so their keys are sorted. Use InferJSON to keep
// the key order of a document:
//
//	s, _ := jsontype.InferJSON([]byte(`{"name":"John","age":30}`), jsontype.WithTypeName("User"))
//	// s == "type User = { name: string; age: number }"
//
// Values without a JSON shape, such as functions or channels, render as
// "any" unless WithThrowOnUnknown is given, in which case Infer returns an
// *UnknownTypeError.
package jsontype

import (
	"bytes"

	"github.com/mcncl/jsontype/internal/analyzer"
	"github.com/mcncl/jsontype/internal/errors"
	"github.com/mcncl/jsontype/internal/generator"
	"github.com/mcncl/jsontype/internal/hostvalue"
	"github.com/mcncl/jsontype/internal/models"
	"github.com/mcncl/jsontype/internal/parser"
)

// Value is a JSON-compatible value tree.
type Value = models.Value

// Options is the full set of inference options.
type Options = models.Options

// UnknownTypeError is returned in strict mode for values with no JSON shape.
type UnknownTypeError = errors.UnknownTypeError

// MaxDepthError is returned when input is nested deeper than WithMaxDepth allows.
type MaxDepthError = errors.MaxDepthError

var (
	// ErrMaxDepthExceeded matches every MaxDepthError.
	ErrMaxDepthExceeded = errors.ErrMaxDepthExceeded
	// ErrCyclicValue is returned for values that contain themselves.
	ErrCyclicValue = errors.ErrCyclicValue
)

// Undefined stands for an absent value. Nested inside a map, slice or
// struct it renders as "undefined"; passed on its own it means no value was
// given and renders as "any".
var Undefined = hostvalue.Undefined

// Option configures a call to Infer.
type Option func(*Options)

// WithMultiline puts every object property on its own line.
func WithMultiline() Option {
	return func(o *Options) { o.Multiline = true }
}

// WithIndentSize sets the spaces per nesting level of multiline output.
func WithIndentSize(n int) Option {
	return func(o *Options) { o.IndentSize = n }
}

// WithTypeName wraps the result in a "type <name> = ..." declaration.
func WithTypeName(name string) Option {
	return func(o *Options) { o.TypeName = name }
}

// WithLiteralTypes renders strings, numbers and booleans as literal types.
func WithLiteralTypes() Option {
	return func(o *Options) { o.UseLiteralTypes = true }
}

// WithThrowOnUnknown fails on values with no JSON shape instead of using "any".
func WithThrowOnUnknown() Option {
	return func(o *Options) { o.ThrowOnUnknown = true }
}

// WithMaxDepth fails on input nested deeper than n containers. Zero disables
// the limit.
func WithMaxDepth(n int) Option {
	return func(o *Options) { o.MaxDepth = n }
}

// WithOptions replaces every option at once.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

func buildOptions(opts []Option) Options {
	o := models.DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Infer returns the type signature of value.
func Infer(value any, opts ...Option) (string, error) {
	v, err := hostvalue.FromAny(value)
	if err != nil {
		return "", err
	}
	return InferValue(v, opts...)
}

// InferValue returns the type signature of a value tree.
func InferValue(value Value, opts ...Option) (string, error) {
	o := buildOptions(opts)
	expr, err := analyzer.NewAnalyzerWithOptions(o).Analyze(value)
	if err != nil {
		return "", err
	}
	return generator.NewGeneratorWithOptions(o).Declare(expr), nil
}

// InferJSON parses a single JSON document and returns its type signature,
// keeping object keys in document order.
func InferJSON(data []byte, opts ...Option) (string, error) {
	doc, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return InferValue(doc.Root, opts...)
}

// InferYAML parses a single YAML document and returns its type signature.
func InferYAML(data []byte, opts ...Option) (string, error) {
	doc, err := parser.ParseYAML(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return InferValue(doc.Root, opts...)
}

// InferTOML parses a TOML document and returns its type signature.
func InferTOML(data []byte, opts ...Option) (string, error) {
	doc, err := parser.ParseTOML(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return InferValue(doc.Root, opts...)
}

// MustInfer is like Infer but panics on error.
func MustInfer(value any, opts ...Option) string {
	s, err := Infer(value, opts...)
	if err != nil {
		panic(err)
	}
	return s
}
