package models

import (
	"math"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	Null Kind = iota
	Undefined
	String
	Number
	Bool
	List
	Dict
	// Unknown marks a host value with no JSON shape. Only the host-value
	// adapter produces it.
	Unknown
)

var kindNames = [...]string{
	Null:      "null",
	Undefined: "undefined",
	String:    "string",
	Number:    "number",
	Bool:      "boolean",
	List:      "list",
	Dict:      "dict",
	Unknown:   "unknown",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a JSON-compatible tree. The zero Value is Null.
// Values are immutable once built; the slices returned by Items and Fields
// must not be modified.
type Value struct {
	kind   Kind
	text   string // string payload, number text, or unknown type name
	flag   bool
	items  []Value
	fields []Field
}

// Field is one entry of a Dict value.
type Field struct {
	Key   string
	Value Value
}

// NewNull returns the null value.
func NewNull() Value { return Value{kind: Null} }

// NewUndefined returns the absence-of-value sentinel.
func NewUndefined() Value { return Value{kind: Undefined} }

// NewString returns a string value.
func NewString(s string) Value { return Value{kind: String, text: s} }

// NewNumber returns a number from its decimal text, as found in a JSON document.
func NewNumber(text string) Value { return Value{kind: Number, text: text} }

// NewFloat returns a number from a float64.
func NewFloat(f float64) Value {
	return Value{kind: Number, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// NewInt returns a number from an int64.
func NewInt(i int64) Value { return Value{kind: Number, text: strconv.FormatInt(i, 10)} }

// NewUint returns a number from a uint64.
func NewUint(u uint64) Value { return Value{kind: Number, text: strconv.FormatUint(u, 10)} }

// NewBool returns a boolean value.
func NewBool(b bool) Value { return Value{kind: Bool, flag: b} }

// NewList returns a list holding items in order.
func NewList(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: List, items: items}
}

// NewDict returns a dict holding fields in order. Duplicate keys keep the
// position of their first occurrence and the value of their last.
func NewDict(fields ...Field) Value {
	b := NewDictBuilder(len(fields))
	for _, f := range fields {
		b.Set(f.Key, f.Value)
	}
	return b.Build()
}

// NewUnknown returns a value standing for a host value of the named type.
func NewUnknown(typeName string) Value { return Value{kind: Unknown, text: typeName} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Str returns the payload of a String value.
func (v Value) Str() string {
	if v.kind != String {
		return ""
	}
	return v.text
}

// NumberText returns the textual form of a Number value.
func (v Value) NumberText() string {
	if v.kind != Number {
		return ""
	}
	return v.text
}

// Float64 returns the numeric value of a Number. Out-of-range text
// saturates to an infinity; malformed text yields NaN.
func (v Value) Float64() float64 {
	if v.kind != Number {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

// Bool returns the payload of a Bool value.
func (v Value) Bool() bool { return v.kind == Bool && v.flag }

// Items returns the elements of a List value.
func (v Value) Items() []Value { return v.items }

// Fields returns the entries of a Dict value in insertion order.
func (v Value) Fields() []Field { return v.fields }

// Len returns the number of items of a List or entries of a Dict.
func (v Value) Len() int {
	switch v.kind {
	case List:
		return len(v.items)
	case Dict:
		return len(v.fields)
	}
	return 0
}

// Lookup returns the value stored under key in a Dict.
func (v Value) Lookup(key string) (Value, bool) {
	for _, f := range v.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// TypeName returns the host type name carried by an Unknown value, or the
// kind name for every other variant.
func (v Value) TypeName() string {
	if v.kind == Unknown {
		return v.text
	}
	return v.kind.String()
}

// DictBuilder assembles a Dict while keeping insertion order.
type DictBuilder struct {
	fields []Field
	index  map[string]int
}

// NewDictBuilder creates a builder with room for size entries.
func NewDictBuilder(size int) *DictBuilder {
	return &DictBuilder{
		fields: make([]Field, 0, size),
		index:  make(map[string]int, size),
	}
}

// Set stores value under key. Re-setting a key replaces its value in place.
func (b *DictBuilder) Set(key string, value Value) {
	if i, ok := b.index[key]; ok {
		b.fields[i].Value = value
		return
	}
	b.index[key] = len(b.fields)
	b.fields = append(b.fields, Field{Key: key, Value: value})
}

// Has reports whether key has been set.
func (b *DictBuilder) Has(key string) bool {
	_, ok := b.index[key]
	return ok
}

// Len returns the number of distinct keys set so far.
func (b *DictBuilder) Len() int { return len(b.fields) }

// Build returns the Dict value. The builder must not be used afterwards.
func (b *DictBuilder) Build() Value {
	return Value{kind: Dict, fields: b.fields}
}

// Format names a document syntax.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Document is a parsed input document.
type Document struct {
	Root   Value
	Format Format
}

// RootIsArray reports whether the document root is a list.
func (d Document) RootIsArray() bool { return d.Root.Kind() == List }
