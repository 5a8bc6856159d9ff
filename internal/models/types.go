package models

// DefaultIndentSize is the number of spaces per nesting level in multiline output.
const DefaultIndentSize = 2

// Options controls type inference and rendering.
type Options struct {
	// ThrowOnUnknown turns values with no JSON shape into an error instead of "any".
	ThrowOnUnknown bool
	IndentSize     int
	Multiline      bool
	// TypeName wraps the result as "type <TypeName> = <expr>" when non-empty.
	TypeName        string
	UseLiteralTypes bool
	// MaxDepth bounds container nesting. Zero means unlimited.
	MaxDepth int
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{IndentSize: DefaultIndentSize}
}

// ExprKind identifies the shape of a TypeExpr.
type ExprKind int

const (
	ExprAny ExprKind = iota
	ExprPrimitive
	ExprLiteral
	ExprArray
	ExprUnion
	ExprObject
)

// TypeExpr is an inferred type, ready to be rendered.
type TypeExpr struct {
	Kind ExprKind
	// Name holds the primitive name or the literal text.
	Name string
	// Elem is the element type of an array.
	Elem *TypeExpr
	// Members are the alternatives of a union, in first-seen order.
	Members []TypeExpr
	// Props are the properties of an object, in source order.
	Props []Property
}

// Property is one member of an object type.
type Property struct {
	Key  string
	Type TypeExpr
}

// AnyType returns the "any" type.
func AnyType() TypeExpr { return TypeExpr{Kind: ExprAny} }

// PrimitiveType returns a named primitive such as "string".
func PrimitiveType(name string) TypeExpr { return TypeExpr{Kind: ExprPrimitive, Name: name} }

// LiteralType returns a literal type rendered as text.
func LiteralType(text string) TypeExpr { return TypeExpr{Kind: ExprLiteral, Name: text} }

// ArrayOf returns an array of elem.
func ArrayOf(elem TypeExpr) TypeExpr { return TypeExpr{Kind: ExprArray, Elem: &elem} }

// UnionOf returns a union of members. A single member is returned as is.
func UnionOf(members ...TypeExpr) TypeExpr {
	if len(members) == 1 {
		return members[0]
	}
	return TypeExpr{Kind: ExprUnion, Members: members}
}

// ObjectOf returns an object type with the given properties.
func ObjectOf(props ...Property) TypeExpr {
	if props == nil {
		props = []Property{}
	}
	return TypeExpr{Kind: ExprObject, Props: props}
}
