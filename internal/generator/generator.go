package generator

import (
	"strings"

	"github.com/mcncl/jsontype/internal/models"
)

// emptyObject is the rendering of an object without properties.
const emptyObject = "{ }"

// Generator renders inferred type expressions as text.
type Generator struct {
	opts models.Options
}

// NewGenerator creates a new Generator with default options.
func NewGenerator() *Generator {
	return &Generator{opts: models.DefaultOptions()}
}

// NewGeneratorWithOptions creates a new Generator with custom options.
func NewGeneratorWithOptions(opts models.Options) *Generator {
	if opts.IndentSize < 0 {
		opts.IndentSize = 0
	}
	return &Generator{opts: opts}
}

// Render returns the type expression as text, starting at depth 0.
func (g *Generator) Render(expr models.TypeExpr) string {
	return g.RenderAt(expr, 0)
}

// RenderAt returns the type expression as text laid out at the given depth.
// Two expressions at the same depth are the same type when their renderings
// are equal.
func (g *Generator) RenderAt(expr models.TypeExpr, depth int) string {
	var sb strings.Builder
	g.render(&sb, expr, depth)
	return sb.String()
}

// Declare renders expr and, when a type name is configured, wraps it as a
// type declaration.
func (g *Generator) Declare(expr models.TypeExpr) string {
	body := g.Render(expr)
	if g.opts.TypeName == "" {
		return body
	}
	return "type " + g.opts.TypeName + " = " + body
}

func (g *Generator) render(sb *strings.Builder, expr models.TypeExpr, depth int) {
	switch expr.Kind {
	case models.ExprPrimitive, models.ExprLiteral:
		sb.WriteString(expr.Name)
	case models.ExprArray:
		g.renderArray(sb, expr, depth)
	case models.ExprUnion:
		g.renderMembers(sb, expr.Members, depth)
	case models.ExprObject:
		g.renderObject(sb, expr, depth)
	default:
		sb.WriteString("any")
	}
}

func (g *Generator) renderArray(sb *strings.Builder, expr models.TypeExpr, depth int) {
	elem := models.AnyType()
	if expr.Elem != nil {
		elem = *expr.Elem
	}
	if elem.Kind == models.ExprUnion {
		sb.WriteByte('(')
		g.renderMembers(sb, elem.Members, depth)
		sb.WriteString(")[]")
		return
	}
	g.render(sb, elem, depth)
	sb.WriteString("[]")
}

func (g *Generator) renderMembers(sb *strings.Builder, members []models.TypeExpr, depth int) {
	for i, m := range members {
		if i > 0 {
			sb.WriteString(" | ")
		}
		g.render(sb, m, depth)
	}
}

// renderObject lays out properties at depth+1. Multiline output puts each
// property on its own line and closes the brace at the current depth.
func (g *Generator) renderObject(sb *strings.Builder, expr models.TypeExpr, depth int) {
	if len(expr.Props) == 0 {
		sb.WriteString(emptyObject)
		return
	}

	if !g.opts.Multiline {
		sb.WriteString("{ ")
		for i, p := range expr.Props {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(p.Key)
			sb.WriteString(": ")
			g.render(sb, p.Type, depth+1)
		}
		sb.WriteString(" }")
		return
	}

	indent := strings.Repeat(" ", (depth+1)*g.opts.IndentSize)
	sb.WriteString("{\n")
	for i, p := range expr.Props {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(indent)
		sb.WriteString(p.Key)
		sb.WriteString(": ")
		g.render(sb, p.Type, depth+1)
		sb.WriteByte(';')
	}
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(" ", depth*g.opts.IndentSize))
	sb.WriteByte('}')
}
