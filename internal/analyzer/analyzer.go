package analyzer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/jsontype/internal/errors"
	"github.com/mcncl/jsontype/internal/generator"
	"github.com/mcncl/jsontype/internal/models"
)

// Primitive type names.
const (
	TypeNull      = "null"
	TypeUndefined = "undefined"
	TypeString    = "string"
	TypeNumber    = "number"
	TypeBoolean   = "boolean"
)

// rootPath is the path of the top-level value in error messages.
const rootPath = "$"

// Analyzer infers a TypeExpr from a value tree.
type Analyzer struct {
	opts models.Options
	// keys renders list elements for deduplication with the output layout.
	keys *generator.Generator
}

// NewAnalyzer creates a new Analyzer with default options.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithOptions(models.DefaultOptions())
}

// NewAnalyzerWithOptions creates a new Analyzer with custom options.
func NewAnalyzerWithOptions(opts models.Options) *Analyzer {
	return &Analyzer{opts: opts, keys: generator.NewGeneratorWithOptions(opts)}
}

// Analyze returns the type of value.
//
// An Undefined root means no value was supplied at all, so it is treated as
// an unknown value: "any", or an *errors.UnknownTypeError naming "undefined"
// when ThrowOnUnknown is set. Nested Undefined values render as "undefined".
func (a *Analyzer) Analyze(value models.Value) (models.TypeExpr, error) {
	if value.Kind() == models.Undefined {
		return a.unknown(TypeUndefined, rootPath)
	}
	return a.analyzeNode(value, 0, 0, rootPath)
}

// analyzeNode is the recursive step. depth is the indentation depth the value
// renders at: object properties add one level, list elements do not. nesting
// counts enclosing containers and only feeds the MaxDepth guard.
func (a *Analyzer) analyzeNode(value models.Value, depth, nesting int, path string) (models.TypeExpr, error) {
	if a.opts.MaxDepth > 0 && nesting > a.opts.MaxDepth {
		return models.TypeExpr{}, &errors.MaxDepthError{Limit: a.opts.MaxDepth, Path: path}
	}

	switch value.Kind() {
	case models.Null:
		return models.PrimitiveType(TypeNull), nil
	case models.Undefined:
		return models.PrimitiveType(TypeUndefined), nil
	case models.List:
		return a.analyzeList(value, depth, nesting, path)
	case models.Dict:
		return a.analyzeDict(value, depth, nesting, path)
	case models.String:
		if a.opts.UseLiteralTypes {
			return models.LiteralType(StringLiteral(value.Str())), nil
		}
		return models.PrimitiveType(TypeString), nil
	case models.Number:
		if a.opts.UseLiteralTypes {
			return models.LiteralType(NumberLiteral(value.NumberText())), nil
		}
		return models.PrimitiveType(TypeNumber), nil
	case models.Bool:
		if a.opts.UseLiteralTypes {
			return models.LiteralType(strconv.FormatBool(value.Bool())), nil
		}
		return models.PrimitiveType(TypeBoolean), nil
	case models.Unknown:
		return a.unknown(value.TypeName(), path)
	default:
		return a.unknown(value.Kind().String(), path)
	}
}

func (a *Analyzer) unknown(typeName, path string) (models.TypeExpr, error) {
	if a.opts.ThrowOnUnknown {
		return models.TypeExpr{}, &errors.UnknownTypeError{TypeName: typeName, Path: path}
	}
	return models.AnyType(), nil
}

func (a *Analyzer) analyzeList(list models.Value, depth, nesting int, path string) (models.TypeExpr, error) {
	items := list.Items()
	if len(items) == 0 {
		return models.ArrayOf(models.AnyType()), nil
	}

	// Distinct element types in first-seen order, compared by their rendering
	// in the output layout.
	seen := make(map[string]struct{}, len(items))
	members := make([]models.TypeExpr, 0, 1)
	for i, item := range items {
		elem, err := a.analyzeNode(item, depth, nesting+1, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return models.TypeExpr{}, err
		}
		sig := a.keys.RenderAt(elem, depth)
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		members = append(members, elem)
	}

	return models.ArrayOf(models.UnionOf(members...)), nil
}

func (a *Analyzer) analyzeDict(dict models.Value, depth, nesting int, path string) (models.TypeExpr, error) {
	fields := dict.Fields()
	props := make([]models.Property, 0, len(fields))
	for _, field := range fields {
		fieldType, err := a.analyzeNode(field.Value, depth+1, nesting+1, path+"."+field.Key)
		if err != nil {
			return models.TypeExpr{}, err
		}
		props = append(props, models.Property{Key: field.Key, Type: fieldType})
	}
	return models.ObjectOf(props...), nil
}

// StringLiteral renders s as a double-quoted literal type. Only double quotes
// are escaped.
func StringLiteral(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// NumberLiteral renders numeric text the way an ECMAScript engine prints the
// number: shortest round-trip digits, exponent form outside [1e-6, 1e21).
func NumberLiteral(text string) string {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		ne, ok := err.(*strconv.NumError)
		if !ok || ne.Err != strconv.ErrRange {
			return text
		}
	}

	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	// Shortest digits with exponent, e.g. "1.2345e+06".
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, expText, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expText)
	digits := strings.Replace(mantissa, ".", "", 1)
	k := len(digits)
	n := exp + 1

	var out string
	switch {
	case k <= n && n <= 21:
		out = digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		out = digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		out = "0." + strings.Repeat("0", -n) + digits
	default:
		e := n - 1
		expSign := "+"
		if e < 0 {
			expSign = "-"
			e = -e
		}
		if k == 1 {
			out = digits + "e" + expSign + strconv.Itoa(e)
		} else {
			out = digits[:1] + "." + digits[1:] + "e" + expSign + strconv.Itoa(e)
		}
	}
	return sign + out
}
