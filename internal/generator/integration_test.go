package generator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsontype/internal/analyzer"
	"github.com/mcncl/jsontype/internal/generator"
	"github.com/mcncl/jsontype/internal/models"
	"github.com/mcncl/jsontype/internal/parser"
)

func render(t *testing.T, input string, format models.Format, opts models.Options) string {
	t.Helper()
	doc, err := parser.ParseStringFormat(input, format)
	require.NoError(t, err)

	expr, err := analyzer.NewAnalyzerWithOptions(opts).Analyze(doc.Root)
	require.NoError(t, err)

	return generator.NewGeneratorWithOptions(opts).Declare(expr)
}

func TestIntegration_ParserAnalyzerGenerator(t *testing.T) {
	jsonInput := `{
		"user_id": 123,
		"username": "johndoe",
		"is_active": true,
		"deleted_at": null,
		"profile": {
			"full_name": "John Doe",
			"email": "john.doe@example.com"
		}
	}`

	code := render(t, jsonInput, models.FormatJSON, models.Options{TypeName: "User"})

	expected := "type User = { user_id: number; username: string; is_active: boolean; deleted_at: null; " +
		"profile: { full_name: string; email: string } }"
	assert.Equal(t, expected, code)
}

func TestIntegration_ArrayOfObjects(t *testing.T) {
	jsonInput := `[
		{"id": 1, "name": "Product 1", "tags": ["new"]},
		{"id": 2, "name": "Product 2", "tags": []}
	]`

	code := render(t, jsonInput, models.FormatJSON, models.Options{Multiline: true, IndentSize: 2})

	expected := `({
  id: number;
  name: string;
  tags: string[];
} | {
  id: number;
  name: string;
  tags: any[];
})[]`
	assert.Equal(t, expected, code)
}

func TestIntegration_FormatsAgree(t *testing.T) {
	inputs := map[models.Format]string{
		models.FormatJSON: `{"service": "api", "port": 8080, "hosts": ["a", "b"], "tls": {"enabled": true}}`,
		models.FormatYAML: "service: api\nport: 8080\nhosts: [a, b]\ntls:\n  enabled: true\n",
		models.FormatTOML: "service = \"api\"\nport = 8080\nhosts = [\"a\", \"b\"]\n\n[tls]\nenabled = true\n",
	}

	opts := models.Options{TypeName: "Service", Multiline: true, IndentSize: 4}
	expected := render(t, inputs[models.FormatJSON], models.FormatJSON, opts)
	for format, input := range inputs {
		t.Run(string(format), func(t *testing.T) {
			assert.Equal(t, expected, render(t, input, format, opts))
		})
	}
}

func TestIntegration_LiteralTypes(t *testing.T) {
	code := render(t, `{"status": "ok", "code": 200, "retry": false, "ids": [1, 2, 2, 3]}`,
		models.FormatJSON, models.Options{UseLiteralTypes: true})

	assert.Equal(t, `{ status: "ok"; code: 200; retry: false; ids: (1 | 2 | 3)[] }`, code)
}

func TestIntegration_SignatureIsStable(t *testing.T) {
	// The same input always renders identically, multiline or not
	input := `{"b": [1, "x", null], "a": {"c": [{"d": 1}, {"d": 2}]}}`
	for _, multiline := range []bool{false, true} {
		opts := models.Options{Multiline: multiline, IndentSize: 2}
		first := render(t, input, models.FormatJSON, opts)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, render(t, input, models.FormatJSON, opts))
		}
		if !multiline {
			assert.False(t, strings.Contains(first, "\n"))
		}
	}
}
