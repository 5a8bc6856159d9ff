package e2e_test

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI runs the jsontype binary sources with args and the given stdin.
func runCLI(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../.."}, args...)...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run(), "CLI command failed: %s", stderr.String())
	return stdout.String()
}

// TestEndToEnd_ComplexNestedStructures tests the application with complex nested documents
func TestEndToEnd_ComplexNestedStructures(t *testing.T) {
	jsonContent := `{
		"id": 12345,
		"uuid": "550e8400-e29b-41d4-a716-446655440000",
		"updated_at": null,
		"config": {
			"enabled": true,
			"features": ["logging", "metrics"],
			"rate_limits": {"per_second": 100, "burst": 150},
			"environments": {
				"development": {"debug": true, "log_level": "debug"},
				"production": {"debug": false, "log_level": "info"}
			}
		},
		"users": [
			{"id": 1, "name": "Alice", "roles": ["admin", "user"]},
			{"id": 2, "name": "Bob", "roles": []}
		]
	}`

	output := runCLI(t, jsonContent, "-n", "Service", "-m")

	expected := `type Service = {
  id: number;
  uuid: string;
  updated_at: null;
  config: {
    enabled: boolean;
    features: string[];
    rate_limits: {
      per_second: number;
      burst: number;
    };
    environments: {
      development: {
        debug: boolean;
        log_level: string;
      };
      production: {
        debug: boolean;
        log_level: string;
      };
    };
  };
  users: ({
    id: number;
    name: string;
    roles: string[];
  } | {
    id: number;
    name: string;
    roles: any[];
  })[];
}
`
	assert.Equal(t, expected, output)

	// The single-line form carries the same type
	flat := runCLI(t, jsonContent, "-n", "Service")
	assert.Equal(t, 1, strings.Count(flat, "\n"))
	assert.True(t, strings.HasPrefix(flat, "type Service = { id: number; uuid: string; updated_at: null; config: {"))
}

// TestEndToEnd_HeterogeneousArrays tests arrays mixing element types
func TestEndToEnd_HeterogeneousArrays(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		args     []string
		expected string
	}{
		{"empty", `[]`, nil, "any[]\n"},
		{"primitives in first-seen order", `[true, 1, "a", 2, false]`, nil, "(boolean | number | string)[]\n"},
		{"nulls", `[null, null]`, nil, "null[]\n"},
		{"nested arrays", `[[1], ["a"], [1]]`, nil, "(number[] | string[])[]\n"},
		{"objects with the same keys", `[{"a": 1}, {"a": 2}]`, nil, "{ a: number }[]\n"},
		{"objects and primitives", `[{"a": 1}, "x"]`, nil, "({ a: number } | string)[]\n"},
		{"literals", `["get", "post", "get"]`, []string{"-l"}, "(\"get\" | \"post\")[]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, runCLI(t, tt.input, tt.args...))
		})
	}
}

// TestEndToEnd_EdgeCases tests unusual but valid input
func TestEndToEnd_EdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty object", `{}`, "{ }\n"},
		{"bare string", `"hello"`, "string\n"},
		{"bare number", `-1.5e10`, "number\n"},
		{"bare null", `null`, "null\n"},
		{"keys are kept verbatim", `{"with space": 1, "dash-key": true}`, "{ with space: number; dash-key: boolean }\n"},
		{"unicode", `{"名前": "値"}`, "{ 名前: string }\n"},
		{"duplicate keys", `{"a": 1, "a": "x"}`, "{ a: string }\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, runCLI(t, tt.input))
		})
	}
}

// TestEndToEnd_Samples runs the sample documents in every format
func TestEndToEnd_Samples(t *testing.T) {
	samples := filepath.Join("..", "..", "testdata", "samples")

	var outputs []string
	for _, name := range []string{"user.json", "user.yaml", "user.toml"} {
		outputs = append(outputs, runCLI(t, "", "-i", filepath.Join(samples, name), "-n", "User", "-m"))
	}

	expected, err := os.ReadFile(filepath.Join(samples, "user.ts"))
	require.NoError(t, err)
	for _, out := range outputs {
		assert.Equal(t, string(expected), out)
	}
}

// TestEndToEnd_GeneratedDocument tests a large generated document
func TestEndToEnd_GeneratedDocument(t *testing.T) {
	items := make([]map[string]any, 0, 200)
	for i := 0; i < 200; i++ {
		items = append(items, map[string]any{
			"id":    i,
			"label": fmt.Sprintf("item %d", i),
			"score": float64(i) / 3,
		})
	}
	data, err := gojson.Marshal(map[string]any{"items": items})
	require.NoError(t, err)

	output := runCLI(t, string(data))
	assert.Equal(t, "{ items: { id: number; label: string; score: number }[] }\n", output)
}
