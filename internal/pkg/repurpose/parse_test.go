package repurpose

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_Fixtures(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantKeys []string
	}{
		{"plain object", `{"linkedin":"hello world post"}`, []string{"linkedin"}},
		{"json fence", "```json\n{\"linkedin\":\"hello\"}\n```", []string{"linkedin"}},
		{"upper json fence", "```JSON\n{\"email\":\"x\"}\n```", []string{"email"}},
		{"bare fence", "```\n{\"email\":\"x\"}\n```", []string{"email"}},
		{"fence without trailing", "```json\n{\"email\":\"x\"}", []string{"email"}},
		{"surrounding whitespace", "\n\n  {\"email\":\"x\"}  \n", []string{"email"}},
		{"leading prose", "Here is your JSON:\n{\"twitter\":[\"a\"]}", []string{"twitter"}},
		{"nested braces", `{"twitter":["a {b} c"],"linkedin":"{curly} text"}`, []string{"twitter", "linkedin"}},
		{"multi-line values", "{\n  \"linkedin\": \"line one\\nline two\",\n  \"email\": \"hi\"\n}", []string{"linkedin", "email"}},
		{"unicode", `{"instagram":"Café ☕ #coffee"}`, []string{"instagram"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ParseResponse(tt.raw)
			require.NoError(t, err)
			for _, k := range tt.wantKeys {
				assert.Contains(t, obj, k)
			}
			assert.Len(t, obj, len(tt.wantKeys))
		})
	}
}

func TestParseResponse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"only fences", "```json\n```"},
		{"no object", "Sorry, I cannot help with that."},
		{"trailing prose", `{"email":"x"} hope this helps`},
		{"array", `["a","b"]`},
		{"truncated", `{"email":"x"`},
		{"invalid json", `{email: x}`},
		{"two objects", `{"a":1} {"b":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ParseResponse(tt.raw)
			assert.Nil(t, obj)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrGenerationFailed)
			assert.Equal(t, KindMalformedResponse, KindOf(err))
		})
	}
}

func TestParseResponse_ValuesPreserved(t *testing.T) {
	obj, err := ParseResponse("```json\n{\"twitter\":[\"one\",\"two\"]}\n```")
	require.NoError(t, err)

	var tweets []string
	require.NoError(t, json.Unmarshal(obj["twitter"], &tweets))
	assert.Equal(t, []string{"one", "two"}, tweets)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
}
