package llm

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestSchema_JSONSchema(t *testing.T) {
	data, err := verdictLikeSchema.JSONSchemaBytes()
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))

	want := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"is_acceptable": map[string]interface{}{"type": "boolean"},
			"feedback":      map[string]interface{}{"type": "string"},
		},
		"required":             []interface{}{"is_acceptable", "feedback"},
		"additionalProperties": false,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSONSchema mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_GenAISchema(t *testing.T) {
	s := Schema{
		Name:        "Mixed",
		Description: "all scalar kinds",
		Properties: []Property{
			{Name: "b", Type: TypeBoolean},
			{Name: "i", Type: TypeInteger},
			{Name: "n", Type: TypeNumber},
			{Name: "s", Type: TypeString, Description: "text"},
		},
	}

	g := s.GenAISchema()
	assert.Equal(t, genai.TypeObject, g.Type)
	assert.Equal(t, []string{"b", "i", "n", "s"}, g.PropertyOrdering)
	assert.Equal(t, []string{"b", "i", "n", "s"}, g.Required)
	assert.Equal(t, genai.TypeBoolean, g.Properties["b"].Type)
	assert.Equal(t, genai.TypeInteger, g.Properties["i"].Type)
	assert.Equal(t, genai.TypeNumber, g.Properties["n"].Type)
	assert.Equal(t, genai.TypeString, g.Properties["s"].Type)
	assert.Equal(t, "text", g.Properties["s"].Description)
}

func TestSchema_OpenAIResponseFormat(t *testing.T) {
	rf := verdictLikeSchema.OpenAIResponseFormat()
	assert.Equal(t, "json_schema", rf.Type)
	require.NotNil(t, rf.JSONSchema)
	assert.Equal(t, "Evaluation", rf.JSONSchema.Name)
	assert.True(t, rf.JSONSchema.Strict)
	assert.Equal(t, false, rf.JSONSchema.Schema["additionalProperties"])
}
