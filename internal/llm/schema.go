package llm

import (
	"encoding/json"

	"google.golang.org/genai"
)

// PropertyType is a JSON scalar type.
type PropertyType string

const (
	TypeString  PropertyType = "string"
	TypeBoolean PropertyType = "boolean"
	TypeInteger PropertyType = "integer"
	TypeNumber  PropertyType = "number"
)

// Property is one required field of a flat object schema.
type Property struct {
	Name        string
	Type        PropertyType
	Description string
}

// Schema describes a flat JSON object whose properties are all required.
// Property order is preserved for providers that honour it.
type Schema struct {
	Name        string
	Description string
	Properties  []Property
}

// ResponseFormat is the OpenAI-compatible response_format field.
type ResponseFormat struct {
	Type       string          `json:"type"`
	JSONSchema *JSONSchemaSpec `json:"json_schema,omitempty"`
}

// JSONSchemaSpec is the json_schema member of ResponseFormat.
type JSONSchemaSpec struct {
	Name   string                 `json:"name"`
	Strict bool                   `json:"strict"`
	Schema map[string]interface{} `json:"schema"`
}

// JSONSchema renders the schema as a JSON Schema object.
func (s Schema) JSONSchema() map[string]interface{} {
	props := make(map[string]interface{}, len(s.Properties))
	required := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		prop := map[string]interface{}{"type": string(p.Type)}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		props[p.Name] = prop
		required = append(required, p.Name)
	}

	out := map[string]interface{}{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	return out
}

// JSONSchemaBytes is JSONSchema encoded as JSON.
func (s Schema) JSONSchemaBytes() ([]byte, error) {
	return json.Marshal(s.JSONSchema())
}

// OpenAIResponseFormat builds a strict json_schema response format.
// See: https://platform.openai.com/docs/guides/structured-outputs
func (s Schema) OpenAIResponseFormat() *ResponseFormat {
	return &ResponseFormat{
		Type: "json_schema",
		JSONSchema: &JSONSchemaSpec{
			Name:   s.Name,
			Strict: true,
			Schema: s.JSONSchema(),
		},
	}
}

// GenAISchema builds the Gemini response schema.
func (s Schema) GenAISchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(s.Properties))
	ordering := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		props[p.Name] = &genai.Schema{
			Type:        genaiType(p.Type),
			Description: p.Description,
		}
		ordering = append(ordering, p.Name)
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Description:      s.Description,
		Properties:       props,
		Required:         ordering,
		PropertyOrdering: ordering,
	}
}

func genaiType(t PropertyType) genai.Type {
	switch t {
	case TypeBoolean:
		return genai.TypeBoolean
	case TypeInteger:
		return genai.TypeInteger
	case TypeNumber:
		return genai.TypeNumber
	default:
		return genai.TypeString
	}
}
