// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explore

import (
	"encoding/json"
	"strings"
)

// Schema is the subset of JSON Schema used to describe the model output.
// Backends translate it into their provider's dialect.
type Schema struct {
	Type                 string             `json:"type"`
	Description          string             `json:"description,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	PropertyOrdering     []string           `json:"propertyOrdering,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
}

func stepSchema() *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"title":       {Type: "string"},
			"description": {Type: "string"},
			"stepNumber":  {Type: "integer"},
		},
		PropertyOrdering: []string{"title", "description", "stepNumber"},
		Required:         []string{"title", "description", "stepNumber"},
	}
}

// ExplorationSchema returns the output contract handed to the model.
func ExplorationSchema() *Schema {
	linear := &Schema{
		Type:        "array",
		Description: "A logical, step-by-step progression of the topic (strictly focused).",
		Items:       stepSchema(),
	}
	tangent := &Schema{
		Type:        "array",
		Description: "A creative, lateral thinking path that drifts further away from the original meaning into unexpected territory.",
		Items:       stepSchema(),
	}
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"rootTopic":       {Type: "string", Description: "The original topic provided by the user."},
			"divergenceScore": {Type: "number", Description: "A score from 0-100 indicating how wild the tangent path is."},
			"linearPath":      linear,
			"tangentPath":     tangent,
		},
		PropertyOrdering: []string{"rootTopic", "divergenceScore", "linearPath", "tangentPath"},
		Required:         []string{"rootTopic", "linearPath", "tangentPath", "divergenceScore"},
	}
}

// walk returns a deep copy of s with fn applied to every node.
func (s *Schema) walk(fn func(*Schema)) *Schema {
	if s == nil {
		return nil
	}
	out := *s
	if s.Properties != nil {
		out.Properties = make(map[string]*Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = v.walk(fn)
		}
	}
	out.Items = s.Items.walk(fn)
	out.Required = append([]string(nil), s.Required...)
	out.PropertyOrdering = append([]string(nil), s.PropertyOrdering...)
	fn(&out)
	return &out
}

// forGemini converts to the Generative Language API dialect: upper-case
// type names, no additionalProperties.
func (s *Schema) forGemini() *Schema {
	return s.walk(func(n *Schema) {
		n.Type = strings.ToUpper(n.Type)
		n.AdditionalProperties = nil
	})
}

// forStrictJSONSchema closes every object, as strict structured outputs
// require, and drops the Gemini-only ordering hint.
func (s *Schema) forStrictJSONSchema() *Schema {
	closed := false
	return s.walk(func(n *Schema) {
		n.PropertyOrdering = nil
		if n.Type == "object" {
			n.AdditionalProperties = &closed
		}
	})
}

// indented renders the schema for inclusion in a prompt.
func (s *Schema) indented() string {
	b, err := json.MarshalIndent(s.forStrictJSONSchema(), "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}
