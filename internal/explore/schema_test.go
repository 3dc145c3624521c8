// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplorationSchema(t *testing.T) {
	s := ExplorationSchema()

	assert.Equal(t, "object", s.Type)
	assert.Equal(t, "string", s.Properties["rootTopic"].Type)
	assert.Equal(t, "number", s.Properties["divergenceScore"].Type)

	for _, path := range []string{"linearPath", "tangentPath"} {
		arr := s.Properties[path]
		require.NotNil(t, arr, path)
		assert.Equal(t, "array", arr.Type)
		require.NotNil(t, arr.Items)
		assert.Equal(t, "integer", arr.Items.Properties["stepNumber"].Type)
		assert.ElementsMatch(t, []string{"title", "description", "stepNumber"}, arr.Items.Required)
	}
}

func TestSchema_ForGemini(t *testing.T) {
	g := ExplorationSchema().forGemini()

	assert.Equal(t, "OBJECT", g.Type)
	assert.Equal(t, "ARRAY", g.Properties["linearPath"].Type)
	assert.Equal(t, "INTEGER", g.Properties["linearPath"].Items.Properties["stepNumber"].Type)
	assert.Nil(t, g.AdditionalProperties)

	// The source schema is untouched.
	assert.Equal(t, "object", ExplorationSchema().Type)
}

func TestSchema_ForStrictJSONSchema(t *testing.T) {
	s := ExplorationSchema().forStrictJSONSchema()

	require.NotNil(t, s.AdditionalProperties)
	assert.False(t, *s.AdditionalProperties)
	require.NotNil(t, s.Properties["tangentPath"].Items.AdditionalProperties)
	assert.False(t, *s.Properties["tangentPath"].Items.AdditionalProperties)
	assert.Nil(t, s.Properties["rootTopic"].AdditionalProperties)
	assert.Empty(t, s.PropertyOrdering)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(ExplorationSchema().indented()), &decoded))
	assert.Equal(t, false, decoded["additionalProperties"])
}

func TestSchema_NilWalk(t *testing.T) {
	var s *Schema
	assert.Nil(t, s.forGemini())
	assert.Nil(t, s.forStrictJSONSchema())
}
