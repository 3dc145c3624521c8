// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the exploration data model and configuration shared
// across packages.
package types

// PathType identifies which of the two explanation sequences a node belongs to.
type PathType string

const (
	PathLinear  PathType = "LINEAR"
	PathTangent PathType = "TANGENT"
)

// ConceptNode is one step of either path. Nodes are built only by
// normalizing model output and are not modified afterwards.
type ConceptNode struct {
	// ID is unique within its path, e.g. "lin-2" or "tan-3".
	ID string `json:"id" yaml:"id"`

	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`

	// Type matches the path the node belongs to.
	Type PathType `json:"type" yaml:"type"`

	// Depth is the step number reported by the model (>= 0).
	Depth int `json:"depth" yaml:"depth"`
}

// ExplorationResult is the outcome of one exploration. It is always replaced
// as a whole, never patched.
type ExplorationResult struct {
	RootTopic   string        `json:"rootTopic" yaml:"root_topic"`
	LinearPath  []ConceptNode `json:"linearPath" yaml:"linear_path"`
	TangentPath []ConceptNode `json:"tangentPath" yaml:"tangent_path"`

	// DivergenceScore is 0-100: how far the tangent drifted from the topic.
	DivergenceScore float64 `json:"divergenceScore" yaml:"divergence_score"`
}

// SuggestedTopics are the quick-select topics offered before the first
// exploration. Selecting one fills the input; it never submits.
var SuggestedTopics = []string{
	"The Roman Empire",
	"Artificial Intelligence",
	"Bananas",
	"Remote Work",
}
