// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explore

import (
	"bytes"
	"text/template"
)

// systemInstruction frames the model for both paths at once.
const systemInstruction = "You are an expert in lateral thinking and logical reasoning. You visualize thought processes."

// explorationPromptTmpl is the user prompt sent for every exploration.
var explorationPromptTmpl = template.Must(template.New("exploration").Parse(`Analyze the topic: "{{.Topic}}".

Generate two distinct paths of thought with {{.Steps}} steps each:
1. Linear Path: Strictly logical, expected, and focused deep dive into the topic.
2. Tangent Path: Start related, but then use lateral thinking to drift into surprising, creative, or metaphorically related territory ("going off on a tangent").

Provide a divergence score (0-100) representing how far the tangent path drifted from the original concept.
{{- if .InlineSchema}}

Respond with a single JSON object matching this JSON Schema. Do not include any text outside the JSON object.
{{.InlineSchema}}
{{- end}}
`))

// stepsPerPath is the number of steps requested for each path.
const stepsPerPath = 4

// Prompt is everything a backend needs to issue one structured-generation call.
type Prompt struct {
	System      string
	User        string
	Schema      *Schema
	Temperature float64
}

// renderPrompt executes the exploration template. inlineSchema is non-empty
// for backends that cannot take a response schema out of band.
func renderPrompt(topic, inlineSchema string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Topic        string
		Steps        int
		InlineSchema string
	}{Topic: topic, Steps: stepsPerPath, InlineSchema: inlineSchema}
	if err := explorationPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
