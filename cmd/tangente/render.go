// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/tangente/internal/chart"
	"github.com/pdiddy/tangente/pkg/types"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func validFormat(f string) bool {
	return f == formatText || f == formatJSON || f == formatYAML
}

// resultDocument is the json/yaml output of the explore command.
type resultDocument struct {
	types.ExplorationResult `yaml:",inline"`
	Chart                   []chart.Point `json:"chart" yaml:"chart"`
}

// writeResult prints result in the requested format.
func writeResult(w io.Writer, result *types.ExplorationResult, format string) error {
	doc := resultDocument{ExplorationResult: *result, Chart: chart.Derive(result)}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case formatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshaling result: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return writeText(w, result, doc.Chart)
	}
}

func writeText(w io.Writer, r *types.ExplorationResult, points []chart.Point) error {
	fmt.Fprintf(w, "Analysis: %s\n", r.RootTopic)
	fmt.Fprintf(w, "Divergence Score: %s/100\n\n", num(r.DivergenceScore))

	fmt.Fprintln(w, "Divergence Velocity")
	for _, p := range points {
		fmt.Fprintf(w, "  %-8s linear %-6s tangent %s\n", p.Step, num(p.Linear), num(p.Tangent))
	}

	writePath(w, "The Straight Path", r.LinearPath)
	writePath(w, "The Tangent", r.TangentPath)
	return nil
}

func writePath(w io.Writer, title string, nodes []types.ConceptNode) {
	fmt.Fprintf(w, "\n%s\n", title)
	for i, n := range nodes {
		fmt.Fprintf(w, "  [%s] %s\n", n.ID, n.Title)
		fmt.Fprintf(w, "      %s\n", n.Description)
		if i < len(nodes)-1 {
			fmt.Fprintln(w, "        |")
		}
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
