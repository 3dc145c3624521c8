// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chart derives the divergence chart shown next to an exploration.
// The chart is presentational: it is recomputed from the current result on
// every render and never stored.
package chart

import (
	"fmt"
	"strings"

	"github.com/pdiddy/tangente/pkg/types"
)

// Baseline is the constant value of the linear series.
const Baseline = 10.0

// Point is one step of the chart.
type Point struct {
	Step    string  `json:"step"`
	Name    string  `json:"name"`
	Linear  float64 `json:"linear"`
	Tangent float64 `json:"tangent"`
}

// Derive returns one point per linear step. The linear series stays at
// Baseline; the tangent series climbs by DivergenceScore/3 per step.
func Derive(r *types.ExplorationResult) []Point {
	if r == nil {
		return nil
	}
	points := make([]Point, 0, len(r.LinearPath))
	for i, node := range r.LinearPath {
		points = append(points, Point{
			Step:    fmt.Sprintf("Step %d", i+1),
			Name:    node.Title,
			Linear:  Baseline,
			Tangent: Baseline + float64(i)*(r.DivergenceScore/3),
		})
	}
	return points
}

// Series splits points into the linear and tangent value slices.
func Series(points []Point) (linear, tangent []float64) {
	linear = make([]float64, len(points))
	tangent = make([]float64, len(points))
	for i, p := range points {
		linear[i] = p.Linear
		tangent[i] = p.Tangent
	}
	return linear, tangent
}

// Plot is a chart projected into an SVG viewbox.
type Plot struct {
	Width, Height int
	Linear        string // polyline points
	Tangent       string // polyline points
	Labels        []Label
}

// Label is an x-axis label position.
type Label struct {
	X    float64
	Text string
}

// Project scales points into a width x height viewbox with a small inner
// padding. The y axis is scaled to the largest value, so a flat chart still
// renders.
func Project(points []Point, width, height int) Plot {
	plot := Plot{Width: width, Height: height}
	if len(points) == 0 {
		return plot
	}

	const pad = 8.0
	maxY := Baseline
	for _, p := range points {
		if p.Tangent > maxY {
			maxY = p.Tangent
		}
		if p.Linear > maxY {
			maxY = p.Linear
		}
	}

	innerW := float64(width) - 2*pad
	innerH := float64(height) - 2*pad
	step := 0.0
	if len(points) > 1 {
		step = innerW / float64(len(points)-1)
	}

	x := func(i int) float64 { return pad + float64(i)*step }
	y := func(v float64) float64 {
		if v < 0 {
			v = 0
		}
		return pad + innerH - (v/maxY)*innerH
	}

	var lin, tan strings.Builder
	for i, p := range points {
		if i > 0 {
			lin.WriteByte(' ')
			tan.WriteByte(' ')
		}
		fmt.Fprintf(&lin, "%.1f,%.1f", x(i), y(p.Linear))
		fmt.Fprintf(&tan, "%.1f,%.1f", x(i), y(p.Tangent))
		plot.Labels = append(plot.Labels, Label{X: x(i), Text: p.Step})
	}
	plot.Linear = lin.String()
	plot.Tangent = tan.String()
	return plot
}
