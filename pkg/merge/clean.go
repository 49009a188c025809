// Package merge implements the diagram-merge engine: it composes
// independently laid-out lane diagrams into a single multi-lane pool
// with correct relative geometry, synthesized container shapes, and
// routed inter-lane connectors.
//
// The engine is a pure, synchronous transformation. It never mutates
// its inputs: the assembler builds one fresh output graph from N
// independent lane graphs, so merge order can never leak into the
// result through destructive edits of a shared document.
package merge

import (
	"strings"

	"github.com/YasminAwad/Text2BPMN/pkg/diagram"
)

// Placeholder id markers. The upstream layout step inserts synthetic
// entry/exit events named mock_start_* / mock_end_* so every lane
// satisfies the layout engine's connectivity requirement.
const (
	mockStartMarker = "mock_start"
	mockEndMarker   = "mock_end"
)

// IsPlaceholder reports whether an element id names a synthetic
// placeholder entry/exit event.
func IsPlaceholder(id string) bool {
	lower := strings.ToLower(id)
	return strings.Contains(lower, mockStartMarker) || strings.Contains(lower, mockEndMarker)
}

// CleanMocks strips synthetic placeholder shapes from a lane diagram and
// resolves the connectors that referenced them. A connector passing
// through a removed placeholder is contracted to the nearest real
// neighbors on both sides; a connector that dead-ends at a placeholder
// (the usual case, since placeholders are terminal) is dropped.
//
// CleanMocks is idempotent: a diagram without placeholders passes
// through unchanged.
func CleanMocks(d diagram.LaneDiagram) diagram.LaneDiagram {
	removed := make(map[string]bool)
	for _, s := range d.Shapes {
		if IsPlaceholder(s.ElementRef) {
			removed[s.ElementRef] = true
		}
	}
	if len(removed) == 0 {
		return d.Clone()
	}

	out := diagram.LaneDiagram{
		LaneID: d.LaneID,
		Name:   d.Name,
		Order:  d.Order,
	}

	shapeByRef := make(map[string]diagram.Shape, len(d.Shapes))
	for _, s := range d.Shapes {
		shapeByRef[s.ElementRef] = s
		if !removed[s.ElementRef] {
			out.Shapes = append(out.Shapes, s)
		}
	}

	// Forward adjacency through removed nodes, for chain contraction.
	next := make(map[string][]string)
	for _, c := range d.Connectors {
		if removed[c.SourceRef] {
			next[c.SourceRef] = append(next[c.SourceRef], c.TargetRef)
		}
	}

	seen := make(map[string]bool)
	for _, c := range d.Connectors {
		switch {
		case !removed[c.SourceRef] && !removed[c.TargetRef]:
			out.Connectors = append(out.Connectors, c)

		case !removed[c.SourceRef] && removed[c.TargetRef]:
			// Contract forward through the placeholder chain. If a real
			// target is reachable, redirect; otherwise the connector
			// dangled at a terminal placeholder and is dropped.
			if target, ok := firstReal(c.TargetRef, next, removed); ok {
				key := c.SourceRef + "\x00" + target
				if seen[key] {
					continue
				}
				seen[key] = true
				out.Connectors = append(out.Connectors, redirect(c, target, shapeByRef))
			}

			// Connectors whose source is a placeholder are covered by the
			// contraction above or dropped with the placeholder itself.
		}
	}

	return out
}

// firstReal walks forward from a removed node until it reaches a shape
// that survives cleanup. Visited tracking guards against placeholder
// cycles in malformed input.
func firstReal(from string, next map[string][]string, removed map[string]bool) (string, bool) {
	visited := map[string]bool{from: true}
	frontier := next[from]
	for len(frontier) > 0 {
		id := frontier[0]
		frontier = frontier[1:]
		if !removed[id] {
			return id, true
		}
		if visited[id] {
			continue
		}
		visited[id] = true
		frontier = append(frontier, next[id]...)
	}
	return "", false
}

// redirect rebuilds a connector between two real shapes as a straight
// two-point polyline between their centers. Exact anchoring is left to
// later routing passes; the contracted connector only needs to stay
// structurally valid.
func redirect(c diagram.Connector, target string, shapes map[string]diagram.Shape) diagram.Connector {
	out := diagram.Connector{
		ID:        c.ID,
		SourceRef: c.SourceRef,
		TargetRef: target,
	}
	src, okS := shapes[c.SourceRef]
	dst, okT := shapes[target]
	if okS && okT {
		out.Waypoints = []diagram.Point{
			{X: src.Bounds.CenterX(), Y: src.Bounds.CenterY()},
			{X: dst.Bounds.CenterX(), Y: dst.Bounds.CenterY()},
		}
	}
	return out
}
