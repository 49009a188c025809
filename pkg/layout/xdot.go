package layout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/YasminAwad/Text2BPMN/pkg/diagram"
)

var (
	bbRe  = regexp.MustCompile(`bb="([0-9.]+),([0-9.]+),([0-9.]+),([0-9.]+)"`)
	posRe = regexp.MustCompile(`pos="([0-9.]+),([0-9.]+)"`)
)

// parseXDOT extracts node center positions and the graph bounding box
// from dot's xdot output. Only node statements carry a bare "x,y" pos;
// edge splines use the "e,..." form and never match. Coordinates come
// back in points with y growing upward, exactly as Graphviz emits them;
// the caller flips the frame.
func parseXDOT(xdot []byte) (map[string]diagram.Point, diagram.Bounds, error) {
	// Graphviz wraps long attribute lists with backslash-newline.
	text := strings.ReplaceAll(string(xdot), "\\\n", "")

	m := bbRe.FindStringSubmatch(text)
	if m == nil {
		return nil, diagram.Bounds{}, fmt.Errorf("no bounding box in xdot output")
	}
	bb := diagram.Bounds{
		X:      parseFloat(m[1]),
		Y:      parseFloat(m[2]),
		Width:  parseFloat(m[3]),
		Height: parseFloat(m[4]),
	}

	positions := make(map[string]diagram.Point)
	for _, stmt := range strings.Split(text, ";") {
		id, ok := nodeID(stmt)
		if !ok {
			continue
		}
		pm := posRe.FindStringSubmatch(stmt)
		if pm == nil {
			continue
		}
		positions[id] = diagram.Point{X: parseFloat(pm[1]), Y: parseFloat(pm[2])}
	}

	return positions, bb, nil
}

// nodeID returns the node name a statement declares, or false for
// graph/edge statements and attribute defaults.
func nodeID(stmt string) (string, bool) {
	if strings.Contains(stmt, "->") {
		return "", false
	}

	head, _, found := strings.Cut(stmt, "[")
	if !found {
		return "", false
	}
	id := strings.TrimSpace(head)
	id = strings.Trim(id, "\"")
	if id == "" || id == "graph" || id == "node" || id == "edge" {
		return "", false
	}
	// The opening "digraph lane {" prefix sticks to the first statement.
	if i := strings.LastIndex(id, "{"); i >= 0 {
		id = strings.TrimSpace(id[i+1:])
		id = strings.Trim(id, "\"")
	}
	if id == "" || id == "graph" || id == "node" || id == "edge" {
		return "", false
	}
	return id, true
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
