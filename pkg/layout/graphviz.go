package layout

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"

	"github.com/YasminAwad/Text2BPMN/pkg/diagram"
	"github.com/YasminAwad/Text2BPMN/pkg/errors"
	"github.com/YasminAwad/Text2BPMN/pkg/model"
)

// Graphviz works in inches; diagram units are points at 72 dpi.
const pointsPerInch = 72.0

// GraphvizEngine lays out one lane by generating DOT, running the dot
// engine in process, and reading node positions back from the xdot
// output.
type GraphvizEngine struct {
	logger *log.Logger
}

// NewGraphvizEngine returns an engine that logs to logger, or discards
// logs when logger is nil.
func NewGraphvizEngine(logger *log.Logger) *GraphvizEngine {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &GraphvizEngine{logger: logger}
}

// Layout positions the lane's elements left to right in a local frame
// anchored at (0,0). Synthetic entry and exit placeholders are added
// before layout and kept in the result; merge-side cleanup strips them.
func (e *GraphvizEngine) Layout(ctx context.Context, req Request) (diagram.LaneDiagram, error) {
	if len(req.Lane.Elements) == 0 {
		return diagram.LaneDiagram{}, errors.New(errors.ErrCodeEmptyLane,
			"lane %s has no elements to lay out", req.Lane.ID)
	}

	elements, flows := withPlaceholders(req.Lane, req.Flows)
	dot := ToDOT(elements, flows)

	xdot, err := renderXDOT(ctx, dot)
	if err != nil {
		return diagram.LaneDiagram{}, errors.Wrap(errors.ErrCodeLayoutFailed, err,
			"graphviz layout for lane %s", req.Lane.ID)
	}

	positions, bb, err := parseXDOT(xdot)
	if err != nil {
		return diagram.LaneDiagram{}, errors.Wrap(errors.ErrCodeLayoutFailed, err,
			"parse layout for lane %s", req.Lane.ID)
	}

	result := diagram.LaneDiagram{
		LaneID: req.Lane.ID,
		Name:   req.Lane.Name,
		Order:  req.Lane.Order,
	}

	shapeByRef := make(map[string]diagram.Shape, len(elements))
	for _, el := range elements {
		center, ok := positions[el.ID]
		if !ok {
			return diagram.LaneDiagram{}, errors.New(errors.ErrCodeLayoutFailed,
				"graphviz output has no position for %s", el.ID)
		}
		w, h := SizeOf(el.Type)
		s := diagram.Shape{
			ID:         el.ID + "_shape",
			ElementRef: el.ID,
			Bounds: diagram.Bounds{
				// Graphviz anchors y at the bottom-left; flip into the
				// y-down frame diagrams use.
				X:      center.X - w/2,
				Y:      (bb.Height - center.Y) - h/2,
				Width:  w,
				Height: h,
			},
		}
		result.Shapes = append(result.Shapes, s)
		shapeByRef[el.ID] = s
	}

	for _, f := range flows {
		src, okS := shapeByRef[f.SourceRef]
		dst, okT := shapeByRef[f.TargetRef]
		if !okS || !okT {
			return diagram.LaneDiagram{}, errors.New(errors.ErrCodeMissingReference,
				"flow %s references an element outside lane %s", f.ID, req.Lane.ID)
		}
		result.Connectors = append(result.Connectors, diagram.Connector{
			ID:        f.ID + "_di",
			SourceRef: f.SourceRef,
			TargetRef: f.TargetRef,
			Waypoints: horizontalRoute(src, dst),
		})
	}

	e.logger.Debug("lane laid out",
		"lane", req.Lane.ID,
		"shapes", len(result.Shapes),
		"connectors", len(result.Connectors))

	return result, nil
}

// ToDOT converts a lane graph to Graphviz DOT. Nodes are fixed-size
// boxes matching the element's rendered dimensions so that the computed
// positions account for the real footprint of each shape.
func ToDOT(elements []model.Element, flows []model.SequenceFlow) string {
	var buf bytes.Buffer
	buf.WriteString("digraph lane {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, fixedsize=true];\n")
	fmt.Fprintf(&buf, "  ranksep=%.1f;\n", Ranksep)
	fmt.Fprintf(&buf, "  nodesep=%.1f;\n", Nodesep)
	buf.WriteString("\n")

	for _, el := range elements {
		w, h := SizeOf(el.Type)
		fmt.Fprintf(&buf, "  %q [width=%.4f, height=%.4f];\n",
			el.ID, w/pointsPerInch, h/pointsPerInch)
	}

	buf.WriteString("\n")
	for _, f := range flows {
		fmt.Fprintf(&buf, "  %q -> %q;\n", f.SourceRef, f.TargetRef)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// renderXDOT runs the dot layout engine in process and returns the
// xdot-format output, which carries the computed positions as plain
// attributes.
func renderXDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// horizontalRoute draws the straight connector for a left-to-right lane
// layout: exit the side of the source facing the target, enter the
// facing side of the target, both at vertical midheight.
func horizontalRoute(src, dst diagram.Shape) []diagram.Point {
	if src.Bounds.CenterX() <= dst.Bounds.CenterX() {
		return []diagram.Point{
			{X: src.Bounds.MaxX(), Y: src.Bounds.CenterY()},
			{X: dst.Bounds.X, Y: dst.Bounds.CenterY()},
		}
	}
	return []diagram.Point{
		{X: src.Bounds.X, Y: src.Bounds.CenterY()},
		{X: dst.Bounds.MaxX(), Y: dst.Bounds.CenterY()},
	}
}
