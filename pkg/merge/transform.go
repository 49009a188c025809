package merge

import (
	"github.com/YasminAwad/Text2BPMN/pkg/diagram"
	"github.com/YasminAwad/Text2BPMN/pkg/errors"
)

// OffsetFor computes the translation that moves the lane's bounding-box
// minimum onto the given target origin.
func OffsetFor(d diagram.LaneDiagram, origin diagram.Point) (diagram.Point, error) {
	box, ok := d.Bounds()
	if !ok {
		return diagram.Point{}, errors.New(errors.ErrCodeEmptyLane,
			"lane %s has no shapes, offset undefined", d.LaneID)
	}
	return diagram.Point{X: origin.X - box.X, Y: origin.Y - box.Y}, nil
}

// Translate returns a fresh lane diagram with the offset added to every
// member shape and every waypoint of every connector. The input is
// never modified. Translating by the zero offset is a no-op, so the
// transform is safe to reason about as applied exactly once per lane.
func Translate(d diagram.LaneDiagram, offset diagram.Point) diagram.LaneDiagram {
	out := d.Clone()
	if offset.X == 0 && offset.Y == 0 {
		return out
	}

	for i := range out.Shapes {
		out.Shapes[i].Bounds = out.Shapes[i].Bounds.Translate(offset.X, offset.Y)
	}
	for i := range out.Connectors {
		for j := range out.Connectors[i].Waypoints {
			out.Connectors[i].Waypoints[j].X += offset.X
			out.Connectors[i].Waypoints[j].Y += offset.Y
		}
	}
	return out
}
