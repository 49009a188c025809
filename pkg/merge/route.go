package merge

import (
	"github.com/YasminAwad/Text2BPMN/pkg/diagram"
)

// RouteFlow synthesizes the two-point polyline for a logical link whose
// endpoints live in different lanes, from the shapes' final
// (post-transform) bounds. Each waypoint sits on the horizontal
// midpoint of its shape. When the source is strictly above the target,
// the polyline leaves the source's bottom edge and enters the target's
// top edge; otherwise it leaves the source's top edge and enters the
// target's bottom edge.
//
// The straight vertical-biased connector may cross intervening shapes;
// that is an accepted approximation, not a defect.
func RouteFlow(src, dst diagram.Shape) []diagram.Point {
	wx1 := src.Bounds.CenterX()
	wx2 := dst.Bounds.CenterX()

	var wy1, wy2 float64
	if src.Bounds.Y < dst.Bounds.Y {
		wy1 = src.Bounds.MaxY()
		wy2 = dst.Bounds.Y
	} else {
		wy1 = src.Bounds.Y
		wy2 = dst.Bounds.MaxY()
	}

	return []diagram.Point{{X: wx1, Y: wy1}, {X: wx2, Y: wy2}}
}
