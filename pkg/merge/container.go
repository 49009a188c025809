package merge

import (
	"github.com/YasminAwad/Text2BPMN/pkg/diagram"
	"github.com/YasminAwad/Text2BPMN/pkg/errors"
)

// LaneContainer synthesizes the wrapper bounds for one lane from the
// final (post-transform) positions of its member shapes: the tight
// member bounding box expanded by padding on all four sides, with the
// width then forced to the plan's common width so every lane container
// in the pool lines up. Connectors never contribute to the box.
//
// Given a fixed shape set the computation is idempotent - recomputing
// yields identical bounds.
func LaneContainer(d diagram.LaneDiagram, padding, commonWidth float64) (diagram.Bounds, error) {
	box, ok := d.Bounds()
	if !ok {
		return diagram.Bounds{}, errors.New(errors.ErrCodeEmptyLane,
			"lane %s has no shapes, container undefined", d.LaneID)
	}
	bounds := box.Expand(padding)
	bounds.Width = commonWidth
	return bounds, nil
}

// PoolContainer synthesizes the pool wrapper from the finalized lane
// containers. The pool box starts poolPadding to the left of the
// leftmost lane (reserving room for the participant label), tops out at
// the first lane, spans the widest lane plus poolPadding, and is
// exactly as tall as the lanes stacked together.
//
// Must be called strictly after stacking and transformation: the bounds
// depend on final lane placement, and computing them early would bake
// in stale geometry.
func PoolContainer(lanes []diagram.Lane, poolPadding float64) (diagram.Bounds, error) {
	if len(lanes) == 0 {
		return diagram.Bounds{}, errors.New(errors.ErrCodeInvalidInput, "no lanes, pool undefined")
	}

	minX := lanes[0].Bounds.X
	minY := lanes[0].Bounds.Y
	maxWidth := lanes[0].Bounds.Width
	var sumHeights float64

	for _, l := range lanes {
		minX = min(minX, l.Bounds.X)
		minY = min(minY, l.Bounds.Y)
		maxWidth = max(maxWidth, l.Bounds.Width)
		sumHeights += l.Bounds.Height
	}

	return diagram.Bounds{
		X:      minX - poolPadding,
		Y:      minY,
		Width:  maxWidth + poolPadding,
		Height: sumHeights,
	}, nil
}
