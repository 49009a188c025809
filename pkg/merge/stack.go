package merge

import (
	"slices"

	"github.com/YasminAwad/Text2BPMN/pkg/diagram"
	"github.com/YasminAwad/Text2BPMN/pkg/errors"
)

// Plan is the stacking decision for a set of lanes: the common frame
// width every lane container will occupy and the target origin each
// lane's bounding box must be moved to.
type Plan struct {
	// CommonWidth is the width shared by every lane container:
	// max over lanes of (bbox width + 2*padding).
	CommonWidth float64

	// Origins maps lane id to the target top-left corner of the lane's
	// member bounding box in the pool frame.
	Origins map[string]diagram.Point

	// Ordered lists lane ids in ascending stacking order.
	Ordered []string
}

// PlanStack decides target origins and the common width for an ordered
// set of cleaned lanes. Lanes are stacked top to bottom by ascending
// order value: the first lane's origin is (padding, padding) and each
// subsequent origin sits below the allotted heights (bbox height +
// 2*padding) of all prior lanes. The fold over prior heights is
// inherently sequential - each origin depends on every earlier lane.
//
// Fails with INCONSISTENT_ORDER when two lanes share an order value and
// EMPTY_LANE when a lane has no shapes, since its bounding box is then
// undefined.
func PlanStack(lanes []diagram.LaneDiagram, padding float64) (Plan, error) {
	if len(lanes) == 0 {
		return Plan{}, errors.New(errors.ErrCodeInvalidInput, "no lanes to stack")
	}

	sorted := make([]diagram.LaneDiagram, len(lanes))
	copy(sorted, lanes)
	slices.SortStableFunc(sorted, func(a, b diagram.LaneDiagram) int {
		return a.Order - b.Order
	})

	plan := Plan{Origins: make(map[string]diagram.Point, len(sorted))}

	byOrder := make(map[int]string, len(sorted))
	for _, lane := range sorted {
		if prev, dup := byOrder[lane.Order]; dup {
			return Plan{}, errors.New(errors.ErrCodeInconsistentOrder,
				"lanes %s and %s share order %d", prev, lane.LaneID, lane.Order)
		}
		byOrder[lane.Order] = lane.LaneID

		box, ok := lane.Bounds()
		if !ok {
			return Plan{}, errors.New(errors.ErrCodeEmptyLane,
				"lane %s has no shapes after cleanup", lane.LaneID)
		}
		if w := box.Width + 2*padding; w > plan.CommonWidth {
			plan.CommonWidth = w
		}
	}

	y := padding
	for _, lane := range sorted {
		box, _ := lane.Bounds()
		plan.Origins[lane.LaneID] = diagram.Point{X: padding, Y: y}
		plan.Ordered = append(plan.Ordered, lane.LaneID)
		y += box.Height + 2*padding
	}

	return plan, nil
}
