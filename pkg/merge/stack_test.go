package merge

import (
	"testing"

	"github.com/YasminAwad/Text2BPMN/pkg/diagram"
	"github.com/YasminAwad/Text2BPMN/pkg/errors"
)

func laneWithBBox(id string, order int, w, h float64) diagram.LaneDiagram {
	return diagram.LaneDiagram{
		LaneID: id,
		Order:  order,
		Shapes: []diagram.Shape{
			{ID: id + "_s1", ElementRef: id + "_e1", Bounds: diagram.Bounds{X: 10, Y: 10, Width: w, Height: h}},
		},
	}
}

func TestPlanStack_TwoLanes(t *testing.T) {
	lanes := []diagram.LaneDiagram{
		laneWithBBox("lane_a", 0, 300, 120),
		laneWithBBox("lane_b", 1, 200, 90),
	}

	plan, err := PlanStack(lanes, 30)
	if err != nil {
		t.Fatalf("PlanStack() error = %v", err)
	}

	if got, want := plan.CommonWidth, 360.0; got != want {
		t.Errorf("CommonWidth = %v, want %v", got, want)
	}
	if got, want := plan.Origins["lane_a"], (diagram.Point{X: 30, Y: 30}); got != want {
		t.Errorf("origin lane_a = %+v, want %+v", got, want)
	}
	if got, want := plan.Origins["lane_b"], (diagram.Point{X: 30, Y: 210}); got != want {
		t.Errorf("origin lane_b = %+v, want %+v", got, want)
	}
	if got, want := len(plan.Ordered), 2; got != want {
		t.Fatalf("ordered lane count = %d, want %d", got, want)
	}
	if plan.Ordered[0] != "lane_a" || plan.Ordered[1] != "lane_b" {
		t.Errorf("ordered = %v, want [lane_a lane_b]", plan.Ordered)
	}
}

func TestPlanStack_SortsByOrderNotInput(t *testing.T) {
	lanes := []diagram.LaneDiagram{
		laneWithBBox("lane_b", 1, 200, 90),
		laneWithBBox("lane_a", 0, 300, 120),
	}

	plan, err := PlanStack(lanes, 30)
	if err != nil {
		t.Fatalf("PlanStack() error = %v", err)
	}
	if plan.Ordered[0] != "lane_a" {
		t.Errorf("first lane = %s, want lane_a", plan.Ordered[0])
	}
}

func TestPlanStack_DuplicateOrder(t *testing.T) {
	lanes := []diagram.LaneDiagram{
		laneWithBBox("lane_a", 0, 300, 120),
		laneWithBBox("lane_b", 0, 200, 90),
	}

	_, err := PlanStack(lanes, 30)
	if err == nil {
		t.Fatal("PlanStack() error = nil, want INCONSISTENT_ORDER")
	}
	if got, want := errors.GetCode(err), errors.ErrCodeInconsistentOrder; got != want {
		t.Errorf("code = %v, want %v", got, want)
	}
}

func TestPlanStack_EmptyLane(t *testing.T) {
	lanes := []diagram.LaneDiagram{
		laneWithBBox("lane_a", 0, 300, 120),
		{LaneID: "lane_b", Order: 1},
	}

	_, err := PlanStack(lanes, 30)
	if err == nil {
		t.Fatal("PlanStack() error = nil, want EMPTY_LANE")
	}
	if got, want := errors.GetCode(err), errors.ErrCodeEmptyLane; got != want {
		t.Errorf("code = %v, want %v", got, want)
	}
}

func TestPlanStack_NoLanes(t *testing.T) {
	if _, err := PlanStack(nil, 30); err == nil {
		t.Fatal("PlanStack(nil) error = nil, want error")
	}
}
