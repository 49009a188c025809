package merge

import (
	"testing"

	"github.com/YasminAwad/Text2BPMN/pkg/diagram"
	"github.com/YasminAwad/Text2BPMN/pkg/errors"
	"github.com/YasminAwad/Text2BPMN/pkg/model"
)

// twoLanes builds the canonical two-lane fixture used across the
// assembly tests: lane A (order 0) with a 300x120 bounding box and
// lane B (order 1) with a 200x90 one, plus placeholder endpoints in A.
func twoLanes() []diagram.LaneDiagram {
	return []diagram.LaneDiagram{
		{
			LaneID: "lane_a", Name: "Sales", Order: 0,
			Shapes: []diagram.Shape{
				shape("mock_start_lane_a", -60, 30, 36, 36),
				shape("task_a1", 10, 10, 100, 80),
				shape("task_a2", 210, 50, 100, 80),
			},
			Connectors: []diagram.Connector{
				{ID: "c_a0", SourceRef: "mock_start_lane_a", TargetRef: "task_a1"},
				{ID: "c_a1", SourceRef: "task_a1", TargetRef: "task_a2",
					Waypoints: []diagram.Point{{X: 110, Y: 50}, {X: 210, Y: 90}}},
			},
		},
		{
			LaneID: "lane_b", Name: "Warehouse", Order: 1,
			Shapes: []diagram.Shape{
				shape("ev_b1", 0, 0, 36, 36),
				shape("task_b1", 100, 10, 100, 80),
			},
			Connectors: []diagram.Connector{
				{ID: "c_b1", SourceRef: "ev_b1", TargetRef: "task_b1"},
			},
		},
	}
}

func TestAssemble_TwoLanePool(t *testing.T) {
	flows := []model.SequenceFlow{
		{ID: "flow_cross", SourceRef: "task_a2", TargetRef: "task_b1"},
	}

	asm, err := Assemble(twoLanes(), flows, Options{})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if got, want := len(asm.Pool.Lanes), 2; got != want {
		t.Fatalf("lane count = %d, want %d", got, want)
	}
	if got, want := asm.Pool.Lanes[0].Bounds, (diagram.Bounds{X: 0, Y: 0, Width: 360, Height: 180}); got != want {
		t.Errorf("lane A container = %+v, want %+v", got, want)
	}
	if got, want := asm.Pool.Lanes[1].Bounds, (diagram.Bounds{X: 0, Y: 180, Width: 360, Height: 150}); got != want {
		t.Errorf("lane B container = %+v, want %+v", got, want)
	}
	if got, want := asm.Pool.Bounds, (diagram.Bounds{X: -60, Y: 0, Width: 420, Height: 330}); got != want {
		t.Errorf("pool bounds = %+v, want %+v", got, want)
	}

	// Placeholder endpoints must be gone from the merged shape set.
	for _, s := range asm.Shapes {
		if IsPlaceholder(s.ElementRef) {
			t.Errorf("placeholder %s survived assembly", s.ElementRef)
		}
	}

	// Lane A members translated to origin (30,30).
	a1, ok := asm.Shape("task_a1")
	if !ok {
		t.Fatal("task_a1 missing from assembly")
	}
	if got, want := a1.Bounds, (diagram.Bounds{X: 30, Y: 30, Width: 100, Height: 80}); got != want {
		t.Errorf("task_a1 bounds = %+v, want %+v", got, want)
	}
	b1, ok := asm.Shape("task_b1")
	if !ok {
		t.Fatal("task_b1 missing from assembly")
	}
	if got, want := b1.Bounds, (diagram.Bounds{X: 130, Y: 220, Width: 100, Height: 80}); got != want {
		t.Errorf("task_b1 bounds = %+v, want %+v", got, want)
	}
}

func TestAssemble_RoutesInterLaneFlow(t *testing.T) {
	flows := []model.SequenceFlow{
		{ID: "flow_cross", SourceRef: "task_a2", TargetRef: "task_b1"},
	}

	asm, err := Assemble(twoLanes(), flows, Options{})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	var routed *diagram.Connector
	for i := range asm.Connectors {
		if asm.Connectors[i].ID == "flow_cross_di" {
			routed = &asm.Connectors[i]
		}
	}
	if routed == nil {
		t.Fatal("routed connector flow_cross_di not found")
	}

	want := []diagram.Point{{X: 280, Y: 150}, {X: 180, Y: 220}}
	if len(routed.Waypoints) != 2 || routed.Waypoints[0] != want[0] || routed.Waypoints[1] != want[1] {
		t.Errorf("waypoints = %v, want %v", routed.Waypoints, want)
	}
}

func TestAssemble_LanesDoNotOverlap(t *testing.T) {
	asm, err := Assemble(twoLanes(), nil, Options{})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	for i := 0; i < len(asm.Pool.Lanes)-1; i++ {
		upper, lower := asm.Pool.Lanes[i].Bounds, asm.Pool.Lanes[i+1].Bounds
		if upper.MaxY() > lower.Y {
			t.Errorf("lane %d bottom %v overlaps lane %d top %v", i, upper.MaxY(), i+1, lower.Y)
		}
	}
	for _, lane := range asm.Pool.Lanes {
		if !asm.Pool.Bounds.Contains(lane.Bounds) {
			t.Errorf("pool %+v does not contain lane %s %+v", asm.Pool.Bounds, lane.ID, lane.Bounds)
		}
	}
}

func TestAssemble_MissingFlowEndpoint(t *testing.T) {
	flows := []model.SequenceFlow{
		{ID: "flow_bad", SourceRef: "task_a2", TargetRef: "task_nowhere"},
	}

	_, err := Assemble(twoLanes(), flows, Options{})
	if err == nil {
		t.Fatal("Assemble() error = nil, want MISSING_REFERENCE")
	}
	if got, want := errors.GetCode(err), errors.ErrCodeMissingReference; got != want {
		t.Errorf("code = %v, want %v", got, want)
	}
}

func TestAssemble_LaneEmptyAfterCleanup(t *testing.T) {
	lanes := []diagram.LaneDiagram{
		twoLanes()[0],
		{
			LaneID: "lane_b", Order: 1,
			Shapes: []diagram.Shape{shape("mock_start_lane_b", 0, 0, 36, 36)},
		},
	}

	_, err := Assemble(lanes, nil, Options{})
	if err == nil {
		t.Fatal("Assemble() error = nil, want EMPTY_LANE")
	}
	if got, want := errors.GetCode(err), errors.ErrCodeEmptyLane; got != want {
		t.Errorf("code = %v, want %v", got, want)
	}
}

func TestAssemble_DuplicateShapeIDKeepsLast(t *testing.T) {
	lanes := twoLanes()
	// Same shape id as lane A's task_a1, placed in lane B.
	lanes[1].Shapes = append(lanes[1].Shapes, diagram.Shape{
		ID: "task_a1_shape", ElementRef: "task_a1",
		Bounds: diagram.Bounds{X: 0, Y: 60, Width: 100, Height: 80},
	})

	asm, err := Assemble(lanes, nil, Options{})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	var hits int
	for _, s := range asm.Shapes {
		if s.ID == "task_a1_shape" {
			hits++
		}
	}
	if got, want := hits, 1; got != want {
		t.Errorf("occurrences of duplicate id = %d, want %d", got, want)
	}

	// Only the winning lane may still reference the id; a stale
	// reference in the earlier lane would duplicate the node in the
	// exported lane set.
	var refs []string
	for _, ln := range asm.Pool.Lanes {
		for _, id := range ln.ShapeIDs {
			if id == "task_a1_shape" {
				refs = append(refs, ln.ID)
			}
		}
	}
	if got, want := len(refs), 1; got != want {
		t.Fatalf("lanes referencing duplicate id = %v, want exactly one", refs)
	}
	if got, want := refs[0], "lane_b"; got != want {
		t.Errorf("lane referencing duplicate id = %q, want %q", got, want)
	}
}

func TestAssemble_InputsUntouched(t *testing.T) {
	lanes := twoLanes()
	before := lanes[0].Shapes[1].Bounds

	if _, err := Assemble(lanes, nil, Options{}); err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if got := lanes[0].Shapes[1].Bounds; got != before {
		t.Errorf("input lane mutated: bounds = %+v, want %+v", got, before)
	}
}
