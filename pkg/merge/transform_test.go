package merge

import (
	"testing"

	"github.com/YasminAwad/Text2BPMN/pkg/diagram"
)

func TestOffsetFor(t *testing.T) {
	lane := diagram.LaneDiagram{
		LaneID: "lane_1",
		Shapes: []diagram.Shape{
			shape("task_a", 12, -8, 100, 80),
			shape("task_b", 200, 40, 100, 80),
		},
	}

	off, err := OffsetFor(lane, diagram.Point{X: 30, Y: 30})
	if err != nil {
		t.Fatalf("OffsetFor() error = %v", err)
	}
	if got, want := off, (diagram.Point{X: 18, Y: 38}); got != want {
		t.Errorf("offset = %+v, want %+v", got, want)
	}
}

func TestOffsetFor_EmptyLane(t *testing.T) {
	if _, err := OffsetFor(diagram.LaneDiagram{LaneID: "lane_1"}, diagram.Point{}); err == nil {
		t.Fatal("OffsetFor() error = nil, want EMPTY_LANE")
	}
}

func TestTranslate_ShiftsShapesAndWaypoints(t *testing.T) {
	lane := diagram.LaneDiagram{
		LaneID: "lane_1",
		Shapes: []diagram.Shape{shape("task_a", 10, 20, 100, 80)},
		Connectors: []diagram.Connector{
			{ID: "c1", SourceRef: "task_a", TargetRef: "task_a",
				Waypoints: []diagram.Point{{X: 60, Y: 100}, {X: 60, Y: 150}}},
		},
	}

	got := Translate(lane, diagram.Point{X: 5, Y: -10})

	if b := got.Shapes[0].Bounds; b.X != 15 || b.Y != 10 {
		t.Errorf("shape origin = (%v,%v), want (15,10)", b.X, b.Y)
	}
	if wp := got.Connectors[0].Waypoints[1]; wp.X != 65 || wp.Y != 140 {
		t.Errorf("waypoint = %+v, want {65 140}", wp)
	}
	if b := lane.Shapes[0].Bounds; b.X != 10 || b.Y != 20 {
		t.Errorf("input mutated: shape origin = (%v,%v)", b.X, b.Y)
	}
}

// Relative geometry must survive translation: pairwise deltas between
// shapes stay the same however far the lane is moved.
func TestTranslate_PreservesRelativeGeometry(t *testing.T) {
	lane := diagram.LaneDiagram{
		LaneID: "lane_1",
		Shapes: []diagram.Shape{
			shape("task_a", 0, 0, 100, 80),
			shape("task_b", 150, 40, 100, 80),
		},
	}

	got := Translate(lane, diagram.Point{X: 333, Y: -77})

	dx := got.Shapes[1].Bounds.X - got.Shapes[0].Bounds.X
	dy := got.Shapes[1].Bounds.Y - got.Shapes[0].Bounds.Y
	if dx != 150 || dy != 40 {
		t.Errorf("relative delta = (%v,%v), want (150,40)", dx, dy)
	}

	for i, s := range got.Shapes {
		if got, want := s.Bounds.Width, lane.Shapes[i].Bounds.Width; got != want {
			t.Errorf("shape %d width = %v, want %v", i, got, want)
		}
		if got, want := s.Bounds.Height, lane.Shapes[i].Bounds.Height; got != want {
			t.Errorf("shape %d height = %v, want %v", i, got, want)
		}
	}
}

func TestTranslate_ZeroOffsetIsClone(t *testing.T) {
	lane := diagram.LaneDiagram{
		LaneID: "lane_1",
		Shapes: []diagram.Shape{shape("task_a", 10, 20, 100, 80)},
	}

	got := Translate(lane, diagram.Point{})
	if b := got.Shapes[0].Bounds; b != lane.Shapes[0].Bounds {
		t.Errorf("bounds = %+v, want unchanged %+v", b, lane.Shapes[0].Bounds)
	}

	got.Shapes[0].Bounds.X = 999
	if lane.Shapes[0].Bounds.X != 10 {
		t.Error("zero-offset translate shares backing storage with input")
	}
}
