// Package diagram defines the typed in-memory geometry model for BPMN
// diagram interchange: shapes, connectors, lanes, and pools.
//
// All coordinates are in diagram interchange units (pixels). Per-lane
// diagrams arrive in local coordinates from the layout engine; the merge
// package translates them into the pool's shared frame. Types in this
// package are plain values - transformations return fresh copies rather
// than mutating their inputs.
package diagram

// Point is a single (x, y) coordinate, used for connector waypoints.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape is the visual rectangle for one structural element (event, task,
// gateway). ID is unique across the whole diagram; ElementRef names the
// logical element the shape renders.
type Shape struct {
	ID         string `json:"id"`
	ElementRef string `json:"element_ref"`
	Bounds     Bounds `json:"bounds"`
}

// Connector is the visual polyline rendering one logical link.
type Connector struct {
	ID        string  `json:"id"`
	SourceRef string  `json:"source_ref"`
	TargetRef string  `json:"target_ref"`
	Waypoints []Point `json:"waypoints"`
}

// LaneDiagram is one lane's shape/connector graph as produced by the
// layout engine, positioned in lane-local coordinates.
type LaneDiagram struct {
	LaneID     string      `json:"lane_id"`
	Name       string      `json:"name,omitempty"`
	Order      int         `json:"order"`
	Shapes     []Shape     `json:"shapes"`
	Connectors []Connector `json:"connectors,omitempty"`
}

// Bounds returns the tight bounding box of the lane's member shapes.
// Connectors never contribute to the box. The second return is false
// when the lane has no shapes, making its box undefined.
func (d LaneDiagram) Bounds() (Bounds, bool) {
	return BoundsOf(d.Shapes)
}

// Clone returns a deep copy of the lane diagram. Shapes and connector
// waypoint slices are copied so the original is never aliased.
func (d LaneDiagram) Clone() LaneDiagram {
	out := d
	out.Shapes = make([]Shape, len(d.Shapes))
	copy(out.Shapes, d.Shapes)
	out.Connectors = make([]Connector, len(d.Connectors))
	for i, c := range d.Connectors {
		wp := make([]Point, len(c.Waypoints))
		copy(wp, c.Waypoints)
		c.Waypoints = wp
		out.Connectors[i] = c
	}
	return out
}

// Lane is the wrapper container for one sub-role. It references its
// member shapes by id; the shapes themselves live in the assembly's
// shared shape table.
type Lane struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Order    int      `json:"order"`
	ShapeIDs []string `json:"shape_ids"`
	Bounds   Bounds   `json:"bounds"`
}

// Pool is the outermost container representing one process participant.
// It owns the final assembled geometry.
type Pool struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Lanes  []Lane `json:"lanes"`
	Bounds Bounds `json:"bounds"`
}

// Assembly is the merged multi-lane diagram: the pool with its lane
// containers plus the full shape and connector sets in the pool's
// shared coordinate frame. It is produced exactly once by the
// assembler and never mutated afterwards.
type Assembly struct {
	Pool       Pool        `json:"pool"`
	Shapes     []Shape     `json:"shapes"`
	Connectors []Connector `json:"connectors"`
}

// Shape looks up a shape in the assembly's shape table by element ref.
func (a *Assembly) Shape(elementRef string) (Shape, bool) {
	for _, s := range a.Shapes {
		if s.ElementRef == elementRef {
			return s, true
		}
	}
	return Shape{}, false
}
