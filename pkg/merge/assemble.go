package merge

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/YasminAwad/Text2BPMN/pkg/diagram"
	"github.com/YasminAwad/Text2BPMN/pkg/errors"
	"github.com/YasminAwad/Text2BPMN/pkg/model"
)

// Default paddings, in diagram units. Callers override them through
// Options; nothing below reads these directly.
const (
	DefaultPadding     = 30.0
	DefaultPoolPadding = 60.0
)

// Options configures an assembly run. The zero value is usable: paddings
// default to DefaultPadding/DefaultPoolPadding and warnings are discarded.
type Options struct {
	// Padding is the space between a lane's member bounding box and its
	// container on all four sides.
	Padding float64

	// PoolPadding is the extra width reserved on the pool's left edge
	// for the participant label.
	PoolPadding float64

	// PoolID and PoolName identify the participant wrapper.
	PoolID   string
	PoolName string

	// Logger receives non-fatal warnings (duplicate id resolution).
	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.PoolPadding == 0 {
		o.PoolPadding = DefaultPoolPadding
	}
	if o.PoolID == "" {
		o.PoolID = "process_participant_1"
	}
	if o.PoolName == "" {
		o.PoolName = "Pool/Participant"
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Assemble composes independently laid-out lane diagrams into one pool:
// clean placeholders, plan the stack, translate every lane into the
// shared frame, synthesize lane and pool containers, and route the
// given inter-lane flows. The result is a single fresh Assembly built
// from the N input graphs; the inputs are never modified.
//
// Any component failure aborts the whole operation - no partial
// assembly is ever returned. Duplicate shape or connector ids across
// lanes are resolved last-write-wins (in stacking order) and surfaced
// as warnings, tolerating imperfect upstream generation without
// changing the diagram's logical structure.
func Assemble(lanes []diagram.LaneDiagram, flows []model.SequenceFlow, opts Options) (*diagram.Assembly, error) {
	opts.setDefaults()

	cleaned := make([]diagram.LaneDiagram, len(lanes))
	for i, lane := range lanes {
		cleaned[i] = CleanMocks(lane)
	}

	plan, err := PlanStack(cleaned, opts.Padding)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]diagram.LaneDiagram, len(cleaned))
	for _, lane := range cleaned {
		byID[lane.LaneID] = lane
	}

	asm := &diagram.Assembly{
		Pool: diagram.Pool{ID: opts.PoolID, Name: opts.PoolName},
	}
	shapeIdx := make(map[string]int)  // shape id -> index in asm.Shapes
	shapeLane := make(map[string]int) // shape id -> index in asm.Pool.Lanes
	connIdx := make(map[string]int)   // connector id -> index in asm.Connectors
	shapeByRef := make(map[string]diagram.Shape)

	for _, laneID := range plan.Ordered {
		lane := byID[laneID]

		offset, err := OffsetFor(lane, plan.Origins[laneID])
		if err != nil {
			return nil, err
		}
		moved := Translate(lane, offset)

		container, err := LaneContainer(moved, opts.Padding, plan.CommonWidth)
		if err != nil {
			return nil, err
		}

		wrapper := diagram.Lane{
			ID:     moved.LaneID,
			Name:   moved.Name,
			Order:  moved.Order,
			Bounds: container,
		}

		for _, s := range moved.Shapes {
			if at, dup := shapeIdx[s.ID]; dup {
				opts.Logger.Warn("duplicate shape id across lanes, keeping last",
					"shape", s.ID, "lane", laneID)
				asm.Shapes[at] = s
				// The losing lane must not reference the id either, or
				// the exported lane set would list the node twice.
				if prev := shapeLane[s.ID]; prev < len(asm.Pool.Lanes) {
					asm.Pool.Lanes[prev].ShapeIDs = removeID(asm.Pool.Lanes[prev].ShapeIDs, s.ID)
				} else {
					wrapper.ShapeIDs = removeID(wrapper.ShapeIDs, s.ID)
				}
			} else {
				shapeIdx[s.ID] = len(asm.Shapes)
				asm.Shapes = append(asm.Shapes, s)
			}
			shapeLane[s.ID] = len(asm.Pool.Lanes)
			shapeByRef[s.ElementRef] = s
			wrapper.ShapeIDs = append(wrapper.ShapeIDs, s.ID)
		}

		for _, c := range moved.Connectors {
			if at, dup := connIdx[c.ID]; dup {
				opts.Logger.Warn("duplicate connector id across lanes, keeping last",
					"connector", c.ID, "lane", laneID)
				asm.Connectors[at] = c
			} else {
				connIdx[c.ID] = len(asm.Connectors)
				asm.Connectors = append(asm.Connectors, c)
			}
		}

		asm.Pool.Lanes = append(asm.Pool.Lanes, wrapper)
	}

	// Every connector carried over from lane layout must still resolve.
	for _, c := range asm.Connectors {
		if _, ok := shapeByRef[c.SourceRef]; !ok {
			return nil, errors.New(errors.ErrCodeMissingReference,
				"connector %s references unknown source %s", c.ID, c.SourceRef)
		}
		if _, ok := shapeByRef[c.TargetRef]; !ok {
			return nil, errors.New(errors.ErrCodeMissingReference,
				"connector %s references unknown target %s", c.ID, c.TargetRef)
		}
	}

	asm.Pool.Bounds, err = PoolContainer(asm.Pool.Lanes, opts.PoolPadding)
	if err != nil {
		return nil, err
	}

	for _, f := range flows {
		src, okS := shapeByRef[f.SourceRef]
		if !okS {
			return nil, errors.New(errors.ErrCodeMissingReference,
				"sequence flow %s references unknown source %s", f.ID, f.SourceRef)
		}
		dst, okT := shapeByRef[f.TargetRef]
		if !okT {
			return nil, errors.New(errors.ErrCodeMissingReference,
				"sequence flow %s references unknown target %s", f.ID, f.TargetRef)
		}

		c := diagram.Connector{
			ID:        f.ID + "_di",
			SourceRef: f.SourceRef,
			TargetRef: f.TargetRef,
			Waypoints: RouteFlow(src, dst),
		}
		if at, dup := connIdx[c.ID]; dup {
			opts.Logger.Warn("routed flow collides with existing connector id, keeping routed",
				"connector", c.ID)
			asm.Connectors[at] = c
		} else {
			connIdx[c.ID] = len(asm.Connectors)
			asm.Connectors = append(asm.Connectors, c)
		}
	}

	return asm, nil
}

// removeID drops every occurrence of id from ids, preserving order.
func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
