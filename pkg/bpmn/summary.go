package bpmn

import (
	"fmt"
	"strings"

	"github.com/YasminAwad/Text2BPMN/pkg/diagram"
	"github.com/YasminAwad/Text2BPMN/pkg/model"
)

// Summary renders a plain-text report of an assembled diagram: the
// pool, each lane with its member elements, and the flow counts. It is
// meant for logs and quick inspection, not for machine consumption.
func Summary(p *model.Process, asm *diagram.Assembly) string {
	elements := make(map[string]model.Element)
	for _, l := range p.Pool.Lanes {
		for _, el := range l.Elements {
			elements[el.ID] = el
		}
	}
	shapeByID := make(map[string]diagram.Shape, len(asm.Shapes))
	for _, s := range asm.Shapes {
		shapeByID[s.ID] = s
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Pool %q (%s)\n", asm.Pool.Name, asm.Pool.ID)
	fmt.Fprintf(&b, "  bounds: x=%g y=%g w=%g h=%g\n",
		asm.Pool.Bounds.X, asm.Pool.Bounds.Y, asm.Pool.Bounds.Width, asm.Pool.Bounds.Height)
	fmt.Fprintf(&b, "  lanes: %d, shapes: %d, connectors: %d\n",
		len(asm.Pool.Lanes), len(asm.Shapes), len(asm.Connectors))

	for _, ln := range asm.Pool.Lanes {
		fmt.Fprintf(&b, "\nLane %q (%s), order %d\n", ln.Name, ln.ID, ln.Order)
		fmt.Fprintf(&b, "  bounds: x=%g y=%g w=%g h=%g\n",
			ln.Bounds.X, ln.Bounds.Y, ln.Bounds.Width, ln.Bounds.Height)
		for _, shapeID := range ln.ShapeIDs {
			s, ok := shapeByID[shapeID]
			if !ok {
				continue
			}
			label := s.ElementRef
			if el, ok := elements[s.ElementRef]; ok && el.Name != "" {
				label = fmt.Sprintf("%s (%s)", el.Name, el.Type)
			}
			fmt.Fprintf(&b, "  - %s at (%g, %g)\n", label, s.Bounds.X, s.Bounds.Y)
		}
	}

	inter := p.InterLaneFlows()
	fmt.Fprintf(&b, "\nFlows: %d total, %d crossing lanes\n", len(p.Pool.SequenceFlows), len(inter))

	return b.String()
}
