package model

import (
	"github.com/YasminAwad/Text2BPMN/pkg/errors"
)

// Validate checks the structural well-formedness of the process model:
// unique element, lane, and flow ids; known element types; sequence-flow
// endpoints that resolve to real elements; and distinct lane orders.
//
// Semantic soundness of the process logic (reachability, deadlock
// freedom) is out of scope - only structure is checked here.
func (p Process) Validate() error {
	if err := errors.ValidateID(p.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidModel, err, "process id")
	}
	if len(p.Pool.Lanes) == 0 {
		return errors.New(errors.ErrCodeInvalidModel, "pool %s has no lanes", p.Pool.ID)
	}

	elements := make(map[string]bool)
	orders := make(map[int]string)

	for _, lane := range p.Pool.Lanes {
		if err := errors.ValidateID(lane.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidModel, err, "lane id")
		}
		if prev, dup := orders[lane.Order]; dup {
			return errors.New(errors.ErrCodeInconsistentOrder,
				"lanes %s and %s share order %d", prev, lane.ID, lane.Order)
		}
		orders[lane.Order] = lane.ID

		for _, el := range lane.Elements {
			if err := errors.ValidateID(el.ID); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidModel, err, "element id in lane %s", lane.ID)
			}
			if !ValidTypes[el.Type] {
				return errors.New(errors.ErrCodeInvalidModel,
					"element %s has unknown type %q", el.ID, el.Type)
			}
			if elements[el.ID] {
				return errors.New(errors.ErrCodeInvalidModel, "duplicate element id %s", el.ID)
			}
			elements[el.ID] = true
		}
	}

	flows := make(map[string]bool)
	for _, f := range p.Pool.SequenceFlows {
		if err := errors.ValidateID(f.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidModel, err, "sequence flow id")
		}
		if flows[f.ID] {
			return errors.New(errors.ErrCodeInvalidModel, "duplicate sequence flow id %s", f.ID)
		}
		flows[f.ID] = true

		if !elements[f.SourceRef] {
			return errors.New(errors.ErrCodeMissingReference,
				"sequence flow %s references unknown source %s", f.ID, f.SourceRef)
		}
		if !elements[f.TargetRef] {
			return errors.New(errors.ErrCodeMissingReference,
				"sequence flow %s references unknown target %s", f.ID, f.TargetRef)
		}
	}

	return nil
}
