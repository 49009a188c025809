package layout

import (
	"github.com/YasminAwad/Text2BPMN/pkg/model"
)

// Placeholder id prefixes. The cleanup stage in pkg/merge matches on
// these substrings, so they must stay in sync with merge.IsPlaceholder.
const (
	startPlaceholderPrefix = "mock_start_"
	endPlaceholderPrefix   = "mock_end_"
)

// StartPlaceholderID returns the id of the synthetic entry node for a lane.
func StartPlaceholderID(laneID string) string { return startPlaceholderPrefix + laneID }

// EndPlaceholderID returns the id of the synthetic exit node for a lane.
func EndPlaceholderID(laneID string) string { return endPlaceholderPrefix + laneID }

// withPlaceholders augments a lane graph with a synthetic start and end
// so Graphviz always sees a single entry and exit, however the lane's
// real elements connect. The placeholder start links to every element
// without an incoming intra-lane flow and the placeholder end from
// every element without an outgoing one. Inter-lane flows are invisible
// here: an element whose only predecessor lives in another lane still
// counts as a source within its own lane.
func withPlaceholders(lane model.Lane, flows []model.SequenceFlow) ([]model.Element, []model.SequenceFlow) {
	hasIncoming := make(map[string]bool, len(lane.Elements))
	hasOutgoing := make(map[string]bool, len(lane.Elements))
	for _, f := range flows {
		hasIncoming[f.TargetRef] = true
		hasOutgoing[f.SourceRef] = true
	}

	start := model.Element{ID: StartPlaceholderID(lane.ID), Type: model.TypeStartEvent}
	end := model.Element{ID: EndPlaceholderID(lane.ID), Type: model.TypeEndEvent}

	elements := make([]model.Element, 0, len(lane.Elements)+2)
	elements = append(elements, start)
	elements = append(elements, lane.Elements...)
	elements = append(elements, end)

	augmented := make([]model.SequenceFlow, 0, len(flows)+2)
	augmented = append(augmented, flows...)
	for _, e := range lane.Elements {
		if !hasIncoming[e.ID] {
			augmented = append(augmented, model.SequenceFlow{
				ID:        "flow_" + start.ID + "_" + e.ID,
				SourceRef: start.ID,
				TargetRef: e.ID,
			})
		}
		if !hasOutgoing[e.ID] {
			augmented = append(augmented, model.SequenceFlow{
				ID:        "flow_" + e.ID + "_" + end.ID,
				SourceRef: e.ID,
				TargetRef: end.ID,
			})
		}
	}

	return elements, augmented
}
