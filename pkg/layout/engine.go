// Package layout turns one lane's logical elements into a positioned
// lane diagram. Every lane is laid out in isolation, in its own local
// coordinate frame; composing the frames into a pool is the merge
// package's job.
//
// The only production engine drives Graphviz in process and reads node
// positions back from its xdot output. Layout inserts synthetic
// boundary placeholders (see [StartPlaceholderID]) so that every lane
// graph has a single entry and exit; downstream cleanup removes them
// again before assembly.
package layout

import (
	"context"

	"github.com/YasminAwad/Text2BPMN/pkg/diagram"
	"github.com/YasminAwad/Text2BPMN/pkg/model"
)

// Fixed element sizes in diagram units. Positions vary per layout run,
// sizes never do.
const (
	EventSize     = 36.0
	TaskWidth     = 100.0
	TaskHeight    = 80.0
	GatewaySize   = 50.0
	LabelFontSize = 12.0
)

// Graphviz spacing in inches. Part of the layout cache key: changing
// either must invalidate cached lane geometry.
const (
	Ranksep = 0.6
	Nodesep = 0.4
)

// Request carries one lane and the flows confined to it. Flows whose
// endpoints span lanes must not appear here; they are routed after
// assembly, not laid out.
type Request struct {
	Lane  model.Lane
	Flows []model.SequenceFlow
}

// Engine computes positions for a single lane.
type Engine interface {
	Layout(ctx context.Context, req Request) (diagram.LaneDiagram, error)
}

// SizeOf returns the fixed width and height for an element type.
func SizeOf(elementType string) (w, h float64) {
	switch elementType {
	case model.TypeStartEvent, model.TypeEndEvent, model.TypeIntermediateEvent:
		return EventSize, EventSize
	case model.TypeExclusiveGateway, model.TypeParallelGateway, model.TypeInclusiveGateway:
		return GatewaySize, GatewaySize
	default:
		return TaskWidth, TaskHeight
	}
}
