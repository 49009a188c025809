// Package model defines the logical BPMN process model: pools, lanes,
// elements, and sequence flows.
//
// The logical model is produced by an upstream structured-generation
// collaborator and consumed by the layout and merge stages. It carries no
// geometry - visual rectangles and polylines live in [pkg/diagram]. The
// model is the canonical serialization format for process definitions:
// JSON for files and API requests, BSON for the diagram store.
package model

// Element types.
const (
	TypeStartEvent        = "startEvent"
	TypeEndEvent          = "endEvent"
	TypeTask              = "task"
	TypeExclusiveGateway  = "exclusiveGateway"
	TypeInclusiveGateway  = "inclusiveGateway"
	TypeParallelGateway   = "parallelGateway"
	TypeIntermediateEvent = "intermediateEvent"
)

// ValidTypes is the set of supported element types.
var ValidTypes = map[string]bool{
	TypeStartEvent:        true,
	TypeEndEvent:          true,
	TypeTask:              true,
	TypeExclusiveGateway:  true,
	TypeInclusiveGateway:  true,
	TypeParallelGateway:   true,
	TypeIntermediateEvent: true,
}

// Element is one structural element of the process: an event, task, or
// gateway. EventType and GatewayDirection qualify events and gateways
// respectively and are empty for other types.
type Element struct {
	ID               string `json:"id" bson:"id"`
	Type             string `json:"type" bson:"type"`
	Name             string `json:"name" bson:"name"`
	EventType        string `json:"eventType,omitempty" bson:"event_type,omitempty"`
	GatewayDirection string `json:"gatewayDirection,omitempty" bson:"gateway_direction,omitempty"`
}

// IsEvent reports whether the element is a start, end, or intermediate event.
func (e Element) IsEvent() bool {
	return e.Type == TypeStartEvent || e.Type == TypeEndEvent || e.Type == TypeIntermediateEvent
}

// IsGateway reports whether the element is a gateway of any kind.
func (e Element) IsGateway() bool {
	return e.Type == TypeExclusiveGateway || e.Type == TypeInclusiveGateway || e.Type == TypeParallelGateway
}

// Lane is one horizontal subdivision of a pool, representing a sub-role
// or actor. Order is strictly distinct across a pool and fixes the
// top-to-bottom stacking of lanes in the assembled diagram.
type Lane struct {
	ID       string    `json:"id" bson:"id"`
	Name     string    `json:"name" bson:"name"`
	Order    int       `json:"order" bson:"order"`
	Elements []Element `json:"elements" bson:"elements"`
}

// Element looks up a lane member by id.
func (l Lane) Element(id string) (Element, bool) {
	for _, e := range l.Elements {
		if e.ID == id {
			return e, true
		}
	}
	return Element{}, false
}

// SequenceFlow is a logical directed link between two structural
// elements, distinct from the connector that renders it. Name carries
// the optional condition label for gateway branches.
type SequenceFlow struct {
	ID                  string `json:"id" bson:"id"`
	SourceRef           string `json:"sourceRef" bson:"source_ref"`
	TargetRef           string `json:"targetRef" bson:"target_ref"`
	Name                string `json:"name,omitempty" bson:"name,omitempty"`
	ConditionExpression string `json:"conditionExpression,omitempty" bson:"condition_expression,omitempty"`
}

// Pool groups the lanes of one participant together with the global
// sequence-flow list. Flows may connect elements in different lanes.
type Pool struct {
	ID            string         `json:"id" bson:"id"`
	Name          string         `json:"name" bson:"name"`
	Lanes         []Lane         `json:"lanes" bson:"lanes"`
	SequenceFlows []SequenceFlow `json:"sequenceFlows" bson:"sequence_flows"`
}

// LaneOf returns the id of the lane containing the given element, or
// false when no lane holds it.
func (p Pool) LaneOf(elementID string) (string, bool) {
	for _, l := range p.Lanes {
		if _, ok := l.Element(elementID); ok {
			return l.ID, true
		}
	}
	return "", false
}

// Process is the root of the logical model.
type Process struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
	Pool Pool   `json:"pool" bson:"pool"`
}

// InterLaneFlows returns the flows whose endpoints live in different
// lanes. These flows are never laid out by the per-lane layout step and
// must be routed by the assembler.
func (p Process) InterLaneFlows() []SequenceFlow {
	var out []SequenceFlow
	for _, f := range p.Pool.SequenceFlows {
		src, okS := p.Pool.LaneOf(f.SourceRef)
		dst, okT := p.Pool.LaneOf(f.TargetRef)
		if okS && okT && src != dst {
			out = append(out, f)
		}
	}
	return out
}

// IntraLaneFlows returns the flows wholly internal to the given lane.
func (p Process) IntraLaneFlows(laneID string) []SequenceFlow {
	var out []SequenceFlow
	for _, f := range p.Pool.SequenceFlows {
		src, okS := p.Pool.LaneOf(f.SourceRef)
		dst, okT := p.Pool.LaneOf(f.TargetRef)
		if okS && okT && src == laneID && dst == laneID {
			out = append(out, f)
		}
	}
	return out
}
