// Package bpmn serializes an assembled diagram to BPMN 2.0 XML, the
// interchange format understood by BPMN modeling tools.
//
// The exported document carries both the semantic layer (process, lane
// set, flow nodes, sequence flows, collaboration wrapper) and the
// diagram interchange layer (BPMNDiagram/BPMNPlane with one BPMNShape
// per visual rectangle and one BPMNEdge per polyline).
package bpmn

import (
	"encoding/xml"

	"github.com/YasminAwad/Text2BPMN/pkg/diagram"
	"github.com/YasminAwad/Text2BPMN/pkg/errors"
	"github.com/YasminAwad/Text2BPMN/pkg/model"
)

// BPMN 2.0 namespace URIs.
const (
	nsModel  = "http://www.omg.org/spec/BPMN/20100524/MODEL"
	nsDI     = "http://www.omg.org/spec/BPMN/20100524/DI"
	nsDC     = "http://www.omg.org/spec/DD/20100524/DC"
	nsDD     = "http://www.omg.org/spec/DD/20100524/DI"
	targetNS = "http://bpmn.io/schema/bpmn"
)

type definitions struct {
	XMLName   xml.Name `xml:"bpmn:definitions"`
	NSModel   string   `xml:"xmlns:bpmn,attr"`
	NSDI      string   `xml:"xmlns:bpmndi,attr"`
	NSDC      string   `xml:"xmlns:dc,attr"`
	NSDD      string   `xml:"xmlns:di,attr"`
	ID        string   `xml:"id,attr"`
	TargetNS  string   `xml:"targetNamespace,attr"`
	Collab    collaboration
	Process   process
	DiDiagram bpmnDiagram
}

type collaboration struct {
	XMLName     xml.Name    `xml:"bpmn:collaboration"`
	ID          string      `xml:"id,attr"`
	Participant participant `xml:"bpmn:participant"`
}

type participant struct {
	ID         string `xml:"id,attr"`
	Name       string `xml:"name,attr"`
	ProcessRef string `xml:"processRef,attr"`
}

type process struct {
	XMLName      xml.Name `xml:"bpmn:process"`
	ID           string   `xml:"id,attr"`
	Name         string   `xml:"name,attr,omitempty"`
	IsExecutable bool     `xml:"isExecutable,attr"`
	LaneSet      laneSet  `xml:"bpmn:laneSet"`
	Nodes        []flowNode
	Flows        []sequenceFlow `xml:"bpmn:sequenceFlow"`
}

type laneSet struct {
	ID    string `xml:"id,attr"`
	Lanes []lane `xml:"bpmn:lane"`
}

type lane struct {
	ID       string   `xml:"id,attr"`
	Name     string   `xml:"name,attr"`
	NodeRefs []string `xml:"bpmn:flowNodeRef"`
}

// flowNode covers every element kind; the tag name is the element type
// (bpmn:startEvent, bpmn:task, ...), set per node at build time.
type flowNode struct {
	XMLName  xml.Name
	ID       string   `xml:"id,attr"`
	Name     string   `xml:"name,attr,omitempty"`
	Incoming []string `xml:"bpmn:incoming"`
	Outgoing []string `xml:"bpmn:outgoing"`
}

type sequenceFlow struct {
	ID        string `xml:"id,attr"`
	Name      string `xml:"name,attr,omitempty"`
	SourceRef string `xml:"sourceRef,attr"`
	TargetRef string `xml:"targetRef,attr"`
	Condition string `xml:"bpmn:conditionExpression,omitempty"`
}

type bpmnDiagram struct {
	XMLName xml.Name `xml:"bpmndi:BPMNDiagram"`
	ID      string   `xml:"id,attr"`
	Plane   bpmnPlane
}

type bpmnPlane struct {
	XMLName     xml.Name `xml:"bpmndi:BPMNPlane"`
	ID          string   `xml:"id,attr"`
	BpmnElement string   `xml:"bpmnElement,attr"`
	Shapes      []bpmnShape
	Edges       []bpmnEdge
}

type bpmnShape struct {
	XMLName      xml.Name `xml:"bpmndi:BPMNShape"`
	ID           string   `xml:"id,attr"`
	BpmnElement  string   `xml:"bpmnElement,attr"`
	IsHorizontal *bool    `xml:"isHorizontal,attr,omitempty"`
	Bounds       dcBounds
	Label        *bpmnLabel
}

type dcBounds struct {
	XMLName xml.Name `xml:"dc:Bounds"`
	X       float64  `xml:"x,attr"`
	Y       float64  `xml:"y,attr"`
	Width   float64  `xml:"width,attr"`
	Height  float64  `xml:"height,attr"`
}

type bpmnLabel struct {
	XMLName xml.Name `xml:"bpmndi:BPMNLabel"`
}

type bpmnEdge struct {
	XMLName     xml.Name `xml:"bpmndi:BPMNEdge"`
	ID          string   `xml:"id,attr"`
	BpmnElement string   `xml:"bpmnElement,attr"`
	Waypoints   []diWaypoint
}

type diWaypoint struct {
	XMLName xml.Name `xml:"di:waypoint"`
	X       float64  `xml:"x,attr"`
	Y       float64  `xml:"y,attr"`
}

// Export serializes the logical process and its assembled geometry to a
// BPMN 2.0 document. Every shape in the assembly must resolve to an
// element of the process and vice versa; a gap on either side fails with
// MISSING_REFERENCE rather than producing a partially drawn diagram.
func Export(p *model.Process, asm *diagram.Assembly) ([]byte, error) {
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

	incoming := make(map[string][]string)
	outgoing := make(map[string][]string)
	for _, f := range p.Pool.SequenceFlows {
		outgoing[f.SourceRef] = append(outgoing[f.SourceRef], f.ID)
		incoming[f.TargetRef] = append(incoming[f.TargetRef], f.ID)
	}

	doc := definitions{
		NSModel:  nsModel,
		NSDI:     nsDI,
		NSDC:     nsDC,
		NSDD:     nsDD,
		ID:       "Definitions_1",
		TargetNS: targetNS,
		Collab: collaboration{
			ID: "Collaboration_1",
			Participant: participant{
				ID:         asm.Pool.ID,
				Name:       asm.Pool.Name,
				ProcessRef: p.ID,
			},
		},
		Process: process{
			ID:           p.ID,
			Name:         p.Name,
			IsExecutable: false,
			LaneSet:      laneSet{ID: "LaneSet_1"},
		},
		DiDiagram: bpmnDiagram{
			ID: "BPMNDiagram_1",
			Plane: bpmnPlane{
				ID:          "BPMNPlane_1",
				BpmnElement: "Collaboration_1",
			},
		},
	}

	horizontal := true
	doc.DiDiagram.Plane.Shapes = append(doc.DiDiagram.Plane.Shapes, bpmnShape{
		ID:           asm.Pool.ID + "_di",
		BpmnElement:  asm.Pool.ID,
		IsHorizontal: &horizontal,
		Bounds:       boundsOf(asm.Pool.Bounds),
		Label:        &bpmnLabel{},
	})

	for _, ln := range asm.Pool.Lanes {
		xl := lane{ID: ln.ID, Name: ln.Name}
		for _, shapeID := range ln.ShapeIDs {
			s, ok := shapeByID[shapeID]
			if !ok {
				return nil, errors.New(errors.ErrCodeMissingReference,
					"lane %s references unknown shape %s", ln.ID, shapeID)
			}
			el, ok := elements[s.ElementRef]
			if !ok {
				return nil, errors.New(errors.ErrCodeMissingReference,
					"shape %s references unknown element %s", s.ID, s.ElementRef)
			}
			xl.NodeRefs = append(xl.NodeRefs, el.ID)

			doc.Process.Nodes = append(doc.Process.Nodes, flowNode{
				XMLName:  xml.Name{Local: "bpmn:" + el.Type},
				ID:       el.ID,
				Name:     el.Name,
				Incoming: incoming[el.ID],
				Outgoing: outgoing[el.ID],
			})
			doc.DiDiagram.Plane.Shapes = append(doc.DiDiagram.Plane.Shapes, bpmnShape{
				ID:          s.ID,
				BpmnElement: el.ID,
				Bounds:      boundsOf(s.Bounds),
			})
		}

		doc.DiDiagram.Plane.Shapes = append(doc.DiDiagram.Plane.Shapes, bpmnShape{
			ID:           ln.ID + "_di",
			BpmnElement:  ln.ID,
			IsHorizontal: &horizontal,
			Bounds:       boundsOf(ln.Bounds),
			Label:        &bpmnLabel{},
		})
	}

	for _, f := range p.Pool.SequenceFlows {
		doc.Process.Flows = append(doc.Process.Flows, sequenceFlow{
			ID:        f.ID,
			Name:      f.Name,
			SourceRef: f.SourceRef,
			TargetRef: f.TargetRef,
			Condition: f.ConditionExpression,
		})
	}

	for _, c := range asm.Connectors {
		edge := bpmnEdge{
			ID: c.ID,
			// Connector ids derive from the flow id plus a _di suffix.
			BpmnElement: logicalRef(c.ID),
		}
		for _, wp := range c.Waypoints {
			edge.Waypoints = append(edge.Waypoints, diWaypoint{X: wp.X, Y: wp.Y})
		}
		doc.DiDiagram.Plane.Edges = append(doc.DiDiagram.Plane.Edges, edge)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSerializeFailed, err, "marshal BPMN document")
	}
	return append([]byte(xml.Header), out...), nil
}

func boundsOf(b diagram.Bounds) dcBounds {
	return dcBounds{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

func logicalRef(connectorID string) string {
	const suffix = "_di"
	if len(connectorID) > len(suffix) && connectorID[len(connectorID)-len(suffix):] == suffix {
		return connectorID[:len(connectorID)-len(suffix)]
	}
	return connectorID
}
