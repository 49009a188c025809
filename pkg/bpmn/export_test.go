package bpmn

import (
	"strings"
	"testing"

	"github.com/YasminAwad/Text2BPMN/pkg/diagram"
	"github.com/YasminAwad/Text2BPMN/pkg/errors"
	"github.com/YasminAwad/Text2BPMN/pkg/model"
)

func fixture() (*model.Process, *diagram.Assembly) {
	p := &model.Process{
		ID:   "process_1",
		Name: "Order Handling",
		Pool: model.Pool{
			ID:   "participant_1",
			Name: "Order Handling",
			Lanes: []model.Lane{
				{
					ID: "lane_sales", Name: "Sales", Order: 0,
					Elements: []model.Element{
						{ID: "ev_start", Type: model.TypeStartEvent, Name: "Order received"},
						{ID: "task_check", Type: model.TypeTask, Name: "Check order"},
					},
				},
				{
					ID: "lane_wh", Name: "Warehouse", Order: 1,
					Elements: []model.Element{
						{ID: "task_ship", Type: model.TypeTask, Name: "Ship order"},
					},
				},
			},
			SequenceFlows: []model.SequenceFlow{
				{ID: "flow_1", SourceRef: "ev_start", TargetRef: "task_check"},
				{ID: "flow_2", SourceRef: "task_check", TargetRef: "task_ship"},
			},
		},
	}

	asm := &diagram.Assembly{
		Pool: diagram.Pool{
			ID: "participant_1", Name: "Order Handling",
			Bounds: diagram.Bounds{X: -60, Y: 0, Width: 420, Height: 330},
			Lanes: []diagram.Lane{
				{ID: "lane_sales", Name: "Sales", Order: 0,
					ShapeIDs: []string{"ev_start_shape", "task_check_shape"},
					Bounds:   diagram.Bounds{X: 0, Y: 0, Width: 360, Height: 180}},
				{ID: "lane_wh", Name: "Warehouse", Order: 1,
					ShapeIDs: []string{"task_ship_shape"},
					Bounds:   diagram.Bounds{X: 0, Y: 180, Width: 360, Height: 150}},
			},
		},
		Shapes: []diagram.Shape{
			{ID: "ev_start_shape", ElementRef: "ev_start",
				Bounds: diagram.Bounds{X: 30, Y: 52, Width: 36, Height: 36}},
			{ID: "task_check_shape", ElementRef: "task_check",
				Bounds: diagram.Bounds{X: 130, Y: 30, Width: 100, Height: 80}},
			{ID: "task_ship_shape", ElementRef: "task_ship",
				Bounds: diagram.Bounds{X: 130, Y: 215, Width: 100, Height: 80}},
		},
		Connectors: []diagram.Connector{
			{ID: "flow_1_di", SourceRef: "ev_start", TargetRef: "task_check",
				Waypoints: []diagram.Point{{X: 66, Y: 70}, {X: 130, Y: 70}}},
			{ID: "flow_2_di", SourceRef: "task_check", TargetRef: "task_ship",
				Waypoints: []diagram.Point{{X: 180, Y: 110}, {X: 180, Y: 215}}},
		},
	}
	return p, asm
}

func TestExport_DocumentStructure(t *testing.T) {
	p, asm := fixture()

	out, err := Export(p, asm)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	doc := string(out)

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL"`,
		`xmlns:bpmndi="http://www.omg.org/spec/BPMN/20100524/DI"`,
		`xmlns:dc="http://www.omg.org/spec/DD/20100524/DC"`,
		`<bpmn:participant id="participant_1" name="Order Handling" processRef="process_1">`,
		`<bpmn:lane id="lane_sales" name="Sales">`,
		`<bpmn:flowNodeRef>ev_start</bpmn:flowNodeRef>`,
		`<bpmn:startEvent id="ev_start" name="Order received">`,
		`<bpmn:sequenceFlow id="flow_2" sourceRef="task_check" targetRef="task_ship">`,
		`<bpmndi:BPMNPlane id="BPMNPlane_1" bpmnElement="Collaboration_1">`,
		`<bpmndi:BPMNShape id="participant_1_di" bpmnElement="participant_1" isHorizontal="true">`,
		`<dc:Bounds x="-60" y="0" width="420" height="330">`,
		`<bpmndi:BPMNShape id="lane_wh_di" bpmnElement="lane_wh" isHorizontal="true">`,
		`<bpmndi:BPMNEdge id="flow_2_di" bpmnElement="flow_2">`,
		`<di:waypoint x="180" y="215">`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestExport_ElementShapesInsideLane(t *testing.T) {
	p, asm := fixture()

	out, err := Export(p, asm)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	doc := string(out)

	if got, want := strings.Count(doc, "<bpmndi:BPMNShape"), 6; got != want {
		t.Errorf("BPMNShape count = %d, want %d (pool + 2 lanes + 3 elements)", got, want)
	}
	if got, want := strings.Count(doc, "<bpmndi:BPMNEdge"), 2; got != want {
		t.Errorf("BPMNEdge count = %d, want %d", got, want)
	}
}

func TestExport_UnknownElementRef(t *testing.T) {
	p, asm := fixture()
	asm.Shapes[0].ElementRef = "ev_ghost"

	_, err := Export(p, asm)
	if err == nil {
		t.Fatal("Export() error = nil, want MISSING_REFERENCE")
	}
	if got, want := errors.GetCode(err), errors.ErrCodeMissingReference; got != want {
		t.Errorf("code = %v, want %v", got, want)
	}
}

func TestSummary(t *testing.T) {
	p, asm := fixture()

	got := Summary(p, asm)

	for _, want := range []string{
		`Pool "Order Handling"`,
		`Lane "Sales" (lane_sales), order 0`,
		"Check order (task)",
		"Flows: 2 total, 1 crossing lanes",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}
