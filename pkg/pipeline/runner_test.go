package pipeline

import (
	"context"
	stderrors "errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/YasminAwad/Text2BPMN/pkg/cache"
	"github.com/YasminAwad/Text2BPMN/pkg/diagram"
	"github.com/YasminAwad/Text2BPMN/pkg/errors"
	"github.com/YasminAwad/Text2BPMN/pkg/layout"
	"github.com/YasminAwad/Text2BPMN/pkg/model"
)

// gridEngine is a deterministic layout stand-in: it places the lane's
// elements on a horizontal line, 150 units apart, and counts calls so
// tests can observe cache behavior.
type gridEngine struct {
	calls atomic.Int64
}

func (e *gridEngine) Layout(ctx context.Context, req layout.Request) (diagram.LaneDiagram, error) {
	e.calls.Add(1)
	if len(req.Lane.Elements) == 0 {
		return diagram.LaneDiagram{}, errors.New(errors.ErrCodeEmptyLane, "lane %s is empty", req.Lane.ID)
	}

	d := diagram.LaneDiagram{
		LaneID: req.Lane.ID,
		Name:   req.Lane.Name,
		Order:  req.Lane.Order,
	}
	for i, el := range req.Lane.Elements {
		w, h := layout.SizeOf(el.Type)
		d.Shapes = append(d.Shapes, diagram.Shape{
			ID:         el.ID + "_shape",
			ElementRef: el.ID,
			Bounds:     diagram.Bounds{X: float64(i) * 150, Y: 0, Width: w, Height: h},
		})
	}
	return d, nil
}

func testProcess() *model.Process {
	return &model.Process{
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
}

func TestExecute_FullPipeline(t *testing.T) {
	engine := &gridEngine{}
	runner := NewRunner(engine, cache.NewNullCache(), nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), testProcess(), Options{
		Formats: []string{FormatBPMN, FormatSummary, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if got, want := result.Stats.LaneCount, 2; got != want {
		t.Errorf("LaneCount = %d, want %d", got, want)
	}
	if got, want := len(result.Assembly.Pool.Lanes), 2; got != want {
		t.Errorf("assembled lanes = %d, want %d", got, want)
	}
	if got, want := result.Stats.ShapeCount, 3; got != want {
		t.Errorf("ShapeCount = %d, want %d", got, want)
	}
	if result.AssemblyHash == "" {
		t.Error("AssemblyHash should be set")
	}

	for _, format := range []string{FormatBPMN, FormatSummary, FormatJSON} {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("artifact %q is empty", format)
		}
	}
	if !strings.Contains(string(result.Artifacts[FormatBPMN]), "<bpmn:definitions") {
		t.Error("bpmn artifact is not a BPMN document")
	}

	// One layout call per lane, no cache.
	if got, want := engine.calls.Load(), int64(2); got != want {
		t.Errorf("engine calls = %d, want %d", got, want)
	}
}

func TestExecute_LayoutCacheHitOnSecondRun(t *testing.T) {
	engine := &gridEngine{}
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	runner := NewRunner(engine, fc, nil, nil)
	defer runner.Close()

	ctx := context.Background()
	if _, err := runner.Execute(ctx, testProcess(), Options{}); err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}

	result, err := runner.Execute(ctx, testProcess(), Options{})
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}

	if got, want := result.CacheInfo.LayoutHits, 2; got != want {
		t.Errorf("LayoutHits = %d, want %d", got, want)
	}
	if got, want := engine.calls.Load(), int64(2); got != want {
		t.Errorf("engine calls = %d, want %d (second run should be cached)", got, want)
	}
	if !result.CacheInfo.ExportHit {
		t.Error("second run should serve artifacts from cache")
	}
}

func TestExecute_RefreshBypassesCache(t *testing.T) {
	engine := &gridEngine{}
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	runner := NewRunner(engine, fc, nil, nil)
	defer runner.Close()

	ctx := context.Background()
	if _, err := runner.Execute(ctx, testProcess(), Options{}); err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if _, err := runner.Execute(ctx, testProcess(), Options{Refresh: true}); err != nil {
		t.Fatalf("refresh Execute() error = %v", err)
	}

	if got, want := engine.calls.Load(), int64(4); got != want {
		t.Errorf("engine calls = %d, want %d (refresh should recompute)", got, want)
	}
}

func TestExecute_InvalidModel(t *testing.T) {
	runner := NewRunner(&gridEngine{}, nil, nil, nil)
	defer runner.Close()

	proc := testProcess()
	proc.Pool.SequenceFlows = append(proc.Pool.SequenceFlows,
		model.SequenceFlow{ID: "flow_bad", SourceRef: "ev_start", TargetRef: "task_ghost"})

	_, err := runner.Execute(context.Background(), proc, Options{})
	if err == nil {
		t.Fatal("Execute() error = nil, want MISSING_REFERENCE")
	}
	if got, want := errors.GetCode(err), errors.ErrCodeMissingReference; got != want {
		t.Errorf("code = %v, want %v", got, want)
	}
}

func TestExecute_InvalidFormat(t *testing.T) {
	runner := NewRunner(&gridEngine{}, nil, nil, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), testProcess(), Options{
		Formats: []string{"png"},
	})
	if err == nil {
		t.Fatal("Execute() error = nil, want invalid format error")
	}
	if got, want := errors.GetCode(err), errors.ErrCodeInvalidInput; got != want {
		t.Errorf("code = %v, want %v", got, want)
	}
}

func TestOptions_ValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if got, want := opts.Padding, 30.0; got != want {
		t.Errorf("Padding = %v, want %v", got, want)
	}
	if got, want := opts.PoolPadding, 60.0; got != want {
		t.Errorf("PoolPadding = %v, want %v", got, want)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatBPMN {
		t.Errorf("Formats = %v, want [bpmn]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

// stallEngine fails one lane immediately and parks every other layout
// on the request context, so it only terminates if the runner cancels
// sibling layouts after the first failure.
type stallEngine struct {
	failLane string
}

func (e *stallEngine) Layout(ctx context.Context, req layout.Request) (diagram.LaneDiagram, error) {
	if req.Lane.ID == e.failLane {
		return diagram.LaneDiagram{}, errors.New(errors.ErrCodeLayoutFailed, "layout of lane %s failed", req.Lane.ID)
	}
	<-ctx.Done()
	return diagram.LaneDiagram{}, ctx.Err()
}

func TestLayoutLanes_FirstFailureCancelsSiblings(t *testing.T) {
	engine := &stallEngine{failLane: "lane_wh"}
	runner := NewRunner(engine, cache.NewNullCache(), nil, nil)
	defer runner.Close()

	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	// Completing at all proves the stalled lane was released. A hang
	// here would trip the test timeout.
	_, _, err := runner.LayoutLanes(context.Background(), testProcess(), opts)
	if err == nil {
		t.Fatal("LayoutLanes() error = nil, want layout failure")
	}
	if stderrors.Is(err, context.Canceled) {
		t.Fatalf("LayoutLanes() error = %v, want the lane failure, not the cancellation it caused", err)
	}
	if got, want := errors.GetCode(err), errors.ErrCodeLayoutFailed; got != want {
		t.Errorf("code = %v, want %v", got, want)
	}
}
