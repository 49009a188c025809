package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/YasminAwad/Text2BPMN/pkg/bpmn"
	"github.com/YasminAwad/Text2BPMN/pkg/cache"
	"github.com/YasminAwad/Text2BPMN/pkg/diagram"
	"github.com/YasminAwad/Text2BPMN/pkg/errors"
	"github.com/YasminAwad/Text2BPMN/pkg/layout"
	"github.com/YasminAwad/Text2BPMN/pkg/merge"
	"github.com/YasminAwad/Text2BPMN/pkg/model"
	"github.com/YasminAwad/Text2BPMN/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the engine, cache, and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Engine layout.Engine
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given engine, cache, and keyer.
// If engine is nil, the Graphviz engine is used.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(engine layout.Engine, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if engine == nil {
		engine = layout.NewGraphvizEngine(logger)
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Runner{
		Engine: engine,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete validate → layout → assemble → export
// pipeline with caching.
func (r *Runner) Execute(ctx context.Context, proc *model.Process, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	r.applyLogger(&opts)

	if err := proc.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}
	result.Stats.LaneCount = len(proc.Pool.Lanes)

	// Stage 1: per-lane layout, fanned out across goroutines. Lane
	// layouts are independent; the first error aborts the run.
	layoutStart := time.Now()
	lanes, hits, err := r.LayoutLanes(ctx, proc, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHits = hits
	result.CacheInfo.LayoutMisses = len(lanes) - hits

	r.Logger.Info("laid out lanes",
		"lanes", len(lanes),
		"cache_hits", hits,
		"duration", result.Stats.LayoutTime)

	// Stage 2: assemble the pool.
	assembleStart := time.Now()
	asm, err := r.Assemble(lanes, proc.InterLaneFlows(), opts)
	if err != nil {
		return nil, err
	}
	result.Assembly = asm
	result.Stats.AssembleTime = time.Since(assembleStart)
	result.Stats.ShapeCount = len(asm.Shapes)
	result.Stats.ConnectorCount = len(asm.Connectors)

	if asmData, err := json.Marshal(asm); err == nil {
		result.AssemblyHash = cache.Hash(asmData)
	}

	r.Logger.Info("assembled pool",
		"lanes", len(asm.Pool.Lanes),
		"shapes", len(asm.Shapes),
		"connectors", len(asm.Connectors),
		"duration", result.Stats.AssembleTime)

	// Stage 3: export artifacts.
	exportStart := time.Now()
	artifacts, exportHit, err := r.ExportWithCacheInfo(ctx, proc, asm, result.AssemblyHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit

	r.Logger.Info("exported artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// LayoutLanes lays out every lane of the process concurrently and
// returns the diagrams in the process's lane order, plus the number of
// lanes served from cache. The first failure cancels the layouts still
// in flight; the failure itself, not the cancellation it triggered in
// sibling lanes, is what comes back.
func (r *Runner) LayoutLanes(ctx context.Context, proc *model.Process, opts Options) ([]diagram.LaneDiagram, int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lanes := proc.Pool.Lanes
	diagrams := make([]diagram.LaneDiagram, len(lanes))
	cacheHits := make([]bool, len(lanes))
	errs := make([]error, len(lanes))

	var wg sync.WaitGroup
	for i, lane := range lanes {
		wg.Add(1)
		go func(i int, lane model.Lane) {
			defer wg.Done()
			d, hit, err := r.LayoutLaneWithCacheInfo(ctx, lane, proc.IntraLaneFlows(lane.ID), opts)
			diagrams[i], cacheHits[i], errs[i] = d, hit, err
			if err != nil {
				cancel()
			}
		}(i, lane)
	}
	wg.Wait()

	var firstErr error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if firstErr == nil {
			firstErr = err
		}
		if !stderrors.Is(err, context.Canceled) {
			firstErr = err
			break
		}
	}
	if firstErr != nil {
		return nil, 0, firstErr
	}

	var hits int
	for _, h := range cacheHits {
		if h {
			hits++
		}
	}
	return diagrams, hits, nil
}

// LayoutLaneWithCacheInfo lays out one lane with caching and returns
// cache hit info.
func (r *Runner) LayoutLaneWithCacheInfo(ctx context.Context, lane model.Lane, flows []model.SequenceFlow, opts Options) (diagram.LaneDiagram, bool, error) {
	r.applyLogger(&opts)

	laneData, _ := json.Marshal(struct {
		Lane  model.Lane           `json:"lane"`
		Flows []model.SequenceFlow `json:"flows"`
	}{lane, flows})
	cacheKey := r.Keyer.LaneKey(cache.Hash(laneData), opts.LaneKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached diagram.LaneDiagram
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "lane")
				return cached, true, nil
			}
			// Corrupt entry - fall through to recompute.
		}
	}
	observability.Cache().OnCacheMiss(ctx, "lane")

	observability.Pipeline().OnLayoutStart(ctx, lane.ID, len(lane.Elements))
	start := time.Now()
	d, err := r.Engine.Layout(ctx, layout.Request{Lane: lane, Flows: flows})
	observability.Pipeline().OnLayoutComplete(ctx, lane.ID, time.Since(start), err)
	if err != nil {
		return diagram.LaneDiagram{}, false, err
	}

	if data, err := json.Marshal(d); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "lane", len(data))
	}

	return d, false, nil
}

// LayoutLane is a convenience wrapper that discards the cache hit info.
func (r *Runner) LayoutLane(ctx context.Context, lane model.Lane, flows []model.SequenceFlow, opts Options) (diagram.LaneDiagram, error) {
	d, _, err := r.LayoutLaneWithCacheInfo(ctx, lane, flows, opts)
	return d, err
}

// Assemble merges laid-out lanes into a pool using the pipeline options.
func (r *Runner) Assemble(lanes []diagram.LaneDiagram, interLane []model.SequenceFlow, opts Options) (*diagram.Assembly, error) {
	r.applyLogger(&opts)

	observability.Pipeline().OnAssembleStart(context.Background(), len(lanes))
	start := time.Now()
	asm, err := merge.Assemble(lanes, interLane, opts.MergeOptions())
	observability.Pipeline().OnAssembleComplete(context.Background(), time.Since(start), err)
	return asm, err
}

// ExportWithCacheInfo serializes the assembly to every requested format
// with caching and returns cache hit info.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, proc *model.Process, asm *diagram.Assembly, asmHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	r.applyLogger(&opts)

	// Try to get all formats from cache.
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.DocumentKey(asmHash, opts.DocumentKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	observability.Pipeline().OnExportStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := r.export(proc, asm, opts)
	observability.Pipeline().OnExportComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.DocumentKey(asmHash, opts.DocumentKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLDocument)
	}

	return rendered, false, nil
}

// Export is a convenience wrapper that discards the cache hit info.
func (r *Runner) Export(ctx context.Context, proc *model.Process, asm *diagram.Assembly, asmHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.ExportWithCacheInfo(ctx, proc, asm, asmHash, opts)
	return artifacts, err
}

func (r *Runner) export(proc *model.Process, asm *diagram.Assembly, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatBPMN:
			data, err := bpmn.Export(proc, asm)
			if err != nil {
				return nil, err
			}
			out[format] = data
		case FormatSummary:
			out[format] = []byte(bpmn.Summary(proc, asm))
		case FormatJSON:
			data, err := json.MarshalIndent(asm, "", "  ")
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeSerializeFailed, err, "marshal assembly")
			}
			out[format] = data
		}
	}
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
