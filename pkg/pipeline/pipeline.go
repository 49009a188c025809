// Package pipeline provides the core diagram pipeline for Text2BPMN.
//
// This package implements the complete validate → layout → assemble →
// export pipeline shared by the CLI and the API server. Centralizing it
// keeps behavior consistent across entry points.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Validate: Check the logical process model for structural errors
//  2. Layout: Position each lane's elements independently, in parallel
//  3. Assemble: Merge the per-lane diagrams into one multi-lane pool
//  4. Export: Serialize the assembly to the requested formats
//
// Per-lane layouts are cached by content hash: re-running a merge after
// editing one lane only recomputes the lanes that changed.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(engine, cache, nil, logger)
//	opts := pipeline.Options{Formats: []string{"bpmn"}}
//	result, err := runner.Execute(ctx, proc, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc := result.Artifacts["bpmn"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/YasminAwad/Text2BPMN/pkg/cache"
	"github.com/YasminAwad/Text2BPMN/pkg/diagram"
	"github.com/YasminAwad/Text2BPMN/pkg/layout"
	"github.com/YasminAwad/Text2BPMN/pkg/merge"
)

// EngineName identifies the layout engine in cache keys, so a future
// engine change invalidates stale layouts.
const EngineName = "graphviz-dot"

// Format constants for output formats.
const (
	FormatBPMN    = "bpmn"
	FormatSummary = "summary"
	FormatJSON    = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatBPMN:    true,
	FormatSummary: true,
	FormatJSON:    true,
}

// Options contains all configuration for the diagram pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Assembly options
	PoolID      string  `json:"pool_id,omitempty"`
	PoolName    string  `json:"pool_name,omitempty"`
	Padding     float64 `json:"padding,omitempty"`
	PoolPadding float64 `json:"pool_padding,omitempty"`

	// Export options
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses the layout cache and recomputes every lane.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Assembly is the merged multi-lane diagram.
	Assembly *diagram.Assembly

	// AssemblyHash is the content hash of the assembly.
	AssemblyHash string

	// Artifacts contains exported outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LaneCount      int
	ShapeCount     int
	ConnectorCount int
	LayoutTime     time.Duration
	AssembleTime   time.Duration
	ExportTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHits   int  // Lanes served from cache
	LayoutMisses int  // Lanes recomputed
	ExportHit    bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: bpmn, summary, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times
// has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Padding == 0 {
		o.Padding = merge.DefaultPadding
	}
	if o.PoolPadding == 0 {
		o.PoolPadding = merge.DefaultPoolPadding
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatBPMN}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// MergeOptions converts pipeline options to assembly options.
func (o *Options) MergeOptions() merge.Options {
	return merge.Options{
		Padding:     o.Padding,
		PoolPadding: o.PoolPadding,
		PoolID:      o.PoolID,
		PoolName:    o.PoolName,
		Logger:      o.Logger,
	}
}

// LaneKeyOpts returns cache key options for per-lane layout.
func (o *Options) LaneKeyOpts() cache.LaneKeyOpts {
	return cache.LaneKeyOpts{
		Engine:  EngineName,
		Ranksep: layout.Ranksep,
		Nodesep: layout.Nodesep,
	}
}

// DocumentKeyOpts returns cache key options for one export format.
func (o *Options) DocumentKeyOpts(format string) cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{Format: format}
}
