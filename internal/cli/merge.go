package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YasminAwad/Text2BPMN/pkg/model"
	"github.com/YasminAwad/Text2BPMN/pkg/pipeline"
)

// mergeCommand creates the merge command, the main entry point of the CLI.
func (c *CLI) mergeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "merge [process.json]",
		Short: "Lay out and merge a process model into a BPMN document",
		Long: `Lay out and merge a process model into a BPMN document.

The merge command reads a logical process model (pool, lanes, elements,
sequence flows), lays out each lane independently, stacks the lanes into a
single pool, routes the flows that cross lanes, and exports the result.

Per-lane layouts are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runMerge(withLogger(cmd.Context(), c.Logger), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): bpmn (default), summary, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute lane layouts even when cached")
	cmd.Flags().Float64Var(&opts.Padding, "padding", opts.Padding, "padding around lane contents")
	cmd.Flags().Float64Var(&opts.PoolPadding, "pool-padding", opts.PoolPadding, "extra pool width for the lane label column")
	cmd.Flags().StringVar(&opts.PoolName, "pool-name", "", "pool name (defaults to the process name)")

	return cmd
}

// runMerge loads the process model, runs the pipeline, and writes the artifacts.
func (c *CLI) runMerge(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	proc, err := model.ReadProcessFile(input)
	if err != nil {
		return fmt.Errorf("load process %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	opts.Logger = logger

	prog := newProgress(logger)
	spinner := newSpinner(ctx, fmt.Sprintf("Merging %d lanes...", len(proc.Pool.Lanes)))
	spinner.Start()

	result, err := runner.Execute(ctx, &proc, opts)
	if err != nil {
		spinner.StopWithError("Merge failed")
		return fmt.Errorf("merge: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("merged %d lanes", result.Stats.LaneCount))

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	}); err != nil {
		return err
	}

	cached := result.CacheInfo.LayoutMisses == 0 && result.Stats.LaneCount > 0
	printStats(result.Stats.LaneCount, result.Stats.ShapeCount, result.Stats.ConnectorCount, cached)
	return nil
}

// formatExtensions maps output formats to file extensions.
var formatExtensions = map[string]string{
	pipeline.FormatBPMN:    ".bpmn",
	pipeline.FormatSummary: ".txt",
	pipeline.FormatJSON:    ".json",
}

// artifactWriteParams bundles the inputs to writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes each requested artifact to disk and prints the
// output paths. With a single format the output flag names the file
// directly; with multiple formats it is used as a base path.
func writeArtifacts(p artifactWriteParams) error {
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			return fmt.Errorf("missing artifact for format %q", format)
		}
		path := artifactPath(p.output, p.input, format, len(p.formats) == 1)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// artifactPath derives the output path for one format.
func artifactPath(output, input, format string, single bool) string {
	ext := formatExtensions[format]
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return base + ext
	}
	if single {
		return output
	}
	base := strings.TrimSuffix(output, filepath.Ext(output))
	return base + ext
}
