package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YasminAwad/Text2BPMN/pkg/errors"
	"github.com/YasminAwad/Text2BPMN/pkg/model"
)

// validateCommand creates the validate command for checking process models.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [process.json]",
		Short: "Check a process model for structural problems",
		Long: `Check a process model for structural problems.

Validation verifies that lane orders are distinct, element references in
sequence flows resolve, element types are known, and element identifiers
are unique within the pool. The exit code is non-zero when the model is
invalid, so the command can gate generation pipelines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func runValidate(input string) error {
	proc, err := model.ReadProcessFile(input)
	if err != nil {
		printError("Invalid model: %s", errors.UserMessage(err))
		return fmt.Errorf("validate %s: %w", input, err)
	}

	elements := 0
	for _, ln := range proc.Pool.Lanes {
		elements += len(ln.Elements)
	}
	crossing := len(proc.InterLaneFlows())

	printSuccess("Model is valid")
	printDetail("Pool: %s", proc.Pool.Name)
	printDetail("Lanes: %d, elements: %d", len(proc.Pool.Lanes), elements)
	printDetail("Flows: %d total, %d crossing lanes", len(proc.Pool.SequenceFlows), crossing)
	return nil
}
