package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/born-ml/microborn/internal/serialization"
)

// InspectCommand prints the header and parameters of a .born file.
type InspectCommand struct {
	Meta
}

func (c *InspectCommand) Run(args []string) int {
	var quiet bool

	f := c.flagSet("inspect")
	f.BoolVar(&quiet, "quiet", false, "")
	if err := f.Parse(args); err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
	if f.NArg() != 1 {
		c.Ui.Error("Exactly one file argument is required.")
		c.Ui.Error(c.Help())
		return 1
	}
	path := f.Arg(0)

	state, header, err := serialization.Load(c.Fs, path)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Failed to read %s: %s", path, err))
		return 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "File:        %s\n", path)
	fmt.Fprintf(&b, "Format:      v%d (written by %s)\n", header.FormatVersion, header.CreatorVersion)
	fmt.Fprintf(&b, "Model:       %s\n", header.ModelType)
	if header.RunID != "" {
		fmt.Fprintf(&b, "Run ID:      %s\n", header.RunID)
	}
	fmt.Fprintf(&b, "Created:     %s\n", header.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Parameters:  %d\n", len(header.Params))

	if cm := header.CheckpointMeta; cm != nil && cm.IsCheckpoint {
		fmt.Fprintf(&b, "Checkpoint:  epoch %d, step %d, loss %.6g\n", cm.Epoch, cm.Step, cm.Loss)
		if cm.OptimizerType != "" {
			fmt.Fprintf(&b, "Optimizer:   %s %s\n", cm.OptimizerType, formatMap(cm.OptimizerConfig))
		}
	}
	for _, k := range slices.Sorted(maps.Keys(header.Metadata)) {
		fmt.Fprintf(&b, "Metadata:    %s = %s\n", k, header.Metadata[k])
	}

	if !quiet {
		b.WriteString("\n")
		for _, p := range header.Params {
			fmt.Fprintf(&b, "  %-40s % .6f\n", p.Name, state[p.Name])
		}
	}

	c.Ui.Output(strings.TrimRight(b.String(), "\n"))
	return 0
}

func (c *InspectCommand) Help() string {
	helpText := `
Usage: microborn inspect [options] FILE

  Prints the header, checkpoint metadata and parameter values stored in
  a .born file. The payload checksum is verified while reading.

Options:

  -quiet   Only print the header.
`
	return strings.TrimSpace(helpText)
}

func (c *InspectCommand) Synopsis() string {
	return "Show the contents of a .born file"
}

func formatMap(m map[string]float64) string {
	parts := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		parts = append(parts, fmt.Sprintf("%s=%g", k, m[k]))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
