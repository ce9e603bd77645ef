package main

import (
	"fmt"
	"runtime"
)

// VersionCommand prints the CLI version.
type VersionCommand struct {
	Meta
	Version string
}

func (c *VersionCommand) Run(_ []string) int {
	c.Ui.Output(fmt.Sprintf("microborn %s (%s %s/%s)", c.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH))
	return 0
}

func (c *VersionCommand) Help() string {
	return "Usage: microborn version\n\n  Prints the version of microborn."
}

func (c *VersionCommand) Synopsis() string {
	return "Show the version"
}
