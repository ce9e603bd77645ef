// Package main provides the microborn CLI.
package main

import (
	"fmt"
	"os"

	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
)

const version = "v0.1.0"

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	meta := Meta{
		Ui: &cli.BasicUi{
			Reader:      os.Stdin,
			Writer:      os.Stdout,
			ErrorWriter: os.Stderr,
		},
		Fs: afero.NewOsFs(),
	}

	c := cli.NewCLI("microborn", version)
	c.Args = args
	c.Commands = commands(meta)

	exitStatus, err := c.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing CLI: %s\n", err)
		return 1
	}
	return exitStatus
}

func commands(meta Meta) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"train": func() (cli.Command, error) {
			return &TrainCommand{Meta: meta}, nil
		},
		"inspect": func() (cli.Command, error) {
			return &InspectCommand{Meta: meta}, nil
		},
		"grad": func() (cli.Command, error) {
			return &GradCommand{Meta: meta}, nil
		},
		"version": func() (cli.Command, error) {
			return &VersionCommand{Meta: meta, Version: version}, nil
		},
	}
}
