package main

import (
	"flag"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
)

// Meta holds state shared by every command.
type Meta struct {
	Ui cli.Ui
	Fs afero.Fs
}

// flagSet returns a FlagSet whose usage output is silenced; commands print
// their own help.
func (m *Meta) flagSet(name string) *flag.FlagSet {
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	f.SetOutput(io.Discard)
	return f
}

// logger builds a logger writing to the UI's error stream.
func (m *Meta) logger(level string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "microborn",
		Level:  hclog.LevelFromString(level),
		Output: uiWriter{m.Ui},
	})
}

// uiWriter adapts cli.Ui to io.Writer for the logger.
type uiWriter struct {
	ui cli.Ui
}

func (w uiWriter) Write(p []byte) (int, error) {
	n := len(p)
	if n > 0 && p[n-1] == '\n' {
		p = p[:n-1]
	}
	w.ui.Error(string(p))
	return n, nil
}
