package cli

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	if root.Use != "sharecard" {
		t.Errorf("Use = %q", root.Use)
	}

	want := map[string]bool{
		"export":     false,
		"share":      false,
		"pack":       false,
		"caption":    false,
		"templates":  false,
		"serve":      false,
		"cache":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestRootCommandAttachesLogger(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	if err := root.PersistentPreRunE(cmd, nil); err != nil {
		t.Fatal(err)
	}
	if loggerFromContext(cmd.Context()) != c.Logger {
		t.Error("pre-run should attach the CLI logger to the command context")
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.SetLogLevel(log.DebugLevel)
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v", c.Logger.GetLevel())
	}
}
