package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leapstack-labs/processdata/internal/cli"
)

func TestVersionFlag(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("--version error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, cli.Version) {
		t.Errorf("version output should contain %q, got: %s", cli.Version, output)
	}
}

func TestHelpMentionsArguments(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("--help error = %v", err)
	}

	for _, want := range []string{"MESSAGES CATEGORIES DATABASE", "--preview", "--target"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("help output missing %q", want)
		}
	}
}
