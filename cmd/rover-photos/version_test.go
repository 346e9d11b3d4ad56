package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionHelpersNeverEmpty(t *testing.T) {
	t.Parallel()

	if getVersion() == "" || getCommit() == "" || getDate() == "" {
		t.Fatal("version helpers must return a value")
	}
}

func TestNewVersionCmdOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()
	for _, want := range []string{"rover-photos version", "commit:", "built:"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got %q", want, output)
		}
	}
}
