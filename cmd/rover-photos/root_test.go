package main

import "testing"

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "rover-photos" {
			t.Errorf("expected use 'rover-photos', got %q", cmd.Use)
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has persistent flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"verbose", "api-url", "api-key"} {
			if cmd.PersistentFlags().Lookup(name) == nil {
				t.Errorf("expected persistent flag %q", name)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{"rover <name>": false, "photos <name>": false, "sync": false, "version": false}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Use]; ok {
				want[sub.Use] = true
			}
		}
		for use, found := range want {
			if !found {
				t.Errorf("expected subcommand %q", use)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage || !cmd.SilenceErrors {
			t.Error("expected SilenceUsage and SilenceErrors to be true")
		}
	})
}

func TestFormatFlags(t *testing.T) {
	t.Parallel()

	photos := NewPhotosCmd()
	if f := photos.Flags().Lookup("sol"); f == nil || f.Shorthand != "s" {
		t.Fatal("expected --sol/-s flag on photos")
	}
	if f := photos.Flags().Lookup("format"); f == nil || f.DefValue != "text" {
		t.Fatal("expected --format flag defaulting to text")
	}
	if NewSyncCmd().Flags().Lookup("once") == nil {
		t.Fatal("expected --once flag on sync")
	}
}
