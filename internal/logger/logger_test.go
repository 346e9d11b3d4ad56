package logger

import (
	"testing"

	"github.com/samvad-hq/rover-photos/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	if ParseLevel("warning") != zapcore.WarnLevel {
		t.Fatalf("warning should map to warn")
	}
	if ParseLevel("bogus") != zapcore.InfoLevel {
		t.Fatalf("unknown levels should default to info")
	}
}

func TestInitSetsPackageLogger(t *testing.T) {
	defer func() { S = nil }()
	sugar, err := Init(&config.Config{LogLevel: "debug", AppName: "test"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if sugar == nil || S != sugar {
		t.Fatalf("package logger not set")
	}
	if !sugar.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug level not enabled")
	}
}

func TestZapLoggerWritesStructuredField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core).Sugar())

	log.InfoObj("rover fetched", "rover", map[string]any{"name": "curiosity"})

	entries := logs.FilterMessage("rover fetched").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if _, ok := entries[0].ContextMap()["rover"]; !ok {
		t.Fatalf("rover field missing: %v", entries[0].ContextMap())
	}
}

func TestEnsureFallsBackToNop(t *testing.T) {
	if _, ok := Ensure(nil).(NopLogger); !ok {
		t.Fatalf("expected NopLogger")
	}
}

func TestPackageHelpersUseInitializedLogger(t *testing.T) {
	defer func() { S = nil }()
	core, logs := observer.New(zapcore.DebugLevel)
	S = zap.New(core).Sugar()

	InfoObj("sync starting", "config", map[string]any{"app_name": "test"})
	WarnObj("sync pass finished with errors", "error", "boom")
	ErrorObj("failed to initialize syncer", "error", "bad config")
	DebugObj("detail", "n", 1)

	if logs.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d", logs.Len())
	}
	if entry := logs.FilterMessage("failed to initialize syncer").All(); len(entry) != 1 || entry[0].Level != zapcore.ErrorLevel {
		t.Fatalf("error entry not recorded: %+v", entry)
	}
}

func TestPackageHelpersNoopBeforeInit(t *testing.T) {
	S = nil
	InfoObj("ignored", "k", "v")
	if err := Close(); err != nil {
		t.Fatalf("Close without Init: %v", err)
	}
}
