package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/samvad-hq/rover-photos/internal/collector"
	"github.com/samvad-hq/rover-photos/internal/domain"
)

// Format selects an output renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts text, json, markdown (or md).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected text, json or markdown)", s)
	}
}

// Writer renders domain values in one format.
type Writer interface {
	Rover(info domain.RoverInfo) error
	Photos(rover string, sol int, photos []domain.PhotoReference) error
	SyncResults(results []collector.TargetResult) error
}

// NewWriter returns the renderer for format.
func NewWriter(out io.Writer, format Format) (Writer, error) {
	switch format {
	case FormatText:
		return &textWriter{out: out}, nil
	case FormatJSON:
		return &jsonWriter{out: out}, nil
	case FormatMarkdown:
		return &markdownWriter{out: out}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

type jsonWriter struct {
	out io.Writer
}

func (w *jsonWriter) encode(v any) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (w *jsonWriter) Rover(info domain.RoverInfo) error { return w.encode(info) }

func (w *jsonWriter) Photos(rover string, sol int, photos []domain.PhotoReference) error {
	if photos == nil {
		photos = []domain.PhotoReference{}
	}
	return w.encode(map[string]any{"rover": rover, "sol": sol, "photos": photos})
}

func (w *jsonWriter) SyncResults(results []collector.TargetResult) error {
	return w.encode(results)
}
