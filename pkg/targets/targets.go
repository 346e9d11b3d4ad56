package targets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Package targets loads the rovers (and sols) a sync run follows.

// Target declares one rover to follow.
type Target struct {
	ID             string `json:"id" yaml:"id"`
	Rover          string `json:"rover" yaml:"rover"`
	Sols           []int  `json:"sols" yaml:"sols"`
	LatestSols     int    `json:"latest_sols" yaml:"latest_sols"`
	RequestDelayMs int    `json:"request_delay_ms" yaml:"request_delay_ms"`
}

type fileRegistry struct {
	Targets []Target `json:"targets" yaml:"targets"`
}

const (
	defaultLatestSols     = 1
	defaultRequestDelayMs = 250
)

// Registry is an immutable, validated set of targets.
type Registry struct {
	mu      sync.RWMutex
	targets []Target
	idx     map[string]Target
}

// NewRegistry validates targets and indexes them by id.
func NewRegistry(targets []Target) (*Registry, error) {
	reg := &Registry{
		targets: make([]Target, 0, len(targets)),
		idx:     make(map[string]Target, len(targets)),
	}
	for i, t := range targets {
		t = sanitizeTarget(t)
		if err := validateTarget(t); err != nil {
			return nil, fmt.Errorf("targets[%d]: %w", i, err)
		}
		if _, exists := reg.idx[t.ID]; exists {
			return nil, fmt.Errorf("duplicate target id %q", t.ID)
		}
		reg.targets = append(reg.targets, t)
		reg.idx[t.ID] = t
	}
	return reg, nil
}

// LoadRegistry loads targets from a YAML or JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("targets file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}

	file, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, errors.New("targets file contains no targets entries")
	}
	return NewRegistry(file.Targets)
}

func parseRegistry(data []byte, ext string) (fileRegistry, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var lastErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var reg fileRegistry
		if err := d.fn(data, &reg); err != nil {
			lastErr = fmt.Errorf("decode %s targets: %w", d.name, err)
			continue
		}
		return reg, nil
	}
	if lastErr != nil {
		return fileRegistry{}, lastErr
	}
	return fileRegistry{}, errors.New("targets file format not recognized (expected YAML or JSON)")
}

func sanitizeTarget(t Target) Target {
	t.ID = strings.TrimSpace(t.ID)
	t.Rover = strings.ToLower(strings.TrimSpace(t.Rover))
	if t.ID == "" {
		t.ID = t.Rover
	}
	if len(t.Sols) > 0 {
		sols := append([]int(nil), t.Sols...)
		sort.Ints(sols)
		t.Sols = dedupeSorted(sols)
	}
	if t.LatestSols <= 0 {
		t.LatestSols = defaultLatestSols
	}
	if t.RequestDelayMs <= 0 {
		t.RequestDelayMs = defaultRequestDelayMs
	}
	return t
}

func dedupeSorted(in []int) []int {
	out := in[:0]
	for i, v := range in {
		if i == 0 || v != in[i-1] {
			out = append(out, v)
		}
	}
	return out
}

func validateTarget(t Target) error {
	if t.ID == "" {
		return errors.New("id or rover is required")
	}
	if t.Rover == "" {
		return fmt.Errorf("rover is required for target %q", t.ID)
	}
	for _, sol := range t.Sols {
		if sol < 0 {
			return fmt.Errorf("target %q has negative sol %d", t.ID, sol)
		}
	}
	return nil
}

// All returns a copy of the targets in file order.
func (r *Registry) All() []Target {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Target, len(r.targets))
	copy(out, r.targets)
	return out
}

// ByID returns the target with the given id.
func (r *Registry) ByID(id string) (Target, bool) {
	if r == nil {
		return Target{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.idx[strings.TrimSpace(id)]
	return t, ok
}

// RequestDelay returns the pause between photo fetches for the target.
func (t Target) RequestDelay() time.Duration {
	if t.RequestDelayMs <= 0 {
		return time.Duration(defaultRequestDelayMs) * time.Millisecond
	}
	return time.Duration(t.RequestDelayMs) * time.Millisecond
}

// ResolveSols lists the sols to fetch given the rover's current max sol.
// Explicit sols are returned as configured, even past maxSol; otherwise the
// latest LatestSols sols ending at maxSol are returned in ascending order.
func (t Target) ResolveSols(maxSol int) []int {
	if len(t.Sols) > 0 {
		return append([]int(nil), t.Sols...)
	}
	if maxSol < 0 {
		return nil
	}
	n := t.LatestSols
	if n <= 0 {
		n = defaultLatestSols
	}
	start := maxSol - n + 1
	if start < 0 {
		start = 0
	}
	sols := make([]int, 0, maxSol-start+1)
	for sol := start; sol <= maxSol; sol++ {
		sols = append(sols, sol)
	}
	return sols
}
