package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/rwbench/bench"
)

// WorkloadPreset describes a named workload in the presets file.
type WorkloadPreset struct {
	InitialKeys int      `yaml:"initial_keys"`
	TotalOps    int      `yaml:"total_ops"`
	Search      float64  `yaml:"search"`
	Insert      float64  `yaml:"insert"`
	Delete      *float64 `yaml:"delete,omitempty"` // derived from search and insert when omitted
}

// PresetConfig represents the full presets file structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type PresetConfig struct {
	Version   string                    `yaml:"version"`
	Workloads map[string]WorkloadPreset `yaml:"workloads"`
}

// loadPresetConfig parses the presets file with strict field checking, so a
// misspelled key is an error rather than a silently ignored setting.
func loadPresetConfig(path string) (*PresetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload presets: %w", err)
	}
	var cfg PresetConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing workload presets %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadWorkloadPreset returns the named preset from the presets file at path.
func LoadWorkloadPreset(path, name string) (WorkloadPreset, error) {
	cfg, err := loadPresetConfig(path)
	if err != nil {
		return WorkloadPreset{}, err
	}
	preset, ok := cfg.Workloads[name]
	if !ok {
		return WorkloadPreset{}, fmt.Errorf("workload preset %q not found in %s", name, path)
	}
	return preset, nil
}

// Config turns the preset into a workload for the given thread count.
// An explicit delete probability is kept as written; the harness falls back to
// the defaults if the three do not sum to 1.
func (p WorkloadPreset) Config(threads int) bench.WorkloadConfig {
	cfg := bench.NewWorkloadConfig(threads, p.TotalOps, p.InitialKeys, p.Search, p.Insert)
	if p.Delete != nil {
		cfg.SearchProb, cfg.InsertProb, cfg.DeleteProb = p.Search, p.Insert, *p.Delete
	}
	return cfg
}
