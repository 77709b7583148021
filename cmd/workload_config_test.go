package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePresets(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const testPresets = `version: "1"
workloads:
  mixed:
    initial_keys: 20
    total_ops: 400
    search: 0.6
    insert: 0.2
  explicit:
    initial_keys: 5
    total_ops: 50
    search: 0.5
    insert: 0.2
    delete: 0.3
`

func TestLoadWorkloadPreset_DerivesDelete(t *testing.T) {
	path := writePresets(t, testPresets)

	preset, err := LoadWorkloadPreset(path, "mixed")
	require.NoError(t, err)
	cfg := preset.Config(4)

	assert.Equal(t, 4, cfg.Threads)
	assert.Equal(t, 400, cfg.TotalOps)
	assert.Equal(t, 20, cfg.InitialKeys)
	assert.InDelta(t, 0.2, cfg.DeleteProb, 1e-9)
	assert.False(t, cfg.Normalize())
}

func TestLoadWorkloadPreset_ExplicitDeleteKept(t *testing.T) {
	path := writePresets(t, testPresets)

	preset, err := LoadWorkloadPreset(path, "explicit")
	require.NoError(t, err)
	require.NotNil(t, preset.Delete)

	cfg := preset.Config(1)
	assert.Equal(t, 0.3, cfg.DeleteProb)
}

func TestLoadWorkloadPreset_UnknownField_Rejected(t *testing.T) {
	// GIVEN a typo in a preset key
	path := writePresets(t, "workloads:\n  typo:\n    total_opps: 10\n")

	_, err := LoadWorkloadPreset(path, "typo")

	// THEN strict parsing rejects it
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total_opps")
}

func TestLoadWorkloadPreset_MissingPresetOrFile(t *testing.T) {
	path := writePresets(t, testPresets)

	_, err := LoadWorkloadPreset(path, "nope")
	assert.ErrorContains(t, err, `"nope" not found`)

	_, err = LoadWorkloadPreset(filepath.Join(t.TempDir(), "absent.yaml"), "mixed")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultsFile_PresetsAreConsistent(t *testing.T) {
	path := "../defaults.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("defaults.yaml not found, skipping")
	}
	cfg, err := loadPresetConfig(path)
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Workloads)

	for name, preset := range cfg.Workloads {
		wc := preset.Config(1)
		assert.False(t, wc.Normalize(), "preset %q probabilities must sum to 1", name)
	}
}
