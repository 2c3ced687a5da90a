package pt2matsim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.InDelta(t, 500.0, cfg.MaxLinkLength, 1e-9)
	assert.False(t, cfg.KeepPaths)

	values := make(map[string]WayParams)
	for _, params := range cfg.WayParams {
		values[params.OsmKey+"/"+params.OsmValue] = params
	}
	require.Contains(t, values, "highway/residential")
	require.Contains(t, values, "highway/unclassified")
	require.Contains(t, values, "railway/rail")
	assert.True(t, values["highway/motorway"].Oneway)
	assert.InDelta(t, 2.0, values["highway/motorway"].Lanes, 1e-9)
}

func TestReadConfig(t *testing.T) {
	content := `
max-link-length: 250
guess-free-speed: true
coordinate-system: mercator
way-params:
  - osm-key: highway
    osm-value: residential
    lanes: 2
    freespeed: 8.3
    freespeed-factor: 1.0
    lane-capacity: 700
    oneway: false
`
	fname := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(fname, []byte(content), 0644))

	cfg, err := ReadConfig(fname)
	require.NoError(t, err)
	assert.InDelta(t, 250.0, cfg.MaxLinkLength, 1e-9)
	assert.True(t, cfg.GuessFreeSpeed)
	assert.Equal(t, "mercator", cfg.CoordinateSystem)
	require.Len(t, cfg.WayParams, 1)
	assert.InDelta(t, 700.0, cfg.WayParams[0].LaneCapacity, 1e-9)
}

func TestReadConfigWithoutWayParamsFallsBackToDefaults(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(fname, []byte("keep-paths: true\n"), 0644))

	cfg, err := ReadConfig(fname)
	require.NoError(t, err)
	assert.True(t, cfg.KeepPaths)
	assert.Len(t, cfg.WayParams, len(DefaultConfig().WayParams))
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
