package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juruen/homus/fetch"
	"github.com/juruen/homus/raster"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, fetch.HomusV2, cfg.Dataset)
	assert.Equal(t, "data", cfg.RawDir)
	assert.Equal(t, "homus_data", cfg.OutputDir)
	assert.Equal(t, []int{3}, cfg.Render.StrokeThicknesses)
	assert.Equal(t, 96, cfg.Render.CanvasWidth)
	assert.Equal(t, 192, cfg.Render.CanvasHeight)
	assert.Equal(t, 14, cfg.Render.StaffLineSpacing)
	assert.Nil(t, cfg.Render.StaffLineVerticalOffsets)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
dataset: homus-v1
raw_dir: raw
fetch:
  cache_dir: user
  timeout: 90s
render:
  stroke_thicknesses: [3, 5]
  staff_line_vertical_offsets: [40, 80]
  format: tiff
  workers: 4
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "homus-v1", cfg.Dataset)
	assert.Equal(t, "raw", cfg.RawDir)
	assert.Equal(t, "homus_data", cfg.OutputDir)
	assert.Equal(t, fetch.UserCache, cfg.Fetch.CacheDir)
	assert.Equal(t, 90*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, []int{3, 5}, cfg.Render.StrokeThicknesses)
	assert.Equal(t, []int{40, 80}, cfg.Render.StaffLineVerticalOffsets)
	assert.Equal(t, raster.TIFF, cfg.Render.Format)
	assert.Equal(t, 4, cfg.Render.Workers)
	// untouched keys keep their defaults
	assert.Equal(t, 96, cfg.Render.CanvasWidth)
}

func TestParseUnknownKey(t *testing.T) {
	_, err := Parse([]byte("canvas_width: 96\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Render.CanvasHeight = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Dataset = "unknown"
	assert.Error(t, cfg.Validate())
	cfg.Fetch.Skip = true
	assert.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.OutputDir = cfg.RawDir
	assert.Error(t, cfg.Validate())
}

func TestApplyLayout(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ApplyLayout("labeled"))
	assert.Equal(t, "raw", cfg.RawDir)
	assert.Equal(t, "labeled", cfg.OutputDir)
	assert.Error(t, cfg.ApplyLayout("flat"))
}

func TestLoadDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: out\n"), 0644))

	os.Setenv(configFileEnvVar, path)
	defer os.Unsetenv(configFileEnvVar)

	cfg, err := LoadDefault("")
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.OutputDir)

	_, err = LoadDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Render.StrokeThicknesses = []int{2, 4}
	cfg.Fetch.Timeout = time.Minute

	data, err := cfg.Marshal()
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.Render.StrokeThicknesses, back.Render.StrokeThicknesses)
	assert.Equal(t, time.Minute, back.Fetch.Timeout)
	assert.Equal(t, cfg.OutputDir, back.OutputDir)
}
