package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsZeroDefaults(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults{}, d)

	d, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults{}, d)
}

func TestLoadParsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watermark.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"output_path: out/result.png\njpeg_quality: 80\npercent: 35\ngrid: true\n",
	), 0o644))

	d, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "out/result.png", d.OutputPath)
	assert.Equal(t, 80, d.Quality())
	require.NotNil(t, d.Percent)
	assert.Equal(t, 35, *d.Percent)
	require.NotNil(t, d.Grid)
	assert.True(t, *d.Grid)
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()

	badYAML := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badYAML, []byte("percent: [what"), 0o644))
	_, err := Load(badYAML)
	assert.Error(t, err)

	badPercent := filepath.Join(dir, "percent.yaml")
	require.NoError(t, os.WriteFile(badPercent, []byte("percent: 150\n"), 0o644))
	_, err = Load(badPercent)
	assert.Error(t, err)
}

func TestQualityFallback(t *testing.T) {
	assert.Equal(t, DefaultJPEGQuality, Defaults{}.Quality())
	assert.Equal(t, DefaultJPEGQuality, Defaults{JPEGQuality: 300}.Quality())
	assert.Equal(t, 70, Defaults{JPEGQuality: 70}.Quality())
}
