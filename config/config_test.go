package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadValid(t *testing.T) {
	path := writeConfigFile(t, "raw_data_folder: /data/raw\nprocessed_folder: /data/processed\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/raw", cfg.RawDataFolder)
	assert.Equal(t, "/data/processed", cfg.ProcessedFolder)
}

func TestLoadMissingRawDataFolder(t *testing.T) {
	path := writeConfigFile(t, "processed_folder: /data/processed\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingProcessedFolder(t *testing.T) {
	path := writeConfigFile(t, "raw_data_folder: /data/raw\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
