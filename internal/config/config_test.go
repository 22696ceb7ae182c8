package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	content := `documents: [intro.yaml, outro.yaml]
out_dir: build
compress: true
concurrency: 2
watch_debounce: 1s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, []string{"intro.yaml", "outro.yaml"}, cfg.Documents)
	assert.Equal(t, "build", cfg.OutDir)
	assert.True(t, cfg.Compress)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, time.Second, cfg.WatchDebounce)
	assert.Equal(t, DefaultStateFile, cfg.StatePath, "unset fields get defaults")
}

func TestLoadFromDir_AltName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileNameAlt), []byte("documents: a.yaml,b.yaml\n"), 0o600))

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, cfg.Documents)
	assert.Equal(t, DefaultOutDir, cfg.OutDir)
}

func TestLoadFromDir_Missing(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadFromDir_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("out_dir: [unclosed\n"), 0o600))

	_, err := LoadFromDir(dir)
	assert.Error(t, err)
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "scenes", "intro")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("{}\n"), 0o600))

	assert.Equal(t, root, FindProjectRoot(nested))
	assert.Equal(t, root, FindProjectRoot(root))
}

func TestApplyDefaults(t *testing.T) {
	var cfg ProjectConfig
	ApplyDefaults(&cfg)
	assert.Equal(t, DefaultOutDir, cfg.OutDir)
	assert.Equal(t, DefaultStateFile, cfg.StatePath)
	assert.Equal(t, DefaultWatchDebounce, cfg.WatchDebounce)

	var nilCfg *ProjectConfig
	assert.NotPanics(t, func() { ApplyDefaults(nilCfg) })
}
