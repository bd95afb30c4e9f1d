package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ".type.ts", cfg.Generate.OutputSuffix)
	assert.Equal(t, "参数", cfg.Generate.RequestSuffix)
	assert.Equal(t, "响应", cfg.Generate.ResponseSuffix)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	require.NoError(t, cfg.Validate())
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
generate:
  output_suffix: .api.ts
watch:
  debounce: 2s
`))
	require.NoError(t, err)

	assert.Equal(t, ".api.ts", cfg.Generate.OutputSuffix)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	assert.Equal(t, []string{".ts", ".js", ".tsx", ".jsx"}, cfg.Generate.Extensions)
	assert.Equal(t, "参数", cfg.Generate.RequestSuffix)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "generate: [unclosed"},
		{"suffix without dot", "generate:\n  output_suffix: type.ts\n"},
		{"empty extensions", "generate:\n  extensions: []\n"},
		{"extension without dot", "generate:\n  extensions: [ts]\n"},
		{"negative debounce", "watch:\n  debounce: -1s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("generate:\n  request_suffix: \" params\"\n"), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, " params", cfg.Generate.RequestSuffix)
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestHash(t *testing.T) {
	a := Default()
	b := Default()
	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEmpty(t, a.Hash())

	b.Watch.Debounce = time.Second
	assert.Equal(t, a.Hash(), b.Hash())

	b.Generate.RequestSuffix = "Params"
	assert.NotEqual(t, a.Hash(), b.Hash())
}
