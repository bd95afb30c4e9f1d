package cmd

import (
	"bytes"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/geninterface/core/config"
	"github.com/tristendillon/geninterface/core/version"
)

func TestWriteDefaultConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/proj/" + config.FileName

	require.NoError(t, writeDefaultConfig(fs, path, false))

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	cfg, err := config.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestWriteDefaultConfigRefusesOverwrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/proj/" + config.FileName
	require.NoError(t, afero.WriteFile(fs, path, []byte("custom"), 0644))

	err := writeDefaultConfig(fs, path, false)
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "--force")

	data, _ := afero.ReadFile(fs, path)
	assert.Equal(t, "custom", string(data))

	require.NoError(t, writeDefaultConfig(fs, path, true))
	data, _ = afero.ReadFile(fs, path)
	assert.NotEqual(t, "custom", string(data))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "gen-interface "+version.Version+"\n", out.String())
}
