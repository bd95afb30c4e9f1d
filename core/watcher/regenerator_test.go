package watcher

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/geninterface/core/cache/manager"
	"github.com/tristendillon/geninterface/core/config"
	"github.com/tristendillon/geninterface/core/generator"
	"github.com/tristendillon/geninterface/core/models"
)

var (
	userSource = filepath.FromSlash("/proj/api/user.ts")
	userOutput = filepath.FromSlash("/proj/api/user.type.ts")
)

func newTestRegenerator(t *testing.T) (*Regenerator, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	cfg := config.Default()

	gen, err := generator.NewGenerator(fs, cfg)
	require.NoError(t, err)

	return NewRegenerator(gen, manager.NewCacheManager(fs), cfg), fs
}

func writeSource(t *testing.T, fs afero.Fs, content string, mod int64) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, userSource, []byte(content), 0644))
	require.NoError(t, fs.Chtimes(userSource, time.Unix(mod, 0), time.Unix(mod, 0)))
}

func TestRegeneratorStart(t *testing.T) {
	r, fs := newTestRegenerator(t)
	writeSource(t, fs, "/** create user */\nexport const createUser = () => {};\n", 100)
	require.NoError(t, afero.WriteFile(fs, filepath.FromSlash("/proj/node_modules/x/index.js"), []byte("/** x */\nexport const x = 1;\n"), 0644))

	results, err := r.Start(filepath.FromSlash("/proj"))
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, userOutput, results[0].OutputPath)
	out, err := afero.ReadFile(fs, userOutput)
	require.NoError(t, err)
	assert.Contains(t, string(out), "export interface CreateUserRequest {")
}

func TestRegeneratorSkipsUnchangedContent(t *testing.T) {
	r, fs := newTestRegenerator(t)
	writeSource(t, fs, "/** create user */\nexport const createUser = () => {};\n", 100)

	results, err := r.Apply([]models.FileChange{{Path: userSource}})
	require.NoError(t, err)
	require.Len(t, results, 1)

	// Saved again without edits
	writeSource(t, fs, "/** create user */\nexport const createUser = () => {};\n", 200)
	results, err = r.Apply([]models.FileChange{{Path: userSource}})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRegeneratorMergesIntoExistingOutput(t *testing.T) {
	r, fs := newTestRegenerator(t)
	writeSource(t, fs, "/** create user */\nexport const createUser = () => {};\n", 100)
	require.NoError(t, afero.WriteFile(fs, userOutput, []byte("/** create user参数 */\nexport interface CreateUserRequest {\n  name: string;\n}\n"), 0644))

	_, err := r.Apply([]models.FileChange{{Path: userSource}})
	require.NoError(t, err)

	writeSource(t, fs, "/** create user */\nexport const createUser = () => {};\n\n/** drop user */\nexport const dropUser = () => {};\n", 200)
	results, err := r.Apply([]models.FileChange{{Path: userSource}})
	require.NoError(t, err)
	require.Len(t, results, 1)

	out, err := afero.ReadFile(fs, userOutput)
	require.NoError(t, err)
	assert.Contains(t, string(out), "  name: string;\n")
	assert.Contains(t, string(out), "export interface DropUserResponse {")
}

func TestRegeneratorRemovedSourceKeepsOutput(t *testing.T) {
	r, fs := newTestRegenerator(t)
	writeSource(t, fs, "/** create user */\nexport const createUser = () => {};\n", 100)

	_, err := r.Apply([]models.FileChange{{Path: userSource}})
	require.NoError(t, err)
	require.NoError(t, fs.Remove(userSource))

	results, err := r.Apply([]models.FileChange{{Path: userSource, Removed: true}})
	require.NoError(t, err)
	assert.Empty(t, results)

	exists, err := afero.Exists(fs, userOutput)
	require.NoError(t, err)
	assert.True(t, exists)

	// Recreated with identical content, regenerated since the record was dropped
	writeSource(t, fs, "/** create user */\nexport const createUser = () => {};\n", 300)
	results, err = r.Apply([]models.FileChange{{Path: userSource}})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestRegeneratorSkipsSourcesWithoutFunctions(t *testing.T) {
	r, fs := newTestRegenerator(t)
	writeSource(t, fs, "export const x = 1;\n", 100)
	helper := filepath.FromSlash("/proj/src/Button.tsx")
	require.NoError(t, afero.WriteFile(fs, helper, []byte("export const Button = () => null;\n"), 0644))

	results, err := r.Start(filepath.FromSlash("/proj"))
	require.NoError(t, err)
	assert.Empty(t, results)

	for _, companion := range []string{userOutput, filepath.FromSlash("/proj/src/Button.type.ts")} {
		exists, err := afero.Exists(fs, companion)
		require.NoError(t, err)
		assert.False(t, exists, companion)
	}

	// Documenting a function later produces the file
	writeSource(t, fs, "/** create user */\nexport const createUser = () => {};\n", 200)
	results, err = r.Apply([]models.FileChange{{Path: userSource}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, userOutput, results[0].OutputPath)
}

func TestRegeneratorReloadAppliesNewSuffixes(t *testing.T) {
	r, fs := newTestRegenerator(t)
	writeSource(t, fs, "/** create user */\nexport const createUser = () => {};\n", 100)

	_, err := r.Start(filepath.FromSlash("/proj"))
	require.NoError(t, err)

	// Unchanged sources are skipped under the same settings
	results, err := r.Start(filepath.FromSlash("/proj"))
	require.NoError(t, err)
	assert.Empty(t, results)

	cfg := config.Default()
	cfg.Generate.RequestSuffix = "Params"
	results, err = r.Reload(cfg, filepath.FromSlash("/proj"))
	require.NoError(t, err)
	require.Len(t, results, 1)

	out, err := afero.ReadFile(fs, userOutput)
	require.NoError(t, err)
	assert.Contains(t, string(out), "/** create userParams */")
}

func TestRegeneratorReloadRejectsInvalidConfig(t *testing.T) {
	r, fs := newTestRegenerator(t)
	writeSource(t, fs, "/** create user */\nexport const createUser = () => {};\n", 100)

	cfg := config.Default()
	cfg.Generate.OutputSuffix = "type.ts"
	_, err := r.Reload(cfg, filepath.FromSlash("/proj"))
	require.Error(t, err)

	// Previous settings still apply
	results, err := r.Start(filepath.FromSlash("/proj"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	out, err := afero.ReadFile(fs, userOutput)
	require.NoError(t, err)
	assert.Contains(t, string(out), "export interface CreateUserRequest {")
}
