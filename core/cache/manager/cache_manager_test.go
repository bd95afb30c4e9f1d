package manager

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/geninterface/core/cache/models"
)

func write(t *testing.T, fs afero.Fs, content string, mod int64) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, "/src/user.ts", []byte(content), 0644))
	require.NoError(t, fs.Chtimes("/src/user.ts", time.Unix(mod, 0), time.Unix(mod, 0)))
}

func change(t *testing.T, cm *CacheManager, et models.EventType) *models.RegenerationPlan {
	t.Helper()
	plan, err := cm.HandleFileChange(&models.ChangeEvent{FilePath: "/src/user.ts", EventType: et, Timestamp: time.Now()})
	require.NoError(t, err)
	return plan
}

func TestHandleFileChangeLifecycle(t *testing.T) {
	fs := afero.NewMemMapFs()
	cm := NewCacheManager(fs)
	cm.SetConfigHash("cfg")

	write(t, fs, "v1", 100)
	plan := change(t, cm, models.EventCreate)
	assert.Equal(t, []string{"/src/user.ts"}, plan.AffectedFiles)
	assert.Equal(t, "no generation record found", plan.Reasons["/src/user.ts"])

	require.NoError(t, cm.MarkGenerated("/src/user.ts", "/src/user.type.ts"))

	// Same bytes saved again
	write(t, fs, "v1", 200)
	plan = change(t, cm, models.EventWrite)
	assert.True(t, plan.IsEmpty())
	assert.Empty(t, plan.ChangedFiles)

	write(t, fs, "v2", 300)
	plan = change(t, cm, models.EventWrite)
	assert.Equal(t, []string{"/src/user.ts"}, plan.ChangedFiles)
	assert.Equal(t, []string{"/src/user.ts"}, plan.AffectedFiles)
}

func TestHandleFileChangeRetriesUngenerated(t *testing.T) {
	fs := afero.NewMemMapFs()
	cm := NewCacheManager(fs)

	write(t, fs, "v1", 100)
	change(t, cm, models.EventWrite)

	// Never marked generated, so an unchanged file is still planned
	plan := change(t, cm, models.EventWrite)
	assert.Empty(t, plan.ChangedFiles)
	assert.Equal(t, []string{"/src/user.ts"}, plan.AffectedFiles)
}

func TestHandleFileChangeConfigHash(t *testing.T) {
	fs := afero.NewMemMapFs()
	cm := NewCacheManager(fs)
	cm.SetConfigHash("cfg")

	write(t, fs, "v1", 100)
	change(t, cm, models.EventWrite)
	require.NoError(t, cm.MarkGenerated("/src/user.ts", "/src/user.type.ts"))

	cm.SetConfigHash("cfg2")
	plan := change(t, cm, models.EventWrite)
	assert.Equal(t, "generate config changed", plan.Reasons["/src/user.ts"])
}

func TestHandleFileDelete(t *testing.T) {
	fs := afero.NewMemMapFs()
	cm := NewCacheManager(fs)

	write(t, fs, "v1", 100)
	change(t, cm, models.EventWrite)
	require.NoError(t, cm.MarkGenerated("/src/user.ts", "/src/user.type.ts"))

	plan := change(t, cm, models.EventDelete)
	assert.True(t, plan.IsEmpty())
	assert.Equal(t, 0, cm.GetStats()["content"].TotalFiles)
	assert.Equal(t, 0, cm.GetStats()["generation"].GenerationEntries)

	assert.Error(t, cm.MarkGenerated("/src/user.ts", "/src/user.type.ts"))
}

func TestHandleWriteAfterRemoval(t *testing.T) {
	fs := afero.NewMemMapFs()
	cm := NewCacheManager(fs)

	write(t, fs, "v1", 100)
	change(t, cm, models.EventWrite)
	require.NoError(t, fs.Remove("/src/user.ts"))

	plan := change(t, cm, models.EventWrite)
	assert.True(t, plan.IsEmpty())
	assert.Equal(t, []string{"/src/user.ts"}, plan.ChangedFiles)
}

func TestHandleFileChangeUnknownEvent(t *testing.T) {
	cm := NewCacheManager(afero.NewMemMapFs())

	_, err := cm.HandleFileChange(&models.ChangeEvent{FilePath: "/x.ts", EventType: models.EventType(42)})
	assert.Error(t, err)
}

func TestClear(t *testing.T) {
	fs := afero.NewMemMapFs()
	cm := NewCacheManager(fs)
	write(t, fs, "v1", 100)
	change(t, cm, models.EventWrite)
	require.NoError(t, cm.MarkGenerated("/src/user.ts", "/src/user.type.ts"))

	require.NoError(t, cm.Clear())

	stats := cm.GetStats()
	assert.Equal(t, 0, stats["content"].TotalFiles)
	assert.Equal(t, 0, stats["generation"].TotalFiles)
}
