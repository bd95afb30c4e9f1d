package layers

import (
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/tristendillon/geninterface/core/cache/models"
	"github.com/tristendillon/geninterface/core/logger"
)

// GenerationCache remembers the source hash each companion file was last
// generated from.
type GenerationCache struct {
	entries map[string]*models.GenerationInfo
	mutex   sync.RWMutex
}

func NewGenerationCache() *GenerationCache {
	return &GenerationCache{
		entries: make(map[string]*models.GenerationInfo),
	}
}

// MarkGenerated records successful generation
func (gc *GenerationCache) MarkGenerated(sourcePath, outputPath, sourceHash, configHash string) error {
	if sourcePath == "" || outputPath == "" {
		return errors.New("source path and output path cannot be empty")
	}

	gc.mutex.Lock()
	defer gc.mutex.Unlock()

	gc.entries[sourcePath] = &models.GenerationInfo{
		SourcePath:  sourcePath,
		OutputPath:  outputPath,
		SourceHash:  sourceHash,
		ConfigHash:  configHash,
		GeneratedAt: time.Now(),
	}
	logger.Debug("GenerationCache: Marked %s as generated (output: %s)", sourcePath, outputPath)
	return nil
}

// NeedsRegeneration checks if file needs regeneration
func (gc *GenerationCache) NeedsRegeneration(sourcePath, currentHash, configHash string) (bool, string) {
	gc.mutex.RLock()
	defer gc.mutex.RUnlock()

	entry, exists := gc.entries[sourcePath]
	if !exists {
		return true, "no generation record found"
	}

	if entry.SourceHash != currentHash {
		return true, fmt.Sprintf("source content changed (hash: %s -> %s)",
			shortHash(entry.SourceHash), shortHash(currentHash))
	}

	if entry.ConfigHash != configHash {
		return true, "generate config changed"
	}

	logger.Debug("GenerationCache: %s does not need regeneration", sourcePath)
	return false, ""
}

func (gc *GenerationCache) GetGenerationInfo(sourcePath string) (*models.GenerationInfo, bool) {
	gc.mutex.RLock()
	defer gc.mutex.RUnlock()

	entry, exists := gc.entries[sourcePath]
	if !exists {
		return nil, false
	}

	entryCopy := *entry
	return &entryCopy, true
}

func (gc *GenerationCache) InvalidateGeneration(sourcePath string) error {
	gc.mutex.Lock()
	defer gc.mutex.Unlock()

	if _, exists := gc.entries[sourcePath]; exists {
		delete(gc.entries, sourcePath)
		logger.Debug("GenerationCache: Invalidated generation record for %s", sourcePath)
	}
	return nil
}

func (gc *GenerationCache) GetStats() *models.CacheStats {
	gc.mutex.RLock()
	defer gc.mutex.RUnlock()

	return &models.CacheStats{
		TotalFiles:        len(gc.entries),
		GenerationEntries: len(gc.entries),
		LastUpdate:        time.Now(),
	}
}

func (gc *GenerationCache) Clear() error {
	gc.mutex.Lock()
	defer gc.mutex.Unlock()

	gc.entries = make(map[string]*models.GenerationInfo)
	logger.Debug("GenerationCache: Cleared all entries")
	return nil
}
