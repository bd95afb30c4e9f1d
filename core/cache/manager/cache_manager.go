package manager

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/tristendillon/geninterface/core/cache/layers"
	"github.com/tristendillon/geninterface/core/cache/models"
	"github.com/tristendillon/geninterface/core/logger"
)

// CacheManager coordinates the content and generation layers
type CacheManager struct {
	content    models.ContentCacheInterface
	generation models.GenerationCacheInterface

	mu         sync.RWMutex
	configHash string
}

func NewCacheManager(fs afero.Fs) *CacheManager {
	return NewCacheManagerWithLayers(layers.NewContentCache(fs), layers.NewGenerationCache())
}

// NewCacheManagerWithLayers creates a cache manager with custom layer implementations
func NewCacheManagerWithLayers(
	content models.ContentCacheInterface,
	generation models.GenerationCacheInterface,
) *CacheManager {
	return &CacheManager{
		content:    content,
		generation: generation,
	}
}

func (cm *CacheManager) SetConfigHash(hash string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.configHash = hash
}

func (cm *CacheManager) getConfigHash() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.configHash
}

// HandleFileChange processes a file system change event
func (cm *CacheManager) HandleFileChange(event *models.ChangeEvent) (*models.RegenerationPlan, error) {
	logger.Debug("CacheManager: Handling file change: %s (%s)", event.FilePath, event.EventType)

	plan := models.NewRegenerationPlan()

	switch event.EventType {
	case models.EventDelete:
		cm.forget(event.FilePath)
		plan.ChangedFiles = append(plan.ChangedFiles, event.FilePath)
		return plan, nil
	case models.EventWrite, models.EventCreate:
		return cm.handleFileChange(event, plan)
	default:
		return plan, errors.Newf("unknown event type: %s", event.EventType)
	}
}

// MarkGenerated records successful generation
func (cm *CacheManager) MarkGenerated(sourcePath, outputPath string) error {
	contentEntry, exists := cm.content.GetContent(sourcePath)
	if !exists {
		return errors.Newf("no content entry found for source file: %s", sourcePath)
	}

	return cm.generation.MarkGenerated(sourcePath, outputPath, contentEntry.ContentHash, cm.getConfigHash())
}

// GetStats returns statistics per cache layer
func (cm *CacheManager) GetStats() map[string]*models.CacheStats {
	return map[string]*models.CacheStats{
		"content":    cm.content.GetStats(),
		"generation": cm.generation.GetStats(),
	}
}

// Clear resets all cache layers
func (cm *CacheManager) Clear() error {
	if err := cm.content.Clear(); err != nil {
		return errors.Wrap(err, "failed to clear content cache")
	}
	if err := cm.generation.Clear(); err != nil {
		return errors.Wrap(err, "failed to clear generation cache")
	}

	logger.Debug("CacheManager: Cleared all cache layers")
	return nil
}

func (cm *CacheManager) forget(filePath string) {
	if info, ok := cm.generation.GetGenerationInfo(filePath); ok {
		logger.Debug("CacheManager: Dropping record for %s (output %s, generated %s)",
			filePath, info.OutputPath, info.GeneratedAt.Format(time.RFC3339))
	}
	cm.content.RemoveContent(filePath)
	cm.generation.InvalidateGeneration(filePath)
}

func (cm *CacheManager) handleFileChange(event *models.ChangeEvent, plan *models.RegenerationPlan) (*models.RegenerationPlan, error) {
	entry, contentChanged, err := cm.content.UpdateContent(event.FilePath)
	if err != nil {
		return plan, errors.Wrap(err, "failed to update content cache")
	}

	// A write event can arrive after the file is already gone
	if entry == nil || !entry.Exists {
		cm.forget(event.FilePath)
		if contentChanged {
			plan.ChangedFiles = append(plan.ChangedFiles, event.FilePath)
		}
		return plan, nil
	}

	if contentChanged {
		plan.ChangedFiles = append(plan.ChangedFiles, event.FilePath)
	}

	if needs, reason := cm.generation.NeedsRegeneration(event.FilePath, entry.ContentHash, cm.getConfigHash()); needs {
		plan.Add(event.FilePath, reason)
	}

	return plan, nil
}
