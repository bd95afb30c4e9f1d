package cache

import (
	"sync"

	"github.com/spf13/afero"
	"github.com/tristendillon/geninterface/core/cache/manager"
	"github.com/tristendillon/geninterface/core/cache/models"
	"github.com/tristendillon/geninterface/core/logger"
)

var (
	globalCacheManager models.CacheManagerInterface
	cacheOnce          sync.Once
	cacheMu            sync.Mutex
)

// GetCacheManager returns the process-wide cache manager, backed by the OS
// filesystem.
func GetCacheManager() models.CacheManagerInterface {
	cacheOnce.Do(func() {
		cacheMu.Lock()
		defer cacheMu.Unlock()
		if globalCacheManager == nil {
			globalCacheManager = manager.NewCacheManager(afero.NewOsFs())
			logger.Debug("Initialized global cache manager")
		}
	})
	cacheMu.Lock()
	defer cacheMu.Unlock()
	return globalCacheManager
}

// ClearGlobalCache clears the global cache manager
func ClearGlobalCache() error {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if globalCacheManager != nil {
		return globalCacheManager.Clear()
	}
	return nil
}

// GetGlobalCacheStats returns statistics for all cache layers
func GetGlobalCacheStats() map[string]*models.CacheStats {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if globalCacheManager != nil {
		return globalCacheManager.GetStats()
	}
	return make(map[string]*models.CacheStats)
}
