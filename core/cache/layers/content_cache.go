package layers

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/tristendillon/geninterface/core/cache/models"
	"github.com/tristendillon/geninterface/core/logger"
)

// ContentCache tracks file content by size, mtime and md5 hash
type ContentCache struct {
	fs      afero.Fs
	entries map[string]*models.ContentEntry
	mutex   sync.RWMutex
	stats   struct {
		hits   int64
		misses int64
	}
}

func NewContentCache(fs afero.Fs) *ContentCache {
	return &ContentCache{
		fs:      fs,
		entries: make(map[string]*models.ContentEntry),
	}
}

// UpdateContent checks if file content has changed and updates entry
func (cc *ContentCache) UpdateContent(filePath string) (*models.ContentEntry, bool, error) {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	stat, err := cc.fs.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			if existing, exists := cc.entries[filePath]; exists {
				logger.Debug("ContentCache: File deleted: %s", filePath)
				delete(cc.entries, filePath)
				existing.Exists = false
				return existing, true, nil
			}
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "failed to stat file %s", filePath)
	}

	existing, exists := cc.entries[filePath]

	if !exists {
		logger.Debug("ContentCache: New file detected: %s", filePath)
		cc.stats.misses++
		entry, err := cc.createContentEntry(filePath, stat)
		if err != nil {
			return nil, false, err
		}
		cc.entries[filePath] = entry
		return entry, true, nil
	}

	// Quick check: if size and modtime haven't changed, assume content is same
	if stat.Size() == existing.Size && stat.ModTime().Equal(existing.ModTime) {
		logger.Debug("ContentCache: Quick hit for %s (size and modtime unchanged)", filePath)
		cc.stats.hits++
		return existing, false, nil
	}

	newHash, err := cc.calculateFileHash(filePath)
	if err != nil {
		return nil, false, err
	}

	if newHash != existing.ContentHash {
		logger.Debug("ContentCache: Content changed for %s (hash: %s -> %s)", filePath, shortHash(existing.ContentHash), shortHash(newHash))
		cc.stats.misses++
		entry := &models.ContentEntry{
			FilePath:    filePath,
			ContentHash: newHash,
			ModTime:     stat.ModTime(),
			Size:        stat.Size(),
			Exists:      true,
		}
		cc.entries[filePath] = entry
		return entry, true, nil
	}

	// Editors often rewrite a file without changing it
	logger.Debug("ContentCache: Metadata changed but content same for %s", filePath)
	existing.ModTime = stat.ModTime()
	existing.Size = stat.Size()
	cc.stats.hits++
	return existing, false, nil
}

func (cc *ContentCache) GetContent(filePath string) (*models.ContentEntry, bool) {
	cc.mutex.RLock()
	defer cc.mutex.RUnlock()

	entry, exists := cc.entries[filePath]
	return entry, exists
}

func (cc *ContentCache) RemoveContent(filePath string) error {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	if _, exists := cc.entries[filePath]; exists {
		delete(cc.entries, filePath)
		logger.Debug("ContentCache: Removed entry for %s", filePath)
	}
	return nil
}

func (cc *ContentCache) GetStats() *models.CacheStats {
	cc.mutex.RLock()
	defer cc.mutex.RUnlock()

	total := cc.stats.hits + cc.stats.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(cc.stats.hits) / float64(total) * 100
	}

	return &models.CacheStats{
		TotalFiles:  len(cc.entries),
		CacheHits:   cc.stats.hits,
		CacheMisses: cc.stats.misses,
		HitRate:     hitRate,
		LastUpdate:  time.Now(),
	}
}

func (cc *ContentCache) Clear() error {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	cc.entries = make(map[string]*models.ContentEntry)
	cc.stats.hits = 0
	cc.stats.misses = 0
	logger.Debug("ContentCache: Cleared all entries")
	return nil
}

func (cc *ContentCache) createContentEntry(filePath string, stat os.FileInfo) (*models.ContentEntry, error) {
	hash, err := cc.calculateFileHash(filePath)
	if err != nil {
		return nil, err
	}

	return &models.ContentEntry{
		FilePath:    filePath,
		ContentHash: hash,
		ModTime:     stat.ModTime(),
		Size:        stat.Size(),
		Exists:      true,
	}, nil
}

func (cc *ContentCache) calculateFileHash(filePath string) (string, error) {
	file, err := cc.fs.Open(filePath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open %s", filePath)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", errors.Wrapf(err, "failed to hash %s", filePath)
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
