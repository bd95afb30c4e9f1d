package models

// ContentCacheInterface manages file content tracking
type ContentCacheInterface interface {
	// UpdateContent checks if file content has changed and updates entry
	UpdateContent(filePath string) (*ContentEntry, bool, error) // entry, changed, error

	// GetContent retrieves current content entry
	GetContent(filePath string) (*ContentEntry, bool) // entry, exists

	// RemoveContent removes entry for deleted files
	RemoveContent(filePath string) error

	GetStats() *CacheStats
	Clear() error
}

// GenerationCacheInterface manages generation state
type GenerationCacheInterface interface {
	// MarkGenerated records successful generation
	MarkGenerated(sourcePath, outputPath, sourceHash, configHash string) error

	// NeedsRegeneration checks if file needs regeneration
	NeedsRegeneration(sourcePath, currentHash, configHash string) (bool, string) // needs, reason

	// GetGenerationInfo retrieves generation metadata
	GetGenerationInfo(sourcePath string) (*GenerationInfo, bool)

	// InvalidateGeneration marks file as needing regeneration
	InvalidateGeneration(sourcePath string) error

	GetStats() *CacheStats
	Clear() error
}

// CacheManagerInterface coordinates the content and generation layers
type CacheManagerInterface interface {
	// HandleFileChange processes a file system change event
	HandleFileChange(event *ChangeEvent) (*RegenerationPlan, error)

	// MarkGenerated records successful generation
	MarkGenerated(sourcePath, outputPath string) error

	// SetConfigHash records the generate settings in effect. A different
	// hash from the one a file was generated with forces regeneration.
	SetConfigHash(hash string)

	// GetStats returns statistics per cache layer
	GetStats() map[string]*CacheStats

	// Clear resets all cache layers
	Clear() error
}
