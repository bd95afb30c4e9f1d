package watcher

import (
	"time"

	"github.com/cockroachdb/errors"
	cachemodels "github.com/tristendillon/geninterface/core/cache/models"
	"github.com/tristendillon/geninterface/core/config"
	"github.com/tristendillon/geninterface/core/generator"
	"github.com/tristendillon/geninterface/core/logger"
	"github.com/tristendillon/geninterface/core/models"
)

// Regenerator turns batches of source changes into forced generation runs.
// Files whose content matches what they were last generated from are skipped.
type Regenerator struct {
	gen   *generator.Generator
	cache cachemodels.CacheManagerInterface
}

func NewRegenerator(gen *generator.Generator, cache cachemodels.CacheManagerInterface, cfg *config.Config) *Regenerator {
	cache.SetConfigHash(cfg.Hash())
	return &Regenerator{
		gen:   gen,
		cache: cache,
	}
}

// Start runs an initial pass over every source file under root.
func (r *Regenerator) Start(root string) ([]*generator.Result, error) {
	sources, err := r.gen.Sources(root)
	if err != nil {
		return nil, err
	}
	logger.Debug("Initial pass over %d source files in %s", len(sources), root)

	changes := make([]models.FileChange, 0, len(sources))
	for _, source := range sources {
		changes = append(changes, models.FileChange{Path: source})
	}
	return r.Apply(changes)
}

// Reload switches to cfg and reruns the initial pass. Every file generated
// under the previous settings is stale and gets regenerated.
func (r *Regenerator) Reload(cfg *config.Config, root string) ([]*generator.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := r.gen.SetConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to apply new config")
	}
	r.cache.SetConfigHash(cfg.Hash())

	logger.Info("Config changed, regenerating %s", root)
	return r.Start(root)
}

// Apply regenerates the companion file of every changed source that needs it.
// Removed sources are dropped from the cache; their companion files stay.
func (r *Regenerator) Apply(changes []models.FileChange) ([]*generator.Result, error) {
	var results []*generator.Result
	var errs []error

	for _, change := range changes {
		eventType := cachemodels.EventWrite
		if change.Removed {
			eventType = cachemodels.EventDelete
		}

		plan, err := r.cache.HandleFileChange(&cachemodels.ChangeEvent{
			FilePath:  change.Path,
			EventType: eventType,
			Timestamp: time.Now(),
		})
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "failed to check %s", change.Path))
			continue
		}

		if change.Removed {
			logger.Debug("Source removed, leaving %s in place", r.gen.OutputPath(change.Path))
			continue
		}
		if plan.IsEmpty() {
			logger.Debug("Up to date: %s (content changed: %t)", change.Path, len(plan.ChangedFiles) > 0)
			continue
		}

		for _, source := range plan.AffectedFiles {
			logger.Debug("Regenerating %s: %s", source, plan.Reasons[source])

			result, err := r.gen.GenerateDiscovered(source, true)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if err := r.cache.MarkGenerated(source, r.gen.OutputPath(source)); err != nil {
				logger.Debug("Failed to record generation of %s: %v", source, err)
			}
			if result == nil {
				continue
			}

			logger.Info("Generated %s (%d interfaces)", result.OutputPath, result.Declarations)
			results = append(results, result)
		}
	}

	r.logStats()

	if len(errs) > 0 {
		return results, errors.Join(errs...)
	}
	return results, nil
}

func (r *Regenerator) logStats() {
	for layer, stats := range r.cache.GetStats() {
		logger.Debug("Cache %s: files=%d hits=%d misses=%d hit_rate=%.1f%% generated=%d",
			layer, stats.TotalFiles, stats.CacheHits, stats.CacheMisses, stats.HitRate, stats.GenerationEntries)
	}
}
