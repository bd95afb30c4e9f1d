package cmd

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tristendillon/geninterface/core/cache"
	"github.com/tristendillon/geninterface/core/config"
	"github.com/tristendillon/geninterface/core/generator"
	"github.com/tristendillon/geninterface/core/logger"
	"github.com/tristendillon/geninterface/core/models"
	"github.com/tristendillon/geninterface/core/watcher"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Regenerates interface files as API sources change",
	Long: `Watches a directory tree and regenerates the companion interface file of
every source file that changes. Existing interface bodies are always kept.
Editing the config file reloads it and regenerates every file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		debounceSet := cmd.Flags().Changed("debounce")
		if debounceSet {
			cfg.Watch.Debounce = watchDebounce
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		fs := afero.NewOsFs()
		if isDir, err := afero.IsDir(fs, root); err != nil || !isDir {
			return errors.Newf("%s is not a directory", root)
		}

		gen, err := generator.NewGenerator(fs, cfg)
		if err != nil {
			return err
		}
		regen := watcher.NewRegenerator(gen, cache.GetCacheManager(), cfg)

		fw, err := watcher.NewFileWatcher(fs, root, cfg)
		if err != nil {
			return err
		}
		watchedConfig, err := watchedConfigPath()
		if err != nil {
			return err
		}
		if err := fw.WatchConfig(watchedConfig); err != nil {
			return err
		}

		absRoot := fw.FileWatcher.RootDir
		fw.FileWatcher.AddOnStartFunc(func() error {
			_, err := regen.Start(absRoot)
			logger.Info("Watching %s for changes...", root)
			return err
		})
		fw.FileWatcher.AddOnChangeFunc(func(changes []models.FileChange) error {
			_, err := regen.Apply(changes)
			return err
		})
		fw.FileWatcher.AddOnConfigChangeFunc(func() error {
			next, err := config.LoadFrom(watchedConfig)
			if err != nil {
				return errors.WithHint(err, "keeping the previous settings until the file is fixed")
			}
			if debounceSet {
				next.Watch.Debounce = watchDebounce
			}
			fw.ApplyConfig(next)
			_, err = regen.Reload(next, absRoot)
			return err
		})
		fw.FileWatcher.AddOnCloseFunc(func() error {
			for layer, stats := range cache.GetGlobalCacheStats() {
				logger.Debug("Cache %s at exit: files=%d hit_rate=%.1f%%", layer, stats.TotalFiles, stats.HitRate)
			}
			logger.Info("Stopped watching %s", root)
			return cache.ClearGlobalCache()
		})
		defer fw.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return fw.Watch(ctx)
	},
}

// watchedConfigPath is the --config file, or gen-interface.yaml in the working
// directory whether or not it exists yet.
func watchedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to get working directory")
	}
	return filepath.Join(wd, config.FileName), nil
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Quiet period before regenerating")
}
