/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/tristendillon/geninterface/core/config"
	"github.com/tristendillon/geninterface/core/logger"
)

var rootCmd = &cobra.Command{
	Use:   "gen-interface",
	Short: "Generates TypeScript request/response interfaces for API functions.",
	Long: `gen-interface scans API source files for documented exported functions and
writes a companion file with a Request and Response interface for each one.
Re-running with --force merges into the existing file so hand-written
interface bodies are kept.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)
		if logfile != "" {
			f, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return errors.Wrapf(err, "failed to open log file %s", logfile)
			}
			logger.AddWriterForAll(f)
		}
		logger.Debug("%s called", cmd.Name())
		return nil
	},
}

var logfile string
var verbose bool
var configPath string

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error("%v", err)
		if hints := errors.FlattenHints(err); hints != "" {
			logger.Info("Hint: %s", hints)
		}
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

// loadConfig reads --config when given, otherwise gen-interface.yaml from the
// working directory.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "File to write logs to")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to "+config.FileName)
}
