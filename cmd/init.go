/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tristendillon/geninterface/core/config"
	"github.com/tristendillon/geninterface/core/logger"
	"github.com/tristendillon/geninterface/core/template_engine"
)

var (
	force bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Writes a default " + config.FileName,
	Long:  `Creates ` + config.FileName + ` in the current directory with the default settings.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return errors.Wrap(err, "failed to get working directory")
		}

		return writeDefaultConfig(afero.NewOsFs(), filepath.Join(wd, config.FileName), force)
	},
}

func writeDefaultConfig(fs afero.Fs, path string, overwrite bool) error {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return errors.Wrapf(err, "failed to check %s", path)
	}
	if exists {
		if !overwrite {
			return errors.WithHint(
				errors.Newf("%s already exists", path),
				"use --force to overwrite it",
			)
		}
		logger.Debug("%s already exists. Overwriting.", path)
	}

	engine := template_engine.NewTemplateEngine()
	if err := engine.GenerateFile(fs, template_engine.TEMPLATES.CONFIG, path, config.Default()); err != nil {
		return errors.Wrap(err, "failed to write config")
	}

	logger.Info("Successfully wrote %s", path)
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&force, "force", false, "Force overwrite existing files")
}
