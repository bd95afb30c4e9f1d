/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tristendillon/geninterface/core/generator"
	"github.com/tristendillon/geninterface/core/logger"
)

var generateForce bool

var generateCmd = &cobra.Command{
	Use:   "generate <path>...",
	Short: "Generates interface files for API source files",
	Long: `Generates a companion interface file for every given source file and for
every source file found under given directories. An existing companion file
is only touched with --force, in which case its interface bodies are kept.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		gen, err := generator.NewGenerator(afero.NewOsFs(), cfg)
		if err != nil {
			return err
		}

		results, err := gen.GenerateAll(args, generateForce)
		for _, result := range results {
			logger.Info("Generated %s (%d interfaces)", result.OutputPath, result.Declarations)
			if result.Merged {
				logger.Debug("  preserved=%d extras=%d added=%d",
					result.Report.Preserved, result.Report.Extras, result.Report.Added)
			}
		}
		if err != nil {
			return err
		}

		logger.Info("Successfully generated %d file(s)", len(results))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().BoolVarP(&generateForce, "force", "f", false, "Merge into existing interface files")
}
