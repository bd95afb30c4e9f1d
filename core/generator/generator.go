package generator

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/tristendillon/geninterface/core/config"
	"github.com/tristendillon/geninterface/core/logger"
	"github.com/tristendillon/geninterface/core/merge"
	"github.com/tristendillon/geninterface/core/models"
	"github.com/tristendillon/geninterface/core/paths"
	"github.com/tristendillon/geninterface/core/synth"
	"github.com/tristendillon/geninterface/core/walker"
)

// ErrOutputExists is returned when the companion file already exists and
// force mode is off.
var ErrOutputExists = errors.New("output file already exists")

// ErrNotSource is returned when an explicitly named file is itself a
// companion file.
var ErrNotSource = errors.New("not a source file")

type Result struct {
	SourcePath   string
	OutputPath   string
	Functions    int
	Declarations int
	// Merged is true when an existing companion file was read back in.
	Merged bool
	Report merge.Report
}

type Generator struct {
	fs     afero.Fs
	cfg    *config.Config
	synth  *synth.Synthesizer
	walker walker.Walker
}

func NewGenerator(fs afero.Fs, cfg *config.Config) (*Generator, error) {
	g := &Generator{fs: fs}
	if err := g.SetConfig(cfg); err != nil {
		return nil, err
	}
	return g, nil
}

// SetConfig swaps in new settings. It is not safe to call concurrently with
// Generate.
func (g *Generator) SetConfig(cfg *config.Config) error {
	s, err := synth.NewSynthesizer(cfg.Generate)
	if err != nil {
		return err
	}
	g.cfg = cfg
	g.synth = s
	g.walker = walker.NewSourceWalker(g.fs, cfg)
	return nil
}

// Sources lists the source files under root.
func (g *Generator) Sources(root string) ([]string, error) {
	return g.walker.Walk(root)
}

func (g *Generator) OutputPath(sourcePath string) string {
	return paths.OutputPath(sourcePath, g.cfg.Generate.OutputSuffix)
}

// Generate writes the companion interface file for sourcePath. Without force
// an existing companion file is an error and nothing is written. With force
// the existing file is parsed and merged so hand-edited bodies survive.
func (g *Generator) Generate(sourcePath string, force bool) (*Result, error) {
	return g.generate(sourcePath, force, false)
}

// GenerateDiscovered is Generate for sources found by walking or watching a
// directory. A source without documented functions and without a companion
// file is skipped and yields a nil result.
func (g *Generator) GenerateDiscovered(sourcePath string, force bool) (*Result, error) {
	return g.generate(sourcePath, force, true)
}

func (g *Generator) generate(sourcePath string, force, skipEmpty bool) (*Result, error) {
	outputPath := g.OutputPath(sourcePath)

	exists, err := afero.Exists(g.fs, outputPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check output file %s", outputPath)
	}
	if exists && !force {
		return nil, errors.WithHint(
			errors.Wrapf(ErrOutputExists, "%s", outputPath),
			"re-run with --force to merge into the existing file",
		)
	}

	src, err := afero.ReadFile(g.fs, sourcePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read source file %s", sourcePath)
	}

	fresh, count, err := g.synth.Fresh(string(src))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to synthesize interfaces for %s", sourcePath)
	}

	if skipEmpty && count == 0 && !exists {
		logger.Debug("No documented functions in %s, skipping", sourcePath)
		return nil, nil
	}

	result := &Result{
		SourcePath: sourcePath,
		OutputPath: outputPath,
		Functions:  count,
	}

	final := fresh
	if force {
		existing := models.NewRecordSet()
		if exists {
			existing, err = g.readExisting(outputPath)
			if err != nil {
				return nil, err
			}
			result.Merged = true
		}
		final, result.Report = merge.MergeWithReport(fresh, existing)
	}
	result.Declarations = final.Len()

	if err := afero.WriteFile(g.fs, outputPath, []byte(merge.RenderFile(final)), 0644); err != nil {
		return nil, errors.Wrapf(err, "failed to write output file %s", outputPath)
	}

	logger.Debug("Wrote %d declarations for %d functions to %s", result.Declarations, count, outputPath)
	return result, nil
}

func (g *Generator) readExisting(outputPath string) (*models.RecordSet, error) {
	data, err := afero.ReadFile(g.fs, outputPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read output file %s", outputPath)
	}

	existing, err := g.synth.Existing(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse output file %s", outputPath)
	}
	logger.Debug("Parsed %d existing declarations from %s", existing.Len(), outputPath)
	return existing, nil
}

// GenerateAll runs Generate for every file path and GenerateDiscovered for
// every source file found under directory paths. A failing file does not
// stop the others; all failures are returned together.
func (g *Generator) GenerateAll(targets []string, force bool) ([]*Result, error) {
	var results []*Result
	var errs []error

	for _, target := range targets {
		sources, discovered, err := g.expand(target)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		for _, source := range sources {
			var result *Result
			if discovered {
				result, err = g.GenerateDiscovered(source, force)
			} else {
				result, err = g.Generate(source, force)
			}
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if result != nil {
				results = append(results, result)
			}
		}
	}

	if len(errs) > 0 {
		return results, errors.Join(errs...)
	}
	return results, nil
}

// expand resolves target to source files. discovered is true when target is
// a directory.
func (g *Generator) expand(target string) (sources []string, discovered bool, err error) {
	isDir, err := afero.IsDir(g.fs, target)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to stat %s", target)
	}
	if isDir {
		sources, err = g.walker.Walk(target)
		return sources, true, err
	}

	if paths.IsOutput(target, g.cfg.Generate.OutputSuffix) {
		return nil, false, errors.WithHint(
			errors.Wrapf(ErrNotSource, "%s", target),
			"pass the source file, not its generated "+g.cfg.Generate.OutputSuffix+" file",
		)
	}
	return []string{target}, false, nil
}
