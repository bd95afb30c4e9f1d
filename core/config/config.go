package config

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/tristendillon/geninterface/core/logger"
	"gopkg.in/yaml.v3"
)

const FileName = "gen-interface.yaml"

type Config struct {
	Generate Generate `yaml:"generate"`
	Watch    Watch    `yaml:"watch"`
}

type Generate struct {
	// OutputSuffix replaces the source file extension, e.g. ".type.ts".
	OutputSuffix   string   `yaml:"output_suffix"`
	Extensions     []string `yaml:"extensions"`
	RequestSuffix  string   `yaml:"request_suffix"`
	ResponseSuffix string   `yaml:"response_suffix"`
}

type Watch struct {
	Debounce time.Duration `yaml:"debounce"`
	Exclude  []string      `yaml:"exclude"`
}

func Default() *Config {
	return &Config{
		Generate: Generate{
			OutputSuffix:   ".type.ts",
			Extensions:     []string{".ts", ".js", ".tsx", ".jsx"},
			RequestSuffix:  "参数",
			ResponseSuffix: "响应",
		},
		Watch: Watch{
			Debounce: 500 * time.Millisecond,
			Exclude:  []string{".git", "node_modules", "dist", "build"},
		},
	}
}

// Load reads gen-interface.yaml from the working directory, falling back to
// defaults when the file does not exist.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "cannot determine working dir")
	}

	path := filepath.Join(wd, FileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No config file found, using default config")
			return Default(), nil
		}
		return nil, errors.Wrapf(err, "failed to stat config file %s", path)
	}

	return LoadFrom(path)
}

// LoadFrom reads an explicit config file. Keys missing from the file keep
// their default values.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid config file %s", path)
	}
	logger.Debug("Config file found: %s", path)
	logger.Debug("Config: %+v", *cfg)

	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse yaml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Generate.OutputSuffix == "" {
		return errors.New("generate.output_suffix must not be empty")
	}
	if !strings.HasPrefix(c.Generate.OutputSuffix, ".") {
		return errors.Newf("generate.output_suffix %q must start with a dot", c.Generate.OutputSuffix)
	}
	if len(c.Generate.Extensions) == 0 {
		return errors.New("generate.extensions must list at least one extension")
	}
	for _, ext := range c.Generate.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return errors.Newf("extension %q must start with a dot", ext)
		}
	}
	if c.Watch.Debounce < 0 {
		return errors.Newf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}

// Hash fingerprints the settings that shape generated output. Watch mode
// regenerates every file when it changes.
func (c *Config) Hash() string {
	data, err := yaml.Marshal(c.Generate)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%x", md5.Sum(data))
}
