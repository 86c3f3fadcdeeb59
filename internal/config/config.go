// Package config loads the one optional project configuration file:
// `.codegraph.yaml` at the workspace root, read through viper so it can
// also be overridden by CLI flags and CODEGRAPH_-prefixed environment
// variables without the CLI layer caring which source won.
package config

import (
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full set of configuration inputs: a workspace-relative
// repository root, a fixed denylist of directory names (extensible, never
// replaced, by the optional config file), the tracked-extension set, and
// the worker count for parallel extraction.
type Config struct {
	// Root is the workspace directory to enumerate from.
	Root string `mapstructure:"root"`
	// DBPath overrides the default .codegraph/graph.db location.
	DBPath string `mapstructure:"db_path"`
	// ExtraIgnoreDirs is appended to the fixed denylist in package ignore.
	ExtraIgnoreDirs []string `mapstructure:"ignore_dirs"`
	// Debug enables verbose structured logging.
	Debug bool `mapstructure:"debug"`
	// Workers bounds how many files package pipeline extracts concurrently
	// during a full build. Extraction is embarrassingly parallel per file;
	// the graph is still assembled from the resulting records in one
	// single-writer transaction, so this only ever affects C1-C3 wall time.
	Workers int `mapstructure:"workers"`
	// IncludeExt, when non-empty, replaces the default tracked-extension
	// set instead of extending it.
	IncludeExt []string `mapstructure:"include_ext"`
	// ExcludeExt removes extensions from whichever tracked set (default or
	// IncludeExt) is otherwise in effect.
	ExcludeExt []string `mapstructure:"exclude_ext"`
}

// Load reads .codegraph.yaml from root if present, layering in
// CODEGRAPH_-prefixed environment variable overrides, and returns the
// resolved Config. A missing config file is not an error: the defaults
// (Root as given, Workers = runtime.NumCPU(), no extra ignores) apply.
func Load(root string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".codegraph")
	v.SetConfigType("yaml")
	v.AddConfigPath(root)

	v.SetEnvPrefix("codegraph")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("root", root)
	v.SetDefault("workers", runtime.NumCPU())

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Root == "" {
		cfg.Root = root
	}
	return &cfg, nil
}
