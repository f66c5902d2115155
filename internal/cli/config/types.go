// Package config provides configuration management for the processdata CLI.
//
// Values are layered with koanf: built-in defaults, an optional YAML file,
// PROCESSDATA_ environment variables, then explicitly set command-line flags.
package config

import (
	"github.com/leapstack-labs/processdata/internal/categories"
	"github.com/leapstack-labs/processdata/internal/engine"
)

// Default values.
const (
	DefaultTarget   = engine.DefaultTarget
	DefaultTable    = engine.DefaultTable
	DefaultIDColumn = engine.DefaultIDColumn
	EnvPrefix       = "PROCESSDATA_"
)

// ConfigFileNames are searched in the working directory when --config is not given.
var ConfigFileNames = []string{"processdata.yaml", "processdata.yml"}

// Config holds all CLI configuration options.
type Config struct {
	Target     string            `koanf:"target"`
	Table      string            `koanf:"table"`
	IDColumn   string            `koanf:"id_column"`
	Verbose    bool              `koanf:"verbose"`
	Preview    int               `koanf:"preview"`
	StatePath  string            `koanf:"state_path"`
	Settings   map[string]string `koanf:"settings"`
	Categories CategoriesConfig  `koanf:"categories"`
}

// CategoriesConfig configures how the packed categories column is expanded.
type CategoriesConfig struct {
	Column        string           `koanf:"column"`
	ItemSeparator string           `koanf:"item_separator"`
	PairSeparator string           `koanf:"pair_separator"`
	Strict        bool             `koanf:"strict"`
	Coercions     []CoercionConfig `koanf:"coercions"`
}

// CoercionConfig rewrites one raw token before its value is parsed.
type CoercionConfig struct {
	Column string `koanf:"column"`
	From   string `koanf:"from"`
	To     string `koanf:"to"`
}

// CategoryOptions converts the categories section into cleaner options.
// Leaving coercions unset keeps the built-in related-2 -> related-1 rule.
func (c *Config) CategoryOptions() categories.Options {
	opts := categories.Options{
		Column:  c.Categories.Column,
		ItemSep: c.Categories.ItemSeparator,
		PairSep: c.Categories.PairSeparator,
		Strict:  c.Categories.Strict,
	}
	if c.Categories.Coercions != nil {
		opts.Coercions = make([]categories.Coercion, len(c.Categories.Coercions))
		for i, co := range c.Categories.Coercions {
			opts.Coercions[i] = categories.Coercion{Column: co.Column, From: co.From, To: co.To}
		}
	}
	return opts
}
