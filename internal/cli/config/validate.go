package config

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/processdata/pkg/adapter"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if c.Table == "" {
		errs = append(errs, fmt.Errorf("table is required"))
	}
	if c.IDColumn == "" {
		errs = append(errs, fmt.Errorf("id_column is required"))
	}
	if c.Target == "" {
		errs = append(errs, fmt.Errorf("target is required"))
	} else if !adapter.IsRegistered(c.Target) {
		errs = append(errs, &adapter.UnknownAdapterError{Type: c.Target, Available: adapter.ListAdapters()})
	}
	if c.Preview < 0 {
		errs = append(errs, fmt.Errorf("preview must not be negative, got %d", c.Preview))
	}

	cats := c.Categories
	if cats.ItemSeparator == "" {
		errs = append(errs, fmt.Errorf("categories.item_separator is required"))
	}
	if cats.PairSeparator == "" {
		errs = append(errs, fmt.Errorf("categories.pair_separator is required"))
	}
	if cats.ItemSeparator != "" && cats.ItemSeparator == cats.PairSeparator {
		errs = append(errs, fmt.Errorf("categories separators must differ, both are %q", cats.ItemSeparator))
	}
	for i, co := range cats.Coercions {
		if co.Column == "" || co.From == "" {
			errs = append(errs, fmt.Errorf("categories.coercions[%d]: column and from are required", i))
		}
	}
	return errors.Join(errs...)
}
